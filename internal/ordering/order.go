package ordering

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-workers/internal/models"
	"restaurant-workers/internal/nlp"
)

const (
	WelcomeReply = "Hello! Welcome to our restaurant. You can order food by saying something like " +
		"'I want 2 pizzas and 1 coke' or ask to 'show menu' to see available items."
	MenuReply    = "Here's our menu:"
	CancelReply  = "I understand you want to cancel. Please specify your order ID or contact our staff for assistance."
	UnknownReply = "I didn't quite understand that. You can order food, ask for the menu, or get help. " +
		"Try saying something like 'I want 2 pizzas' or 'show me the menu'."
	NoItemsReply      = "No food items found in your message. Please specify what you'd like to order."
	NoValidItemsReply = "No valid menu items found. Please check the menu and try again."
)

// Reply is the canned answer for intents that do not create an order.
func Reply(intent nlp.Intent) string {
	switch intent {
	case nlp.IntentGreeting, nlp.IntentHelp:
		return WelcomeReply
	case nlp.IntentShowMenu:
		return MenuReply
	case nlp.IntentCancelOrder:
		return CancelReply
	default:
		return UnknownReply
	}
}

// NewOrderID formats ORD_<yyyymmdd_HHMMSS>_<6 hex chars>.
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("ORD_%s_%s", now.Format("20060102_150405"), suffix)
}

// BuildOrderItems prices parsed items against the menu. Quantities pair with
// items by position and default to 1 only when missing; a parsed 0 is kept. Names missing from the menu are
// skipped and returned separately.
func BuildOrderItems(items []string, quantities []float64, menu []models.MenuItem) ([]models.OrderItem, float64, []string) {
	byName := make(map[string]models.MenuItem, len(menu))
	for _, m := range menu {
		key := strings.ToLower(m.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = m
		}
	}

	var (
		lines   []models.OrderItem
		unknown []string
		total   float64
	)
	for i, name := range items {
		entry, ok := byName[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}

		quantity := 1.0
		if i < len(quantities) {
			quantity = quantities[i]
		}

		lineTotal := roundCents(entry.Price * quantity)
		lines = append(lines, models.OrderItem{
			ItemID:     entry.ItemID,
			Name:       entry.Name,
			Quantity:   quantity,
			UnitPrice:  entry.Price,
			TotalPrice: lineTotal,
		})
		total += lineTotal
	}

	return lines, roundCents(total), unknown
}

// ConfirmationMessage is the system reply written after an order is placed.
func ConfirmationMessage(order *models.Order, currency string) string {
	parts := make([]string, len(order.Items))
	for i, item := range order.Items {
		parts[i] = fmt.Sprintf("%sx %s", FormatQuantity(item.Quantity), item.Name)
	}
	return fmt.Sprintf("Order confirmed! Your order ID is %s. Total: %s. Items: %s",
		order.OrderID, FormatMoney(order.TotalPrice, currency), strings.Join(parts, ", "))
}

func FormatMoney(amount float64, currency string) string {
	return currency + strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatQuantity drops the fraction for whole quantities.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
