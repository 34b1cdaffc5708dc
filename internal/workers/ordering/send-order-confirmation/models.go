// internal/workers/ordering/send-order-confirmation/models.go
package sendorderconfirmation

import "restaurant-workers/internal/models"

type Input struct {
	Order models.Order `json:"order"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	Status         string                `json:"status"` // "sent", "failed", "disabled"
	Channels       []string              `json:"channels"`
	SentAt         string                `json:"sentAt"` // ISO 8601
	Notifications  []models.Notification `json:"notifications"`
}

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
