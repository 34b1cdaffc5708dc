package placeorder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/common/observability"
	"restaurant-workers/internal/common/validation"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/nlp"
	"restaurant-workers/internal/ordering"
)

const (
	TaskType = "place-order"
)

type Dependencies struct {
	Parser *nlp.Parser
	Menu   ordering.MenuProvider
	Orders ordering.OrderRepository
	// Chat is optional; without it no conversation is recorded.
	Chat          ordering.ChatRecorder
	Observability *observability.Observability
}

type Handler struct {
	config       *Config
	deps         Dependencies
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         deps,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.TrackJob(TaskType)

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		done(string(h.errorHandler.HandleJobError(ctx, client, job, err)))
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		done(string(h.errorHandler.HandleJobError(ctx, client, job, err)))
		return
	}

	h.completeJob(client, job, output)
	done("")
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("parse variables: %v", err))
	}
	if result := validation.ValidateInput(variables, GetInputSchema()); !result.Valid {
		if result.HasErrors("message") {
			return nil, errors.NewMessageRequiredError()
		}
		return nil, errors.NewInputValidationFailedError(result.Error().Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInputValidationFailedError("input cannot be nil")
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, errors.NewMessageRequiredError()
	}

	menu, err := h.deps.Menu.Available(ctx, "")
	if err != nil {
		return nil, errors.NewMenuFetchFailedError(err)
	}

	analysis := h.deps.Parser.Analyze(ctx, message, models.MenuNames(menu))
	parsed := analysis.Result
	source := string(analysis.Classification.Source)

	metrics.OrdersParsed.WithLabelValues(string(parsed.Intent), source).Inc()
	metrics.OrderParseConfidence.Observe(parsed.Confidence)
	h.deps.Observability.RecordParse(ctx, string(parsed.Intent), source)

	h.logger.Info("message parsed", map[string]interface{}{
		"intent":     string(parsed.Intent),
		"items":      parsed.Items,
		"quantities": parsed.Quantities,
		"confidence": parsed.Confidence,
	})

	output := &Output{
		Success:    true,
		Intent:     string(parsed.Intent),
		Confidence: parsed.Confidence,
		Response:   ordering.Reply(parsed.Intent),
	}

	switch parsed.Intent {
	case nlp.IntentGreeting, nlp.IntentHelp, nlp.IntentCancelOrder:
		return output, nil
	case nlp.IntentShowMenu:
		output.Menu = menu
		return output, nil
	case nlp.IntentOrderFood:
		return h.placeOrder(ctx, input, message, parsed, menu, output)
	default:
		output.Response = ordering.UnknownReply
		return output, nil
	}
}

func (h *Handler) placeOrder(ctx context.Context, input *Input, message string, parsed nlp.ParseResult, menu []models.MenuItem, output *Output) (*Output, error) {
	if len(parsed.Items) == 0 {
		return nil, errors.NewNoItemsFoundError(message).WithMetadata("response", ordering.NoItemsReply)
	}

	lines, total, unknown := ordering.BuildOrderItems(parsed.Items, parsed.Quantities, menu)
	if len(lines) == 0 {
		return nil, errors.NewNoValidMenuItemsError(unknown).WithMetadata("response", ordering.NoValidItemsReply)
	}
	if len(unknown) > 0 {
		h.logger.Warn("parsed items missing from menu", map[string]interface{}{"items": unknown})
	}

	customer := models.DefaultCustomer()
	if input.User != nil {
		customer = *input.User
		if strings.TrimSpace(customer.Name) == "" {
			customer.Name = models.DefaultCustomer().Name
		}
	}

	now := h.now()
	order := &models.Order{
		OrderID:         ordering.NewOrderID(now),
		User:            customer,
		Items:           lines,
		TotalPrice:      total,
		Status:          models.OrderStatusPending,
		OriginalMessage: message,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.deps.Orders.Create(ctx, order); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	metrics.OrdersPlaced.Inc()

	confirmation := ordering.ConfirmationMessage(order, h.config.CurrencySymbol)
	h.recordChat(ctx, models.ChatEntry{
		OrderID:        order.OrderID,
		Sender:         models.ChatSenderUser,
		Message:        message,
		Timestamp:      now,
		ParsedIntent:   string(parsed.Intent),
		ExtractedItems: parsed.Items,
	})
	h.recordChat(ctx, models.ChatEntry{
		OrderID:   order.OrderID,
		Sender:    models.ChatSenderSystem,
		Message:   confirmation,
		Timestamp: h.now(),
	})

	h.logger.Info("order placed", map[string]interface{}{
		"orderId": order.OrderID,
		"items":   len(order.Items),
		"total":   order.TotalPrice,
	})

	output.Order = order
	output.Response = confirmation
	return output, nil
}

func (h *Handler) recordChat(ctx context.Context, entry models.ChatEntry) {
	if h.deps.Chat == nil {
		return
	}
	if err := h.deps.Chat.Append(ctx, entry); err != nil {
		h.logger.Warn("chat log write failed", map[string]interface{}{
			"orderId":   entry.OrderID,
			"sender":    string(entry.Sender),
			"errorCode": string(errors.ErrCodeChatLogFailed),
			"error":     err.Error(),
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
