package sendorderconfirmation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/common/validation"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/ordering"
)

const (
	TaskType = "send-order-confirmation"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, senderID, message string) (string, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// NewHandler accepts nil senders; the matching channel is then treated as
// disabled.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
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
		return nil, errors.NewInputValidationFailedError(result.Error().Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// execute sends the confirmation on every enabled channel the customer can
// be reached on. Delivery failures are reported in the output, not as job
// errors.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInputValidationFailedError("input cannot be nil")
	}

	order := &input.Order
	if strings.TrimSpace(order.OrderID) == "" {
		return nil, errors.NewInputValidationFailedError("order.orderId is required")
	}

	sentAt := h.now().Format(time.RFC3339)
	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         sentAt,
		Notifications:  []models.Notification{},
	}

	body := ordering.ConfirmationMessage(order, h.config.CurrencySymbol)
	subject := fmt.Sprintf("Your order %s is confirmed", order.OrderID)

	attempted, failed := 0, 0
	record := func(n models.Notification) {
		n.OrderID = order.OrderID
		n.SentAt = sentAt
		output.Notifications = append(output.Notifications, n)
		metrics.NotificationsSent.WithLabelValues(n.Channel, n.Status).Inc()
		attempted++
		if n.Status == StatusFailed {
			failed++
			return
		}
		output.Channels = append(output.Channels, n.Channel)
	}

	if email := strings.TrimSpace(order.User.Email); h.config.EmailEnabled && h.email != nil && email != "" {
		record(h.sendEmail(ctx, email, subject, body))
	}

	if phone := strings.TrimSpace(order.User.Phone); h.config.SMSEnabled && h.sms != nil && phone != "" {
		record(h.sendSMS(ctx, phone, body))
	}

	switch {
	case attempted == 0:
		output.Status = StatusDisabled
	case failed == attempted:
		output.Status = StatusFailed
	default:
		output.Status = StatusSent
	}

	h.logger.Info("order confirmation processed", map[string]interface{}{
		"orderId":  order.OrderID,
		"status":   output.Status,
		"channels": output.Channels,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) models.Notification {
	n := models.Notification{
		ID:        uuid.New().String(),
		Channel:   ChannelEmail,
		Recipient: to,
		Payload:   map[string]interface{}{"subject": subject},
	}
	if !validation.ValidateEmail(to) {
		h.logger.Warn("invalid customer email", map[string]interface{}{"email": to})
		n.Status = StatusFailed
		return n
	}

	messageID, err := h.email.SendText(ctx, h.config.FromEmail, to, subject, body)
	if err != nil {
		stdErr := errors.NewNotificationSendFailedError(ChannelEmail, err)
		h.logger.Error("email send failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"error":     stdErr.Details,
			"email":     to,
		})
		n.Status = StatusFailed
		return n
	}

	n.Status = StatusSent
	n.MessageID = messageID
	return n
}

func (h *Handler) sendSMS(ctx context.Context, to, body string) models.Notification {
	n := models.Notification{
		ID:        uuid.New().String(),
		Channel:   ChannelSMS,
		Recipient: to,
	}
	if !validation.ValidatePhone(to) {
		h.logger.Warn("invalid customer phone", map[string]interface{}{"phone": to})
		n.Status = StatusFailed
		return n
	}

	messageID, err := h.sms.SendSMS(ctx, to, h.config.SenderID, body)
	if err != nil {
		stdErr := errors.NewNotificationSendFailedError(ChannelSMS, err)
		h.logger.Error("SMS send failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"error":     stdErr.Details,
			"phone":     to,
		})
		n.Status = StatusFailed
		return n
	}

	n.Status = StatusSent
	n.MessageID = messageID
	return n
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
