package updateorderstatus

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/common/validation"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/ordering"
)

const (
	TaskType = "update-order-status"
)

type Handler struct {
	config       *Config
	orders       ordering.OrderRepository
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, orders ordering.OrderRepository, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		orders:       orders,
		errorHandler: errors.NewErrorHandler(scoped),
		logger:       scoped,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInputValidationFailedError("input cannot be nil")
	}

	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, errors.NewInputValidationFailedError("orderId is required")
	}

	status, ok := models.ParseOrderStatus(input.Status)
	if !ok {
		stdErr := errors.NewInvalidOrderStatusError(input.Status)
		stdErr.Details = fmt.Sprintf("status: %s, valid statuses: %s",
			input.Status, strings.Join(models.ValidOrderStatusNames(), ", "))
		return nil, stdErr
	}

	if err := h.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if stderrors.Is(err, ordering.ErrOrderNotFound) {
			return nil, errors.NewOrderNotFoundError(orderID)
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError("update_order_status")
		}
		return nil, errors.NewQueryExecutionFailedError("update_order_status", err)
	}

	h.logger.Info("order status updated", map[string]interface{}{
		"orderId": orderID,
		"status":  string(status),
	})

	return &Output{
		Success: true,
		Message: fmt.Sprintf("Order %s status updated to %s", orderID, status),
		OrderID: orderID,
		Status:  string(status),
	}, nil
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
