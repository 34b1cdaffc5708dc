package parseorder

import (
	"context"
	"encoding/json"
	"fmt"

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
	TaskType = "parse-order"
)

type Handler struct {
	config       *Config
	parser       *nlp.Parser
	menu         ordering.MenuProvider
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, parser *nlp.Parser, menu ordering.MenuProvider, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		parser:       parser,
		menu:         menu,
		obs:          obs,
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

	names := input.MenuNames
	if names == nil {
		menu, err := h.menu.Available(ctx, input.Category)
		if err != nil {
			return nil, errors.NewMenuFetchFailedError(err)
		}
		names = models.MenuNames(menu)
	}

	analysis := h.parser.Analyze(ctx, input.Message, names)
	result := analysis.Result
	source := string(analysis.Classification.Source)

	metrics.OrdersParsed.WithLabelValues(string(result.Intent), source).Inc()
	metrics.OrderParseConfidence.Observe(result.Confidence)
	h.obs.RecordParse(ctx, string(result.Intent), source)

	output := &Output{
		Intent:             string(result.Intent),
		Items:              result.Items,
		Quantities:         result.Quantities,
		Confidence:         result.Confidence,
		Source:             source,
		NeedsClarification: result.Intent == nlp.IntentOrderFood && len(result.Items) == 0,
	}
	if analysis.Classification.Degraded != nil {
		output.DegradedReason = string(errors.ErrCodeZeroShotUnavailable)
		h.logger.Warn("intent model unavailable, used default intent", map[string]interface{}{
			"error": analysis.Classification.Degraded.Error(),
		})
	}

	h.logger.Info("message parsed", map[string]interface{}{
		"intent":     output.Intent,
		"items":      len(output.Items),
		"confidence": output.Confidence,
		"source":     source,
	})
	return output, nil
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
