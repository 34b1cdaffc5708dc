package queryelasticsearch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/common/validation"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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

	queryType := models.SearchQueryType(input.QueryType)
	if !queries.Supported(queryType) {
		return nil, errors.NewInvalidQueryTypeError(input.QueryType)
	}

	index := input.IndexName
	if index == "" {
		index = h.config.DefaultIndex
	}

	result, err := queries.Execute(ctx, h.client, queries.ChatQuery{
		Index:     index,
		QueryType: queryType,
		OrderID:   input.OrderID,
		Sender:    input.Sender,
		Keywords:  input.Keywords,
		From:      input.Pagination.From,
		Size:      input.Pagination.Size,
	})
	if err != nil {
		return nil, h.mapError(ctx, input.QueryType, index, err)
	}

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

func (h *Handler) mapError(ctx context.Context, queryType, index string, err error) error {
	switch {
	case ctx.Err() == context.DeadlineExceeded, stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewSearchTimeoutError(queryType)
	case stderrors.Is(err, queries.ErrMissingIndex), stderrors.Is(err, queries.ErrIndexNotFound):
		return errors.NewIndexNotFoundError(index)
	case stderrors.Is(err, queries.ErrMissingParam):
		return errors.NewInputValidationFailedError(fmt.Sprintf("queryType: %s, %v", queryType, err))
	default:
		return errors.NewSearchQueryFailedError(queryType, err)
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
