package getmenu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/ordering"
)

const (
	TaskType = "get-menu"
)

type Handler struct {
	config       *Config
	menu         ordering.MenuProvider
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, menu ordering.MenuProvider, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		menu:         menu,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		err = errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
		done(string(h.errorHandler.HandleJobError(ctx, client, job, err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		done(string(h.errorHandler.HandleJobError(ctx, client, job, err)))
		return
	}

	h.completeJob(client, job, output)
	done("")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// every field is optional
	if input == nil {
		input = &Input{}
	}
	category := strings.TrimSpace(input.Category)

	all, err := h.menu.Available(ctx, "")
	if err != nil {
		return nil, errors.NewMenuFetchFailedError(err)
	}

	items := all
	if category != "" {
		// Served from the per-category cache key.
		items, err = h.menu.Available(ctx, category)
		if err != nil {
			return nil, errors.NewMenuFetchFailedError(err)
		}
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	categories := models.MenuCategories(all)
	if categories == nil {
		categories = []string{}
	}

	h.logger.Info("menu loaded", map[string]interface{}{
		"category": category,
		"count":    len(items),
	})

	return &Output{
		Menu:       items,
		Count:      len(items),
		Category:   category,
		Categories: categories,
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
