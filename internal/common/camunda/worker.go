// internal/common/camunda/worker.go

package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"restaurant-workers/internal/common/logger"
)

// WorkerOptions configure a job worker subscription.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
}

// JobWorkerProvider is the part of zbc.Client needed to open workers.
type JobWorkerProvider interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

var _ JobWorkerProvider = (zbc.Client)(nil)

// StartWorker opens a job worker for taskType and returns it so the caller
// can close it on shutdown.
func StartWorker(client JobWorkerProvider, taskType string, opts WorkerOptions, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if opts.MaxJobsActive <= 0 {
		opts.MaxJobsActive = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	step := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Name(taskType)
	if opts.PollInterval > 0 {
		step = step.PollInterval(opts.PollInterval)
	}
	jobWorker := step.Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return jobWorker
}
