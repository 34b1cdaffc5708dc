// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	OrdersParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_parsed_total",
			Help: "Messages parsed, by resulting intent and the stage that decided it",
		},
		[]string{"intent", "source"},
	)

	OrderParseConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_parse_confidence",
			Help:    "Confidence of parsed messages",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	OrdersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders written to the order store",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "Order confirmation deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)

	ZeroShotRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zero_shot_requests_total",
			Help: "Calls to the zero-shot intent model by outcome",
		},
		[]string{"outcome"},
	)
)

// TrackJob marks a job active and returns the function that records how it
// ended. An empty error code means the job completed.
func TrackJob(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()

	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}
