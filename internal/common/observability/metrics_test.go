package observability

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"

	"restaurant-workers/internal/common/logger"
)

func TestInstrument_CallsHandler(t *testing.T) {
	obs := New("observability-test", logger.NewTestLogger(t))
	defer obs.Shutdown()

	called := false
	handler := obs.Instrument("parse-order", func(client worker.JobClient, job entities.Job) {
		called = true
	})

	handler(nil, entities.Job{})
	assert.True(t, called)
}

func TestNilObservability_IsSafe(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(context.Background(), "x")
		obs.RecordJobDuration(context.Background(), time.Millisecond, "x")
		obs.RecordParse(context.Background(), "order_food", "pattern")
		obs.Shutdown()
	})
}
