// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	awsclient "restaurant-workers/internal/common/aws"
	"restaurant-workers/internal/common/camunda"
	"restaurant-workers/internal/common/config"
	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/observability"
	"restaurant-workers/internal/nlp"
	"restaurant-workers/internal/nlp/zeroshot"
	"restaurant-workers/internal/ordering"

	// Data Access Workers (2)
	qe "restaurant-workers/internal/workers/data-access/query-elasticsearch"
	qp "restaurant-workers/internal/workers/data-access/query-postgresql"

	// Ordering Workers (5)
	gm "restaurant-workers/internal/workers/ordering/get-menu"
	po "restaurant-workers/internal/workers/ordering/parse-order"
	plo "restaurant-workers/internal/workers/ordering/place-order"
	soc "restaurant-workers/internal/workers/ordering/send-order-confirmation"
	uos "restaurant-workers/internal/workers/ordering/update-order-status"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	log.Info("PostgreSQL connected", nil)

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	log.Info("Elasticsearch connected", nil)

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	log.Info("Redis connected", nil)

	// --- Ordering services ---
	parser := buildParser(cfg, log)
	catalog := ordering.NewCatalog(pg.DB, redis, cfg.Menu, log)
	orders := ordering.NewOrderStore(pg, cfg.Orders.DefaultListLimit, cfg.Orders.MaxListLimit)
	chatLog := ordering.NewChatLog(es.Client, cfg.Orders.ChatIndex)
	if err := chatLog.EnsureIndex(ctx); err != nil {
		log.Warn("chat index not ready, chat entries may fail", map[string]interface{}{
			"index": chatLog.Index(),
			"error": err.Error(),
		})
	}
	email, sms := buildNotifiers(ctx, cfg, log)

	// --- Workers ---
	handlers := []struct {
		taskType string
		handle   worker.JobHandler
	}{
		{po.TaskType, po.NewHandler(po.LoadConfig(cfg), parser, catalog, obs, log).Handle},
		{plo.TaskType, plo.NewHandler(plo.LoadConfig(cfg), plo.Dependencies{
			Parser:        parser,
			Menu:          catalog,
			Orders:        orders,
			Chat:          chatLog,
			Observability: obs,
		}, log).Handle},
		{gm.TaskType, gm.NewHandler(gm.LoadConfig(cfg), catalog, log).Handle},
		{uos.TaskType, uos.NewHandler(uos.LoadConfig(cfg), orders, log).Handle},
		{soc.TaskType, soc.NewHandler(soc.LoadConfig(cfg), email, sms, log).Handle},
		{qp.TaskType, qp.NewHandler(qp.LoadConfig(cfg), pg.DB, log).Handle},
		{qe.TaskType, qe.NewHandler(qe.LoadConfig(cfg), es.Client, log).Handle},
	}

	var jobWorkers []worker.JobWorker
	for _, h := range handlers {
		if !config.IsWorkerEnabled(cfg, h.taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": h.taskType})
			continue
		}
		wc := config.GetWorkerConfig(cfg, h.taskType)
		jobWorkers = append(jobWorkers, camunda.StartWorker(
			zeebe.GetClient(),
			h.taskType,
			camunda.WorkerOptions{
				MaxJobsActive: wc.MaxJobsActive,
				Timeout:       config.GetDuration(wc.Timeout),
			},
			obs.Instrument(h.taskType, h.handle),
			log,
		))
	}
	log.Info("workers registered", map[string]interface{}{"count": len(jobWorkers)})

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.App.HealthPort, []readinessCheck{
		{name: "zeebe", check: zeebe.HealthCheck},
		{name: "postgres", check: pg.Ping},
		{name: "redis", check: redis.Ping},
		{name: "elasticsearch", check: es.Info},
	}, log)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range jobWorkers {
		w.Close()
	}
	for _, w := range jobWorkers {
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

// buildParser returns a pattern-only parser, or one that asks the zero-shot
// model when no rule matches and nlp.zero_shot.enabled is set.
func buildParser(cfg *config.Config, log logger.Logger) *nlp.Parser {
	nlpConfig := nlp.Config{
		Threshold:      cfg.NLP.Threshold,
		SpelledNumbers: cfg.NLP.SpelledNumbersEnabled(),
	}
	opts := []nlp.Option{nlp.WithLogger(log.WithFields(map[string]interface{}{"component": "parser"}))}

	zs := cfg.NLP.ZeroShot
	if zs.Enabled {
		model := zeroshot.NewClient(zeroshot.Config{
			BaseURL:         zs.BaseURL,
			APIKey:          zs.APIKey,
			Model:           zs.Model,
			Timeout:         config.GetDuration(zs.Timeout),
			MaxRetries:      zs.MaxRetries,
			CacheSize:       zs.CacheSize,
			CacheTTL:        config.GetDuration(zs.CacheTTL),
			RatePerSecond:   zs.RatePerSecond,
			Burst:           zs.Burst,
			BreakerFailures: zs.BreakerFailures,
		}, log)
		opts = append(opts, nlp.WithClassifier(
			nlp.NewPatternWithFallback(model, zs.MinScore, config.GetDuration(zs.Timeout)),
		))
		log.Info("zero-shot fallback enabled", map[string]interface{}{"model": zs.Model})
	}

	return nlp.NewParser(nlpConfig, opts...)
}

// buildNotifiers returns nil senders for disabled channels or when AWS
// credentials cannot be resolved.
func buildNotifiers(ctx context.Context, cfg *config.Config, log logger.Logger) (soc.EmailSender, soc.SMSSender) {
	var (
		email soc.EmailSender
		sms   soc.SMSSender
	)
	if !cfg.Notifications.Email.Enabled && !cfg.Notifications.SMS.Enabled {
		return email, sms
	}

	awsCfg, err := awsclient.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		log.Error("AWS config unavailable, order notifications disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return email, sms
	}

	if cfg.Notifications.Email.Enabled {
		email = awsclient.NewSESClient(awsCfg)
	}
	if cfg.Notifications.SMS.Enabled {
		sms = awsclient.NewSNSClient(awsCfg)
	}
	return email, sms
}
