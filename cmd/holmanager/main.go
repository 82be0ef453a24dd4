// cmd/holmanager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hol-manager/internal/api"
	"hol-manager/internal/archive"
	"hol-manager/internal/checks"
	"hol-manager/internal/common/aws"
	"hol-manager/internal/common/config"
	"hol-manager/internal/common/database"
	"hol-manager/internal/common/genai"
	"hol-manager/internal/common/logger"
	"hol-manager/internal/common/observability"
	"hol-manager/internal/employee"
	"hol-manager/internal/notify"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hol-manager...")

	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Swap in the configured logger once config is available.
	log = logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	obs := observability.New("hol-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (archive search index, non-fatal) ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

	var indexer archive.RecordIndexer
	if err != nil {
		zapLog.Warn("elasticsearch unavailable, archive indexing disabled", zap.Error(err))
	} else {
		indexer = archive.NewIndexer(esClient.Client, cfg.Archive.Index)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init SES client ---
	var sesClient notify.SESService
	if cfg.Integrations.AWS.SES.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sesClient = client
		zapLog.Info("SES client initialized")
	}

	// --- Wire domain components ---
	repo := employee.NewRepository(pg.DB, log)

	engine := checks.NewEngine(checks.Windows{
		AppointmentLookaheadDays: cfg.Checks.AppointmentLookaheadDays,
		ContractLookaheadDays:    cfg.Checks.ContractLookaheadDays,
		StalenessThresholdDays:   cfg.Checks.StalenessThresholdDays,
	})

	// One flag for both: the runner must never count an email the sink's
	// channel would drop.
	emailEnabled := cfg.Notifications.Email.Enabled && cfg.Integrations.AWS.SES.Enabled

	sink := notify.NewSink(pg.DB, redis.Client, sesClient, notify.Config{
		EmailEnabled: emailEnabled,
		FromEmail:    cfg.Integrations.AWS.SES.FromEmail,
		HRInbox:      cfg.Notifications.Email.HRInbox,
		DedupTTL:     time.Duration(cfg.Notifications.DedupTTLHours) * time.Hour,
	}, log)

	runner := checks.NewRunner(engine, repo, sink, emailEnabled, log)

	writer := archive.NewWriter(cfg.Archive.Directory)
	flow := archive.NewFlow(repo, writer, indexer, cfg.Checks.RetentionDays, log)

	summarizer := genai.NewClient(
		cfg.Integrations.GenAI.BaseURL,
		cfg.Integrations.GenAI.APIKey,
		config.GetDuration(cfg.Integrations.GenAI.Timeout),
		log,
	)

	router := api.NewRouter(api.Handlers{
		Checks:        api.NewChecksHandler(runner, log),
		Archive:       api.NewArchiveHandler(flow, writer, log),
		Employees:     api.NewEmployeesHandler(repo, summarizer, log),
		Notifications: api.NewNotificationsHandler(sink, log),
	}, cfg.App.IsProduction(), log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
