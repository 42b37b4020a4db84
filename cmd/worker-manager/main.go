// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"migratio-workers/internal/common/camunda"
	"migratio-workers/internal/common/config"
	"migratio-workers/internal/common/database"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/common/observability"
	"migratio-workers/internal/gapanalysis"
	"migratio-workers/internal/recommendation"
	"migratio-workers/internal/scoring"

	// Data Access Workers (2)
	qp "migratio-workers/internal/workers/data-access/query-postgresql"
	sp "migratio-workers/internal/workers/data-access/search-programs"

	// Recommendation Workers (5)
	af "migratio-workers/internal/workers/recommendation/add-feedback"
	ar "migratio-workers/internal/workers/recommendation/archive-recommendation"
	gr "migratio-workers/internal/workers/recommendation/generate-recommendations"
	grd "migratio-workers/internal/workers/recommendation/get-recommendation-details"
	gl "migratio-workers/internal/workers/recommendation/get-recommendations"

	// Communication Workers (1)
	sn "migratio-workers/internal/workers/communication/send-notification"
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

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build the recommendation service ---
	profileTTL := time.Duration(cfg.Recommendation.Cache.ProfileTTL) * time.Second
	programTTL := time.Duration(cfg.Recommendation.Cache.ProgramTTL) * time.Second

	profiles := recommendation.NewPostgresProfileProvider(pg.DB, redis.Client, profileTTL, log)
	catalog := recommendation.NewPostgresProgramCatalog(pg.DB, redis.Client, programTTL, log)
	store := recommendation.NewPostgresStore(pg.DB, log)
	engine := scoring.NewEngine(log)
	analyzer := gapanalysis.NewAnalyzer(log, cfg.Recommendation.AlgorithmVersion)

	svc := recommendation.NewService(profiles, catalog, store, engine, analyzer, log, cfg.Recommendation.AlgorithmVersion)

	// --- Register Workers ---

	// --- 1. Recommendation Workers (5) ---
	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				Timeout:    time.Duration(cfg.Workers[gr.TaskType].Timeout) * time.Millisecond,
				MaxResults: cfg.Recommendation.MaxResults,
			},
			svc, log,
		)
		startWorker(zeebeClient, gr.TaskType, cfg.Workers[gr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gl.TaskType].Enabled {
		handler := gl.NewHandler(
			&gl.Config{
				Timeout:      time.Duration(cfg.Workers[gl.TaskType].Timeout) * time.Millisecond,
				DefaultLimit: cfg.Recommendation.MaxResults,
			},
			svc, log,
		)
		startWorker(zeebeClient, gl.TaskType, cfg.Workers[gl.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[grd.TaskType].Enabled {
		handler := grd.NewHandler(
			&grd.Config{
				Timeout: time.Duration(cfg.Workers[grd.TaskType].Timeout) * time.Millisecond,
			},
			svc, log,
		)
		startWorker(zeebeClient, grd.TaskType, cfg.Workers[grd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ar.TaskType].Enabled {
		handler := ar.NewHandler(
			&ar.Config{
				Timeout: time.Duration(cfg.Workers[ar.TaskType].Timeout) * time.Millisecond,
			},
			svc, log,
		)
		startWorker(zeebeClient, ar.TaskType, cfg.Workers[ar.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[af.TaskType].Enabled {
		handler := af.NewHandler(
			&af.Config{
				Timeout: time.Duration(cfg.Workers[af.TaskType].Timeout) * time.Millisecond,
			},
			svc, log,
		)
		startWorker(zeebeClient, af.TaskType, cfg.Workers[af.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sp.TaskType].Enabled {
		handler := sp.NewHandler(
			&sp.Config{
				Timeout:      time.Duration(cfg.Workers[sp.TaskType].Timeout) * time.Millisecond,
				DefaultIndex: "programs",
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sp.TaskType, cfg.Workers[sp.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Communication Workers (1) ---
	if cfg.Workers[sn.TaskType].Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
