package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasMBBrito/Projeto-DAE/internal/bootstrap"
	"github.com/TomasMBBrito/Projeto-DAE/internal/config"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()

	jobTimeout := time.Duration(cfg.WorkerJobTimeoutSeconds) * time.Second

	handler := func(jobCtx context.Context, job domain.SummaryJob) error {
		runCtx, cancel := context.WithTimeout(jobCtx, jobTimeout)
		defer cancel()

		app.Metrics.StartTask()
		start := time.Now()
		err := runJob(runCtx, app, job)
		app.Metrics.FinishTask("worker", time.Since(start), err)

		if err != nil {
			logger.Error("summary_job_failed", "publication_id", job.PublicationID, "error", err)
		} else {
			logger.Info("summary_job_done", "publication_id", job.PublicationID, "duration_ms", time.Since(start).Milliseconds())
		}
		return err
	}

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	if err := app.Queue.SubscribeSummaryJobs(ctx, handler); err != nil {
		logger.Error("subscribe_failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func runJob(ctx context.Context, app *bootstrap.Worker, job domain.SummaryJob) error {
	// Jobs are not redelivered, so a publication must reach a terminal state
	// even when the stored file cannot be read. Empty bytes fail extraction
	// inside the task, which records the failure and its audit entry.
	data, err := readStored(ctx, app, job.StorageKey)
	if err != nil {
		slog.Warn("stored_document_unreadable", "publication_id", job.PublicationID, "key", job.StorageKey, "error", err)
		data = nil
	}

	return app.Processor.RunSummaryTask(ctx, job.PublicationID, data, job.Kind, job.Submitter)
}

func readStored(ctx context.Context, app *bootstrap.Worker, key string) ([]byte, error) {
	reader, err := app.Storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}
	return data, nil
}

func metricsMux(app *bootstrap.Worker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
