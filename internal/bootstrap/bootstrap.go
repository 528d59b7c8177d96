package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/TomasMBBrito/Projeto-DAE/internal/adapters/http"
	"github.com/TomasMBBrito/Projeto-DAE/internal/config"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/ports"
	"github.com/TomasMBBrito/Projeto-DAE/internal/core/usecase"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/extractor/pdftext"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/extractor/ziparchive"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/llm/ollama"
	natsqueue "github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/queue/nats"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/repository/postgres"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/resilience"
	"github.com/TomasMBBrito/Projeto-DAE/internal/infrastructure/storage/localfs"
	"github.com/TomasMBBrito/Projeto-DAE/internal/observability/metrics"
)

// API holds everything the api binary needs after wiring.
type API struct {
	Handler http.Handler
	Metrics *metrics.HTTPServerMetrics

	close func()
}

func (a *API) Close() {
	if a.close != nil {
		a.close()
	}
}

// Worker holds everything the worker binary needs after wiring.
type Worker struct {
	Queue     *natsqueue.Queue
	Storage   ports.ObjectStorage
	Processor ports.SummaryProcessor
	Metrics   *metrics.WorkerMetrics

	close func()
}

func (w *Worker) Close() {
	if w.close != nil {
		w.close()
	}
}

type core struct {
	pubs    *postgres.PublicationRepository
	users   *postgres.UserRepository
	tags    *postgres.TagRepository
	audit   *postgres.AuditRepository
	storage *localfs.Storage
	close   func()
}

func buildCore(ctx context.Context, cfg config.Config) (*core, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pubs := postgres.NewPublicationRepository(db)
	if err := pubs.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	store, err := localfs.New(cfg.StoragePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return &core{
		pubs:    pubs,
		users:   postgres.NewUserRepository(db),
		tags:    postgres.NewTagRepository(db),
		audit:   postgres.NewAuditRepository(db),
		storage: store,
		close:   func() { db.Close() },
	}, nil
}

func NewAPI(ctx context.Context, cfg config.Config) (*API, error) {
	c, err := buildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		c.close()
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	ingestUC := usecase.NewIngestPublicationUseCase(c.pubs, c.users, c.tags, c.storage, queue, c.audit)
	readUC := usecase.NewReadPublicationUseCase(c.pubs, c.users, c.audit)
	editUC := usecase.NewEditPublicationUseCase(c.pubs, c.users, c.audit)

	m := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(ingestUC, readUC, editUC, m, cfg.MaxUploadBytes)

	return &API{
		Handler: router.Handler(),
		Metrics: m,
		close: func() {
			queue.Close()
			c.close()
		},
	}, nil
}

func NewWorker(ctx context.Context, cfg config.Config) (*Worker, error) {
	c, err := buildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queue, err := natsqueue.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	summarizer := ollama.New(ollama.Config{
		BaseURL:         cfg.OllamaURL,
		Model:           cfg.OllamaModel,
		MaxInputChars:   cfg.SummaryMaxInputChars,
		Temperature:     cfg.SummaryTemperature,
		MaxOutputTokens: cfg.SummaryMaxOutputTokens,
		ConnectTimeout:  time.Duration(cfg.SummaryConnectTimeoutSeconds) * time.Second,
		ReadTimeout:     time.Duration(cfg.SummaryReadTimeoutSeconds) * time.Second,
	})

	pdfExtractor := pdftext.New()
	extractors := map[domain.ContainerKind]ports.TextExtractor{
		domain.KindPDF: pdfExtractor,
		domain.KindZIP: ziparchive.New(pdfExtractor),
	}

	processor := usecase.NewSummaryTaskUseCase(c.pubs, c.users, extractors, summarizer, c.audit)

	return &Worker{
		Queue:     queue,
		Storage:   c.storage,
		Processor: processor,
		Metrics:   metrics.NewWorkerMetrics("worker"),
		close: func() {
			queue.Close()
			c.close()
		},
	}, nil
}
