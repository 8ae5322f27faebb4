package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hirehub-backend/internal/applications"
	"hirehub-backend/internal/candidates"
	"hirehub-backend/internal/enrichworker"
	"hirehub-backend/internal/jobs"
	"hirehub-backend/internal/llm"
	openai "hirehub-backend/internal/llm/openai"
	"hirehub-backend/internal/queue"
	"hirehub-backend/internal/services/health"
	"hirehub-backend/internal/shared/config"
	"hirehub-backend/internal/shared/server"
	"hirehub-backend/internal/shared/storage/db"
	"hirehub-backend/internal/shared/storage/object"
	localstore "hirehub-backend/internal/shared/storage/object/local"
	s3store "hirehub-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Queue   queue.Client
	Channel *queue.Channel
	Pool    *enrichworker.Pool

	CandidatesRepo candidates.Repo
	JobsResolver   jobs.Resolver
	Service        *applications.Service
	Handler        *applications.Handler
}

// Build prepares all dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if app.DB != nil {
		app.CandidatesRepo = &candidates.PGRepo{DB: app.DB}
		app.JobsResolver = &jobs.PGResolver{DB: app.DB}
	} else {
		app.CandidatesRepo = candidates.NewMemoryRepo()
		app.JobsResolver = jobs.NewMemoryResolver(devPostings()...)
	}

	analyzer := llm.Analyzer{Provider: buildProvider(cfg)}

	app.Service = &applications.Service{
		Candidates: app.CandidatesRepo,
		Jobs:       app.JobsResolver,
		Store:      app.Store,
		Analyzer:   &analyzer,
	}

	if err := buildQueue(ctx, app); err != nil {
		return nil, err
	}
	app.Service.Queue = app.Queue

	app.Handler = applications.NewHandler(app.Service)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  app.Config,
		Handler: app.Handler,
		Health:  health.NewService(app.DB),
	})

	return app, nil
}

// StartWorkers launches the in-process enrichment pool, when one is configured.
func (a *App) StartWorkers(ctx context.Context) {
	if a.Pool != nil {
		a.Pool.Start(ctx)
	}
}

// StopWorkers drains the in-process pool, when one is configured.
func (a *App) StopWorkers() {
	if a.Pool != nil {
		a.Pool.Stop()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildQueue picks the queue backend. SQS (separate worker process) when a
// queue URL is configured, otherwise a bounded in-process channel drained by
// the pool.
func buildQueue(ctx context.Context, app *App) error {
	if strings.TrimSpace(os.Getenv("HH_SQS_QUEUE_URL")) != "" {
		client, err := queue.NewSQSClient(ctx)
		if err != nil {
			return err
		}
		app.Queue = client
		return nil
	}

	ch := queue.NewChannel(app.Config.QueueBuffer)
	app.Queue = ch
	app.Channel = ch
	app.Pool = &enrichworker.Pool{
		Queue:       ch,
		Processor:   app.Service,
		Concurrency: app.Config.WorkerConcurrency,
	}
	return nil
}

func buildProvider(cfg config.Config) llm.Provider {
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		log.Printf("bootstrap: OPENAI_API_KEY empty; analysis falls back to placeholder results")
		return nil
	}
	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Printf("bootstrap: openai client init failed; analysis falls back to placeholder results: %v", err)
		return nil
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// devPostings seeds the in-memory resolver so the apply flow works without
// a database.
func devPostings() []jobs.Posting {
	return []jobs.Posting{
		{
			ID:           1,
			Title:        "Backend Engineer",
			Requirements: "3+ years of backend development. Proficiency with Go or a comparable language. Experience with PostgreSQL and cloud object storage. Familiarity with message queues.",
			Status:       jobs.StatusOpen,
		},
	}
}
