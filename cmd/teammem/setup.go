package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/internal/providers/embedding"
	"github.com/sandevgo/teammem/internal/providers/llm"
	"github.com/sandevgo/teammem/internal/service/classifier"
	"github.com/sandevgo/teammem/internal/service/command"
	"github.com/sandevgo/teammem/internal/service/memory"
	"github.com/sandevgo/teammem/internal/storage/chromem"
	"github.com/sandevgo/teammem/internal/storage/postgres"
	"github.com/sandevgo/teammem/internal/storage/sqlite"
	httptransport "github.com/sandevgo/teammem/internal/transport/http"
	"github.com/sandevgo/teammem/internal/transport/telegram"
	"github.com/sandevgo/teammem/pkg/log"
	"github.com/sandevgo/teammem/pkg/srv"
)

// App holds the memory pipeline shared by every command.
type App struct {
	Config  *config.AppConfig
	Metrics *metrics.Collector
	Memory  *memory.Service
	Router  *command.Router

	cleanups []srv.Service
}

func NewApp(ctx context.Context) (*App, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	appCfg, err := config.ParseAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	embCfg := config.NewEmbeddingConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	app := &App{Config: appCfg, Metrics: metrics.NewCollector()}

	// 2. Storage
	store, err := app.initStorage(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	vectorPath := appCfg.GetVectorPath()
	if appCfg.VectorInMemory {
		vectorPath = ""
	}
	index := chromem.NewIndex(vectorPath, appCfg.VectorCollection)
	if err := index.EnsureInitialized(ctx); err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	// 3. Providers
	embedder, err := embedding.New(ctx, embCfg, app.Metrics)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize embeddings: %w", err)
	}
	if c, ok := embedder.(interface{ Close() }); ok {
		app.cleanups = append(app.cleanups, srv.NewCleanupFunc(c.Close))
	}

	generator, err := llm.NewGenerator(ctx, llmCfg)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	cls, err := classifier.New(appCfg.Classifier)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	// 4. Memory pipeline
	retriever := memory.NewRetriever(embedder, index, store, memory.RetrieverConfig{
		TopK:        appCfg.TopK,
		SearchLimit: appCfg.SearchLimit,
		Timeout:     appCfg.SourceTimeout,
	}, app.Metrics)
	synth := memory.NewSynthesizer(generator, memory.NewPromptBuilder(llmCfg.PromptBlockTokens), app.Metrics)

	app.Memory = memory.NewService(memory.Deps{
		Store:       store,
		Index:       index,
		Embedder:    embedder,
		Classifier:  cls,
		Retriever:   retriever,
		Synthesizer: synth,
		Metrics:     app.Metrics,
	})
	app.Router = command.NewRouter(app.Memory)

	return app, nil
}

func (a *App) initStorage(ctx context.Context) (core.RecordStore, error) {
	var (
		db  *sql.DB
		err error
	)

	switch a.Config.RecordStore {
	case config.RecordStoreSQLite:
		if db, err = sqlite.NewDB(ctx, a.Config.GetDatabasePath()); err != nil {
			return nil, err
		}
		a.cleanups = append(a.cleanups, srv.NewCleanup(db.Close))
		return sqlite.NewRecordRepo(db, a.Config.SearchWindow), nil
	case config.RecordStorePostgres:
		if db, err = postgres.NewDB(ctx, a.Config.DatabaseURL); err != nil {
			return nil, err
		}
		a.cleanups = append(a.cleanups, srv.NewCleanup(db.Close))
		return postgres.NewRecordRepo(db, a.Config.SearchWindow), nil
	default:
		return nil, fmt.Errorf("unknown record store: %s", a.Config.RecordStore)
	}
}

// Close releases storage and caches. Safe to call on a partially built App.
func (a *App) Close(ctx context.Context) {
	if err := srv.Shutdown(ctx, a.cleanups); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("cleanup failed")
	}
	a.cleanups = nil
}

// NewServices returns the long-running transports followed by the cleanups,
// so storage is released after the transports stop.
func NewServices(ctx context.Context, app *App) ([]srv.Service, error) {
	var services []srv.Service

	if app.Config.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), app.Router, app.Memory)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if app.Config.IsHTTPSelected() {
		services = append(services, httptransport.NewServer(ctx, config.NewHTTPConfig(ctx), app.Memory, app.Metrics))
	}

	if len(services) == 0 {
		log.FromCtx(ctx).Warn().Msg("no transport enabled, set TEAMMEM_ENABLE_HTTP or TEAMMEM_ENABLE_TELEGRAM")
	}

	services = append(services, app.cleanups...)
	app.cleanups = nil
	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
