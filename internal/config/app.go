package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	RecordStoreSQLite   = "sqlite"
	RecordStorePostgres = "postgres"
)

type AppConfig struct {
	RuntimePath string `env:"TEAMMEM_RUNTIME_PATH" envDefault:".teammem"`

	// Storage
	RecordStore      string `env:"TEAMMEM_RECORD_STORE" envDefault:"sqlite"`
	DatabaseURL      string `env:"TEAMMEM_DATABASE_URL"`
	VectorCollection string `env:"TEAMMEM_VECTOR_COLLECTION" envDefault:"team-memory"`
	VectorInMemory   bool   `env:"TEAMMEM_VECTOR_IN_MEMORY" envDefault:"false"`

	// Retrieval
	TopK          int           `env:"TEAMMEM_TOP_K" envDefault:"5"`
	SearchLimit   int           `env:"TEAMMEM_SEARCH_LIMIT" envDefault:"10"`
	SearchWindow  int           `env:"TEAMMEM_SEARCH_WINDOW" envDefault:"100"`
	SourceTimeout time.Duration `env:"TEAMMEM_SOURCE_TIMEOUT" envDefault:"10s"`
	Classifier    string        `env:"TEAMMEM_CLASSIFIER" envDefault:"priority"`

	// Transport Flags
	EnableTelegram bool `env:"TEAMMEM_ENABLE_TELEGRAM" envDefault:"false"`
	EnableHTTP     bool `env:"TEAMMEM_ENABLE_HTTP" envDefault:"true"`

	LogFormat string `env:"TEAMMEM_LOG_FORMAT" envDefault:"console"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "teammem.db")
}

func (c AppConfig) GetVectorPath() string {
	return filepath.Join(c.RuntimePath, "vectors")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsHTTPSelected() bool {
	return c.EnableHTTP
}
