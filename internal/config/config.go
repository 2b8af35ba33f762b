package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBlob     = "blob"
	StoreDriverMemory   = "memory"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

type Config struct {
	App      App
	Pipeline Pipeline
	Upstream Upstream
	Store    Store
	Postgres Postgres
	Blob     Blob
	Redis    Redis
	Asynq    Asynq
	Bot      Bot
}

type App struct {
	Name            string        `env:"APP_NAME" envDefault:"coffer-scanner"`
	Version         string        `env:"APP_VERSION" envDefault:"dev"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	HTTPAddress     string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	ProbeAddress    string        `env:"PROBE_ADDRESS" envDefault:":8081"`
	MetricsAddress  string        `env:"METRICS_ADDRESS" envDefault:":9090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	LogFieldMaxLen  int           `env:"LOG_FIELD_MAX_LEN" envDefault:"2048"`
}

type Store struct {
	Driver string `env:"STORE_DRIVER" envDefault:"postgres" validate:"oneof=postgres blob memory"`
}

type Blob struct {
	BaseURL        string        `env:"BLOB_BASE_URL" validate:"omitempty,url"`
	Token          string        `env:"BLOB_READ_WRITE_TOKEN" json:"-"`
	Timeout        time.Duration `env:"BLOB_TIMEOUT" envDefault:"30s"`
	BreakerTimeout time.Duration `env:"BLOB_BREAKER_TIMEOUT" envDefault:"1m"`
}

type Bot struct {
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err //nolint:wrapcheck
	}

	var errs []error

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("PG_DSN is required for postgres store"))
		}
	case StoreDriverBlob:
		if c.Blob.BaseURL == "" {
			errs = append(errs, errors.New("BLOB_BASE_URL is required for blob store"))
		}
	}

	if c.Asynq.Enabled && !c.Redis.Enabled() {
		errs = append(errs, errors.New("REDIS_ADDRESS is required when ASYNQ_ENABLED"))
	}

	if c.Bot.Enabled() && c.Bot.ChatID == 0 && c.Bot.AdminID == 0 {
		errs = append(errs, errors.New("BOT_CHAT_ID or BOT_ADMIN_ID is required with BOT_TOKEN"))
	}

	return errors.Join(errs...)
}
