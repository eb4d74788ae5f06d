package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"RIDE_RUNTIME_PATH" envDefault:".ridevoice"`

	// Single user identity; multi-user sessions are out of scope.
	UserID   string `env:"RIDE_USER_ID" envDefault:"annu_kumar"`
	WakeWord string `env:"RIDE_WAKE_WORD" envDefault:"agent"`

	// Context Management
	HistoryLimit    int    `env:"RIDE_HISTORY_LIMIT" envDefault:"10"`
	DefaultLanguage string `env:"RIDE_DEFAULT_LANGUAGE" envDefault:"en-US"`
	CountTokens     bool   `env:"RIDE_COUNT_TOKENS" envDefault:"false"`

	// Storage backend: memory, sqlite, redis or postgres
	Store string `env:"RIDE_STORE" envDefault:"sqlite"`

	// Transport Flags
	EnableHTTP       bool   `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram   bool   `env:"ENABLE_TELEGRAM" envDefault:"false"`
	HTTPAddr         string `env:"RIDE_HTTP_ADDR" envDefault:":8080"`
	MetricsNamespace string `env:"RIDE_METRICS_NAMESPACE" envDefault:"ridevoice"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := loadAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func loadAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.HistoryLimit <= 0 {
		return nil, fmt.Errorf("RIDE_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "ridevoice.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

// GetReplyAudioPath is where the speech synthesizer writes the latest reply.
func (c AppConfig) GetReplyAudioPath() string {
	return filepath.Join(c.RuntimePath, "reply.mp3")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
