package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type StoreConfig struct {
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseURL string `env:"DATABASE_URL"`
}

func NewStoreConfig(ctx context.Context) *StoreConfig {
	c := &StoreConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Store config")
	}
	return c
}
