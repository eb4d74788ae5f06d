// Package storage selects the HistoryStore backend.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/storage/memory"
	"github.com/sandevgo/ridevoice/internal/storage/postgres"
	"github.com/sandevgo/ridevoice/internal/storage/redis"
	"github.com/sandevgo/ridevoice/internal/storage/sqlite"
	"github.com/sandevgo/ridevoice/pkg/log"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

func NewStore(ctx context.Context, app *config.AppConfig, cfg *config.StoreConfig) (core.HistoryStore, error) {
	backend := strings.ToLower(strings.TrimSpace(app.Store))
	log.FromCtx(ctx).Debug().Str("backend", backend).Msg("opening history store")

	switch backend {
	case BackendMemory:
		return memory.NewStore(), nil
	case BackendSQLite, "":
		db, err := sqlite.NewDB(ctx, app.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		return sqlite.NewHistory(db), nil
	case BackendRedis:
		return redis.NewStore(ctx, cfg)
	case BackendPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", app.Store)
	}
}
