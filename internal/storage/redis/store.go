// Package redis keeps each history record as one JSON value under a prefixed key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
)

const keyPrefix = "ridevoice:history:"

type Store struct {
	rdb *redis.Client
}

// NewStore connects and pings the server.
func NewStore(ctx context.Context, cfg *config.StoreConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{rdb: rdb}, nil
}

func Key(id string) string {
	return keyPrefix + id
}

func (s *Store) Get(ctx context.Context, id string) (core.StoredRecord, error) {
	data, err := s.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.StoredRecord{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.StoredRecord{}, fmt.Errorf("redis get %s: %w", id, err)
	}

	var record core.StoredRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return core.StoredRecord{}, fmt.Errorf("%w: %s: %w", core.ErrInvalidRecord, id, err)
	}
	return record, nil
}

func (s *Store) Upsert(ctx context.Context, record core.StoredRecord) error {
	if record.History == nil {
		record.History = []core.Turn{}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.rdb.Set(ctx, Key(record.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", record.ID, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
