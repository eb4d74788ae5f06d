// Package postgres stores history records as JSONB rows.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/ridevoice/internal/core"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store")
	}

	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			history JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (core.StoredRecord, error) {
	var (
		record  core.StoredRecord
		payload []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, history FROM chat_history WHERE id=$1`, id,
	).Scan(&record.ID, &record.UserID, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.StoredRecord{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.StoredRecord{}, fmt.Errorf("get history: %w", err)
	}

	if err := json.Unmarshal(payload, &record.History); err != nil {
		return core.StoredRecord{}, fmt.Errorf("%w: %s: %w", core.ErrInvalidRecord, id, err)
	}
	return record, nil
}

func (s *Store) Upsert(ctx context.Context, record core.StoredRecord) error {
	turns := record.History
	if turns == nil {
		turns = []core.Turn{}
	}
	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO chat_history (id, user_id, history, updated_at)
		 VALUES ($1, $2, $3::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, history=EXCLUDED.history, updated_at=now()`,
		record.ID,
		record.UserID,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
