package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// History stores one JSON-encoded record per user id.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

func (h *History) Get(ctx context.Context, id string) (core.StoredRecord, error) {
	query := `SELECT id, user_id, history FROM chat_history WHERE id = ?`

	var (
		record  core.StoredRecord
		payload string
	)
	err := h.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &record.UserID, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.StoredRecord{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.StoredRecord{}, fmt.Errorf("failed to query history: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &record.History); err != nil {
		return core.StoredRecord{}, fmt.Errorf("%w: %s: %w", core.ErrInvalidRecord, id, err)
	}

	log.FromCtx(ctx).Debug().Int("count", len(record.History)).Msg("loaded history record")
	return record, nil
}

func (h *History) Upsert(ctx context.Context, record core.StoredRecord) error {
	turns := record.History
	if turns == nil {
		turns = []core.Turn{}
	}
	payload, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	query := `INSERT INTO chat_history (id, user_id, history, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, history = excluded.history, updated_at = CURRENT_TIMESTAMP`
	if _, err := h.db.ExecContext(ctx, query, record.ID, record.UserID, string(payload)); err != nil {
		return fmt.Errorf("failed to upsert history: %w", err)
	}
	return nil
}

func (h *History) Close() error {
	return h.db.Close()
}
