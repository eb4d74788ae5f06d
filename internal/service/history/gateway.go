// Package history loads and saves the conversation buffer against a keyed store.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/service/conversation"
	"github.com/sandevgo/ridevoice/pkg/log"
	"github.com/sandevgo/ridevoice/pkg/retry"
)

type Gateway struct {
	store    core.HistoryStore
	retrier  *retry.Retrier
	capacity int
}

func NewGateway(store core.HistoryStore, retrier *retry.Retrier, capacity int) *Gateway {
	if retrier == nil {
		retrier = retry.NewRetrier(retry.NewStorageConfig())
	}
	return &Gateway{
		store:    store,
		retrier:  retrier,
		capacity: capacity,
	}
}

// Load returns the stored history for userID. A missing record is a first
// run and yields an empty buffer; any other failure is returned wrapped in
// core.ErrPersistence once the retry budget is spent.
func (g *Gateway) Load(ctx context.Context, userID string) (*conversation.Buffer, error) {
	logger := log.FromCtx(ctx)

	var record core.StoredRecord
	found := true
	err := g.retrier.Do(ctx, func() error {
		r, err := g.store.Get(ctx, userID)
		switch {
		case errors.Is(err, core.ErrRecordNotFound):
			found = false
			return nil
		case errors.Is(err, core.ErrInvalidRecord):
			return retry.Permanent(err)
		case err != nil:
			logger.Warn().Err(err).Str("user_id", userID).Msg("history load attempt failed")
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load history for %s: %w", core.ErrPersistence, userID, err)
	}

	if !found {
		logger.Info().Str("user_id", userID).Msg("no stored history, starting fresh")
		return conversation.NewBuffer(g.capacity), nil
	}

	turns := make([]core.Turn, 0, len(record.History))
	for _, t := range record.History {
		if t.Role != core.RoleUser && t.Role != core.RoleAssistant {
			logger.Warn().Str("role", string(t.Role)).Msg("skipping stored turn with unsupported role")
			continue
		}
		turns = append(turns, t)
	}

	buf := conversation.FromTurns(g.capacity, turns)
	logger.Debug().Int("count", buf.Len()).Msg("loaded history turns")
	return buf, nil
}

// Save upserts the full buffer under userID.
func (g *Gateway) Save(ctx context.Context, userID string, buf *conversation.Buffer) error {
	return g.save(ctx, userID, buf.Messages())
}

// Clear replaces the stored history with an empty one.
func (g *Gateway) Clear(ctx context.Context, userID string) error {
	return g.save(ctx, userID, []core.Turn{})
}

func (g *Gateway) save(ctx context.Context, userID string, turns []core.Turn) error {
	record := core.StoredRecord{
		ID:      userID,
		UserID:  userID,
		History: turns,
	}

	err := g.retrier.Do(ctx, func() error {
		if err := g.store.Upsert(ctx, record); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("history save attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save history for %s: %w", core.ErrPersistence, userID, err)
	}
	return nil
}
