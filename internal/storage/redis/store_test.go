package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}

	s, err := NewStore(context.Background(), &config.StoreConfig{RedisAddr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ridevoice:history:annu_kumar", Key("annu_kumar"))
}

func TestIntegration_UpsertAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := "integration-" + time.Now().Format("20060102150405.000")
	t.Cleanup(func() { s.rdb.Del(context.Background(), Key(id)) })

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	record := core.StoredRecord{
		ID:      id,
		UserID:  id,
		History: []core.Turn{core.UserTurn("hi"), core.AssistantTurn("hello")},
	}
	require.NoError(t, s.Upsert(ctx, record))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestIntegration_CorruptValue(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := "corrupt-" + time.Now().Format("20060102150405.000")
	t.Cleanup(func() { s.rdb.Del(context.Background(), Key(id)) })

	require.NoError(t, s.rdb.Set(ctx, Key(id), "not json", 0).Err())

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, core.ErrInvalidRecord)
}
