package core

import (
	"context"
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNoSpeech       = errors.New("no speech detected")
	ErrPersistence    = errors.New("persistence failure")
)

// ErrInvalidRecord marks stored data that cannot be decoded; it is never retried.
var ErrInvalidRecord = errors.New("invalid stored record")

// StoredRecord is the persisted conversation for one user.
type StoredRecord struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	History []Turn `json:"history"`
}

// HistoryStore is the keyed store collaborator. Get returns ErrRecordNotFound
// when no record exists for id.
type HistoryStore interface {
	Get(ctx context.Context, id string) (StoredRecord, error)
	Upsert(ctx context.Context, record StoredRecord) error
	Close() error
}
