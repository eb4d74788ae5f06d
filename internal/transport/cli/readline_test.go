package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	ex   core.Exchange
	err  error
	seen []core.Recognition
}

func (f *fakeSession) ProcessOneUtterance(ctx context.Context, src core.UtteranceSource) (core.Exchange, error) {
	rec, _ := src.RecognizeOnce(ctx)
	f.seen = append(f.seen, rec)
	return f.ex, f.err
}

type fakeRouter struct{}

func (fakeRouter) Execute(_ context.Context, input string) (string, bool) {
	if input == "/status" {
		return "state: active", true
	}
	return "", false
}

func (fakeRouter) ListCommands() []core.Command { return nil }

func newTestReadLine(s *fakeSession) *ReadLine {
	return &ReadLine{
		cfg:      &config.AppConfig{DefaultLanguage: "en-US"},
		session:  s,
		commands: fakeRouter{},
	}
}

func TestHandleLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ex   core.Exchange
		err  error
		want string
	}{
		{"command", "/status", core.Exchange{}, nil, "state: active\n"},
		{"reply", "agent", core.Exchange{Assistant: "Yes, I am listening."}, nil, "Yes, I am listening."},
		{"no speech", "...", core.Exchange{}, core.ErrNoSpeech, "No speech detected\n"},
		{"persistence", "book it", core.Exchange{}, fmt.Errorf("%w: disk full", core.ErrPersistence), "Error: persistence failure: disk full\n"},
		{"failed completion", "book it", core.Exchange{Assistant: "Completion error: rate limited", Failed: true}, nil, "Completion error: rate limited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSession{ex: tt.ex, err: tt.err}
			var out bytes.Buffer

			newTestReadLine(s).handleLine(context.Background(), tt.line, &out)

			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestHandleLine_PassesDefaultLanguage(t *testing.T) {
	s := &fakeSession{err: errors.New("x")}
	newTestReadLine(s).handleLine(context.Background(), "hello", &bytes.Buffer{})

	assert.Len(t, s.seen, 1)
	assert.Equal(t, "hello", s.seen[0].Text)
	assert.Equal(t, "en-US", s.seen[0].Language)
}
