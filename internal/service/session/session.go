// Package session owns the single conversation: wake-word gate, bounded
// history and the orchestrator, serialized behind one lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/observability"
	"github.com/sandevgo/ridevoice/internal/service/agent"
	"github.com/sandevgo/ridevoice/internal/service/conversation"
	"github.com/sandevgo/ridevoice/internal/service/gate"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// CompletionErrorPrefix is prepended to a failed completion before it is spoken.
const CompletionErrorPrefix = "Completion error: "

var ErrNotStarted = errors.New("session not started")

type HistoryStore interface {
	Load(ctx context.Context, userID string) (*conversation.Buffer, error)
	Clear(ctx context.Context, userID string) error
}

type Orchestrator interface {
	HandleUtterance(ctx context.Context, userID string, buf *conversation.Buffer, text, language string) (agent.Reply, error)
}

type Config struct {
	UserID          string
	WakeWord        string
	Capacity        int
	DefaultLanguage string
}

// Status is a read-only view of the session.
type Status struct {
	UserID   string `json:"user_id"`
	State    string `json:"state"`
	WakeWord string `json:"wake_word"`
	Turns    int    `json:"turns"`
	Capacity int    `json:"capacity"`
}

type Session struct {
	mu sync.Mutex

	cfg     Config
	gate    *gate.Gate
	buf     *conversation.Buffer
	started bool

	history HistoryStore
	agent   Orchestrator
	speaker core.Speaker
	metrics *observability.Metrics
}

func New(
	cfg Config,
	history HistoryStore,
	orchestrator Orchestrator,
	speaker core.Speaker,
	metrics *observability.Metrics,
) *Session {
	if cfg.Capacity <= 0 {
		cfg.Capacity = conversation.DefaultCapacity
	}
	return &Session{
		cfg:     cfg,
		gate:    gate.New(cfg.WakeWord),
		buf:     conversation.NewBuffer(cfg.Capacity),
		history: history,
		agent:   orchestrator,
		speaker: speaker,
		metrics: metrics,
	}
}

// Start loads the persisted history. It must succeed before the first utterance.
func (s *Session) Start(ctx context.Context) error {
	buf, err := s.history.Load(ctx, s.cfg.UserID)
	if err != nil {
		s.metrics.ObservePersistenceError("load")
		return fmt.Errorf("start session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = buf
	s.started = true
	s.metrics.SetHistoryLength(buf.Len())

	log.FromCtx(ctx).Info().
		Str("user_id", s.cfg.UserID).
		Int("turns", buf.Len()).
		Str("wake_word", s.gate.WakeWord()).
		Msg("session started")
	return nil
}

func (s *Session) ConfigureWakeWord(word string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return "Wake word set to " + s.gate.SetWakeWord(word)
}

// ProcessOneUtterance recognizes one utterance from src and runs it through
// the gate and, when active, the orchestrator. Recognition and speech
// synthesis run outside the session lock.
func (s *Session) ProcessOneUtterance(ctx context.Context, src core.UtteranceSource) (core.Exchange, error) {
	ctx = log.WithCycle(ctx, uuid.NewString())
	logger := log.FromCtx(ctx)

	if !s.isStarted() {
		return core.Exchange{}, ErrNotStarted
	}

	rec, err := src.RecognizeOnce(ctx)
	if err != nil {
		return core.Exchange{}, fmt.Errorf("recognize: %w", err)
	}
	if rec.Reason != core.RecognizedSpeech {
		logger.Info().Str("reason", rec.Reason.String()).Msg("no speech detected")
		s.metrics.ObserveUtterance(observability.OutcomeNoSpeech)
		return core.Exchange{}, core.ErrNoSpeech
	}

	text := gate.Normalize(rec.Text)
	language := rec.Language
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	logger.Info().Str("text", text).Str("language", language).Msg("utterance recognized")

	exchange, speak, err := s.step(ctx, text, language)
	if err != nil {
		return core.Exchange{}, err
	}

	if speak && s.speaker != nil {
		if err := s.speaker.Speak(ctx, exchange.Assistant); err != nil {
			logger.Warn().Err(err).Msg("speech synthesis failed")
		}
	}

	return exchange, nil
}

// step is the critical section: gate, buffer mutation and save.
func (s *Session) step(ctx context.Context, text, language string) (core.Exchange, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exchange := core.Exchange{User: text}

	decision := s.gate.Observe(text)
	switch decision.Outcome {
	case gate.Prompted:
		s.metrics.ObserveUtterance(observability.OutcomePrompted)
		exchange.Assistant = decision.Reply
		return exchange, false, nil
	case gate.Activated:
		log.FromCtx(ctx).Info().Str("wake_word", s.gate.WakeWord()).Msg("wake word detected")
		s.metrics.ObserveUtterance(observability.OutcomeActivated)
		exchange.Assistant = decision.Reply
		return exchange, true, nil
	}

	reply, err := s.agent.HandleUtterance(ctx, s.cfg.UserID, s.buf, text, language)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("cycle aborted")
		s.metrics.ObserveUtterance(observability.OutcomePersistenceError)
		s.metrics.ObservePersistenceError("save")
		return core.Exchange{}, false, err
	}

	if reply.Failed() {
		s.metrics.ObserveUtterance(observability.OutcomeCompletionError)
		exchange.Assistant = CompletionErrorPrefix + reply.Text
		exchange.Failed = true
	} else {
		s.metrics.ObserveUtterance(observability.OutcomeReplied)
		exchange.Assistant = reply.Text
	}
	s.metrics.SetHistoryLength(s.buf.Len())

	return exchange, true, nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		UserID:   s.cfg.UserID,
		State:    s.gate.State().String(),
		WakeWord: s.gate.WakeWord(),
		Turns:    s.buf.Len(),
		Capacity: s.buf.Cap(),
	}
}

// History returns a copy of the buffered turns, oldest first.
func (s *Session) History() []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Messages()
}

// ClearHistory empties both the stored record and the in-memory buffer.
// The gate state is left untouched.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.history.Clear(ctx, s.cfg.UserID); err != nil {
		s.metrics.ObservePersistenceError("clear")
		return err
	}
	s.buf = conversation.NewBuffer(s.cfg.Capacity)
	s.metrics.SetHistoryLength(0)
	return nil
}

func (s *Session) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
