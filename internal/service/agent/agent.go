// Package agent runs one orchestration cycle: ride facts, prompt, completion,
// history update and persistence.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/observability"
	"github.com/sandevgo/ridevoice/internal/service/conversation"
	"github.com/sandevgo/ridevoice/internal/service/ride"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// Temperature is kept low so quotes and the confirmation script stay stable.
const Temperature = 0.3

type FactSource interface {
	Generate() ride.Facts
}

type HistorySaver interface {
	Save(ctx context.Context, userID string, buf *conversation.Buffer) error
}

type ReplyKind int

const (
	ReplyOK ReplyKind = iota
	ReplyCompletionFailed
)

// Reply is the tagged result of a cycle. For ReplyCompletionFailed, Text is
// the error detail rather than a model answer.
type Reply struct {
	Kind  ReplyKind
	Text  string
	Facts ride.Facts
}

func (r Reply) Failed() bool { return r.Kind == ReplyCompletionFailed }

type Agent struct {
	ai      core.AIProvider
	facts   FactSource
	prompt  *SysPrompt
	history HistorySaver
	tokens  *TokenCounter
	metrics *observability.Metrics
}

func NewAgent(
	ai core.AIProvider,
	facts FactSource,
	prompt *SysPrompt,
	history HistorySaver,
	tokens *TokenCounter,
	metrics *observability.Metrics,
) *Agent {
	return &Agent{
		ai:      ai,
		facts:   facts,
		prompt:  prompt,
		history: history,
		tokens:  tokens,
		metrics: metrics,
	}
}

// HandleUtterance runs one cycle against buf. The caller must hold the
// session lock. A completion failure rolls back the user turn and is returned
// as a failed Reply with a nil error; a persistence failure rolls buf back to
// its state before the cycle and is returned as an error.
func (a *Agent) HandleUtterance(ctx context.Context, userID string, buf *conversation.Buffer, text, language string) (Reply, error) {
	logger := log.FromCtx(ctx)

	facts := a.facts.Generate()
	snapshot := buf.Snapshot()

	if err := buf.Append(core.UserTurn(text)); err != nil {
		return Reply{}, err
	}

	messages := append([]core.Turn{a.prompt.Build(language, facts)}, buf.Messages()...)
	if n := a.tokens.Count(messages); n > 0 {
		a.metrics.ObservePromptTokens(n)
		logger.Debug().Int("prompt_tokens", n).Msg("built prompt")
	}

	start := time.Now()
	resp, err := a.ai.Chat(ctx, messages, core.ChatOptions{Temperature: Temperature})
	a.metrics.ObserveCompletionLatency(time.Since(start))
	if err != nil {
		buf.Restore(snapshot)
		logger.Error().Err(err).Msg("completion failed, user turn rolled back")
		return Reply{Kind: ReplyCompletionFailed, Text: err.Error(), Facts: facts}, nil
	}

	if err := buf.Append(core.AssistantTurn(resp.Content)); err != nil {
		buf.Restore(snapshot)
		return Reply{}, err
	}
	buf.TrimIfOverLength()

	if err := a.history.Save(ctx, userID, buf); err != nil {
		buf.Restore(snapshot)
		return Reply{}, fmt.Errorf("save cycle: %w", err)
	}

	logger.Debug().
		Int("distance_km", facts.DistanceKm).
		Int("fare", facts.FareRupees).
		Int("history", buf.Len()).
		Msg("cycle complete")

	return Reply{Kind: ReplyOK, Text: resp.Content, Facts: facts}, nil
}
