package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/service/conversation"
	"github.com/sandevgo/ridevoice/internal/service/ride"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	reply    string
	err      error
	calls    int
	messages []core.Turn
	opts     core.ChatOptions
}

func (f *fakeAI) Chat(_ context.Context, messages []core.Turn, opts core.ChatOptions) (core.Turn, error) {
	f.calls++
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return core.Turn{}, f.err
	}
	return core.AssistantTurn(f.reply), nil
}

type fixedFacts struct {
	facts ride.Facts
	calls int
}

func (f *fixedFacts) Generate() ride.Facts {
	f.calls++
	return f.facts
}

type spySaver struct {
	err   error
	saves [][]core.Turn
}

func (s *spySaver) Save(_ context.Context, _ string, buf *conversation.Buffer) error {
	s.saves = append(s.saves, buf.Messages())
	return s.err
}

var quote = ride.Facts{DistanceKm: 12, FareRupees: 230, OTP: 4821}

func fullBuffer(n int) *conversation.Buffer {
	buf := conversation.NewBuffer(conversation.DefaultCapacity)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			_ = buf.Append(core.UserTurn(fmt.Sprintf("u%d", i)))
		} else {
			_ = buf.Append(core.AssistantTurn(fmt.Sprintf("a%d", i)))
		}
	}
	return buf
}

func newTestAgent(ai *fakeAI, saver *spySaver) (*Agent, *fixedFacts) {
	facts := &fixedFacts{facts: quote}
	return NewAgent(ai, facts, NewSysPrompt(), saver, nil, nil), facts
}

func TestHandleUtterance_Success(t *testing.T) {
	ai := &fakeAI{reply: "The ride to the airport is 12 km and costs 230 rupees."}
	saver := &spySaver{}
	a, facts := newTestAgent(ai, saver)
	buf := conversation.NewBuffer(10)

	reply, err := a.HandleUtterance(context.Background(), "annu_kumar", buf, "book a cab to the airport", "en-US")

	require.NoError(t, err)
	assert.Equal(t, ReplyOK, reply.Kind)
	assert.Equal(t, ai.reply, reply.Text)
	assert.Equal(t, quote, reply.Facts)
	assert.Equal(t, 1, facts.calls, "facts are generated exactly once per cycle")

	require.Len(t, ai.messages, 2)
	assert.Equal(t, core.RoleSystem, ai.messages[0].Role)
	assert.Equal(t, core.UserTurn("book a cab to the airport"), ai.messages[1])
	assert.Equal(t, Temperature, ai.opts.Temperature)

	assert.Equal(t, []core.Turn{
		core.UserTurn("book a cab to the airport"),
		core.AssistantTurn(ai.reply),
	}, buf.Messages())
	require.Len(t, saver.saves, 1)
	assert.Equal(t, buf.Messages(), saver.saves[0])
}

func TestHandleUtterance_FullBufferStaysAtCapacity(t *testing.T) {
	ai := &fakeAI{reply: "ok"}
	saver := &spySaver{}
	a, _ := newTestAgent(ai, saver)
	buf := fullBuffer(10)
	before := buf.Messages()

	_, err := a.HandleUtterance(context.Background(), "u", buf, "change destination", "en-US")
	require.NoError(t, err)

	after := buf.Messages()
	assert.Len(t, after, 10)
	assert.Equal(t, before[2:], after[:8])
	require.Len(t, saver.saves, 1, "save is called exactly once")
	assert.Equal(t, after, saver.saves[0])

	// The prompt saw the buffer after the user append and its eviction.
	assert.Len(t, ai.messages, 11)
	assert.Equal(t, before[1], ai.messages[1])
}

func TestHandleUtterance_CompletionFailureRollsBack(t *testing.T) {
	ai := &fakeAI{err: errors.New("rate limited")}
	saver := &spySaver{}
	a, _ := newTestAgent(ai, saver)
	buf := fullBuffer(10)
	before := buf.Messages()

	reply, err := a.HandleUtterance(context.Background(), "u", buf, "book it", "en-US")

	require.NoError(t, err)
	assert.True(t, reply.Failed())
	assert.Contains(t, reply.Text, "rate limited")
	assert.Equal(t, before, buf.Messages(), "buffer is unchanged after a completion failure")
	assert.Empty(t, saver.saves, "nothing is persisted")
}

func TestHandleUtterance_PersistenceFailureRollsBack(t *testing.T) {
	ai := &fakeAI{reply: "ok"}
	saver := &spySaver{err: fmt.Errorf("%w: disk full", core.ErrPersistence)}
	a, _ := newTestAgent(ai, saver)
	buf := fullBuffer(4)
	before := buf.Messages()

	_, err := a.HandleUtterance(context.Background(), "u", buf, "hello", "en-US")

	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.Equal(t, before, buf.Messages())
}

func TestHandleUtterance_FreshFactsEveryCycle(t *testing.T) {
	ai := &fakeAI{reply: "ok"}
	a := NewAgent(ai, ride.NewDefaultGenerator(), NewSysPrompt(), &spySaver{}, nil, nil)
	buf := conversation.NewBuffer(10)

	var prompts []string
	for i := 0; i < 3; i++ {
		_, err := a.HandleUtterance(context.Background(), "u", buf, "quote please", "en-US")
		require.NoError(t, err)
		prompts = append(prompts, ai.messages[0].Content)
	}
	for _, p := range prompts {
		assert.Contains(t, p, "CURRENT RIDE DATA")
	}
}
