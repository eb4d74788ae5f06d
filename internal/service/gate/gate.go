// Package gate decides whether an utterance activates the agent or is dialogue.
package gate

import (
	"fmt"
	"strings"
)

type State int

const (
	Dormant State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "dormant"
}

const ListeningReply = "Yes, I am listening."

// Outcome is the result of observing one utterance.
type Outcome int

const (
	// Prompted: dormant and no wake word, Reply asks for it.
	Prompted Outcome = iota
	// Activated: the wake word was heard, Reply is the acknowledgement.
	Activated
	// Forwarded: the gate is active, the utterance goes to the orchestrator.
	Forwarded
)

type Decision struct {
	Outcome Outcome
	Reply   string
}

// Gate is a one-way latch. Once Active it never returns to Dormant.
// Gate is not safe for concurrent use.
type Gate struct {
	state    State
	wakeWord string
}

func New(wakeWord string) *Gate {
	return &Gate{wakeWord: NormalizeWakeWord(wakeWord)}
}

func (g *Gate) State() State     { return g.state }
func (g *Gate) IsActive() bool   { return g.state == Active }
func (g *Gate) WakeWord() string { return g.wakeWord }

// SetWakeWord replaces the wake word unconditionally and returns the stored
// form. An empty wake word matches every utterance.
func (g *Gate) SetWakeWord(word string) string {
	g.wakeWord = NormalizeWakeWord(word)
	return g.wakeWord
}

// Observe feeds one normalized utterance through the gate.
func (g *Gate) Observe(text string) Decision {
	if g.state == Active {
		return Decision{Outcome: Forwarded}
	}

	if ContainsWakeWord(text, g.wakeWord) {
		g.state = Active
		return Decision{Outcome: Activated, Reply: ListeningReply}
	}

	return Decision{Outcome: Prompted, Reply: PromptReply(g.wakeWord)}
}

func PromptReply(wakeWord string) string {
	return fmt.Sprintf("Please say '%s' first.", wakeWord)
}

// Normalize trims surrounding whitespace and trailing periods and lower-cases text.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, ".")
	return strings.ToLower(strings.TrimSpace(text))
}

func NormalizeWakeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// ContainsWakeWord is a case-insensitive substring match over normalized text.
func ContainsWakeWord(text, wakeWord string) bool {
	return strings.Contains(Normalize(text), NormalizeWakeWord(wakeWord))
}
