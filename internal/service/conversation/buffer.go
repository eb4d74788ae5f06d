// Package conversation holds the bounded turn history fed to the model.
package conversation

import (
	"fmt"
	"slices"

	"github.com/sandevgo/ridevoice/internal/core"
)

// DefaultCapacity is the number of turns kept in context.
const DefaultCapacity = 10

// Buffer is an ordered, bounded sequence of turns, oldest first. The
// capacity is enforced on every Append by evicting exactly one oldest turn.
// Buffer is not safe for concurrent use; the owning session serializes access.
type Buffer struct {
	capacity int
	turns    []core.Turn
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		turns:    make([]core.Turn, 0, capacity+1),
	}
}

// FromTurns builds a buffer from stored turns, keeping only the newest
// capacity entries.
func FromTurns(capacity int, turns []core.Turn) *Buffer {
	b := NewBuffer(capacity)
	b.Restore(turns)
	return b
}

// Append adds turn to the end and trims if the buffer went over capacity.
func (b *Buffer) Append(turn core.Turn) error {
	if turn.Role != core.RoleUser && turn.Role != core.RoleAssistant {
		return fmt.Errorf("conversation: unsupported role %q", turn.Role)
	}
	b.turns = append(b.turns, turn)
	b.TrimIfOverLength()
	return nil
}

// TrimIfOverLength removes exactly one turn from the front if the buffer
// exceeds its capacity. It reports whether a turn was evicted.
func (b *Buffer) TrimIfOverLength() bool {
	if len(b.turns) <= b.capacity {
		return false
	}
	b.turns = slices.Delete(b.turns, 0, 1)
	return true
}

// Messages returns a copy of the turns, oldest first.
func (b *Buffer) Messages() []core.Turn {
	return slices.Clone(b.turns)
}

// Snapshot is an alias of Messages used to mark a rollback point.
func (b *Buffer) Snapshot() []core.Turn {
	return b.Messages()
}

// Restore replaces the content with turns, keeping the newest capacity entries.
func (b *Buffer) Restore(turns []core.Turn) {
	if len(turns) > b.capacity {
		turns = turns[len(turns)-b.capacity:]
	}
	b.turns = append(b.turns[:0], turns...)
}

func (b *Buffer) Len() int      { return len(b.turns) }
func (b *Buffer) Cap() int      { return b.capacity }
func (b *Buffer) IsEmpty() bool { return len(b.turns) == 0 }
