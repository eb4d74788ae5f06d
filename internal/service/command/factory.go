package command

import (
	"context"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/service/session"
)

type Session interface {
	ConfigureWakeWord(word string) string
	Status() session.Status
	History() []core.Turn
	ClearHistory(ctx context.Context) error
}

func NewCommands(s Session) []core.Command {
	return []core.Command{
		NewWakeCommand(s),
		NewStatusCommand(s),
		NewHistoryCommand(s),
	}
}

// NewRouter registers the session commands plus /help.
func NewRouter(s Session) *Router {
	r := New(NewCommands(s))
	help := NewHelpCommand(r)
	r.commands[help.Name()] = help
	return r
}
