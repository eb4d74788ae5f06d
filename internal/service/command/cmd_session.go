package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type WakeCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewWakeCommand(s Session) *WakeCommand {
	return &WakeCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *WakeCommand) Name() string        { return "wake" }
func (c *WakeCommand) Description() string { return "Show or change the wake word" }

func (c *WakeCommand) Execute(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Wake Word"),
			c.formatter.Label("Current", c.session.Status().WakeWord),
			c.formatter.Usage("/wake <word>"),
			c.formatter.Examples([]string{"/wake agent", "/wake hey cab"}),
		), nil
	}
	return c.formatter.Success(c.session.ConfigureWakeWord(strings.Join(args, " "))), nil
}

type StatusCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewStatusCommand(s Session) *StatusCommand {
	return &StatusCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show session state" }

func (c *StatusCommand) Execute(_ context.Context, _ []string) (string, error) {
	st := c.session.Status()
	return c.formatter.Combine(
		c.formatter.Info("Session"),
		c.formatter.Label("User", st.UserID),
		c.formatter.Label("State", st.State),
		c.formatter.Label("Wake word", st.WakeWord),
		c.formatter.Label("History", fmt.Sprintf("%d/%d", st.Turns, st.Capacity)),
	), nil
}

type HistoryCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewHistoryCommand(s Session) *HistoryCommand {
	return &HistoryCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show or clear the conversation history" }

func (c *HistoryCommand) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		if args[0] != "clear" {
			return c.formatter.Usage("/history [clear]"), nil
		}
		if err := c.session.ClearHistory(ctx); err != nil {
			return c.formatter.Error("clear history", err), nil
		}
		return c.formatter.Success("History cleared"), nil
	}

	turns := c.session.History()
	if len(turns) == 0 {
		return c.formatter.Info("History is empty"), nil
	}

	items := make([]string, 0, len(turns))
	for i, t := range turns {
		items = append(items, strconv.Itoa(i+1)+". "+string(t.Role)+": "+t.Content)
	}
	return c.formatter.Combine(
		c.formatter.Info("History"),
		c.formatter.List(items),
	), nil
}

type HelpCommand struct {
	router    *Router
	formatter *ResponseFormatter
}

func NewHelpCommand(r *Router) *HelpCommand {
	return &HelpCommand{router: r, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List commands" }

func (c *HelpCommand) Execute(_ context.Context, _ []string) (string, error) {
	var items []string
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("/%s  %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("anything else is treated as a spoken utterance"),
	), nil
}
