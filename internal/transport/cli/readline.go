package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/providers/speech"
	"github.com/sandevgo/ridevoice/internal/service/ui"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type Session interface {
	ProcessOneUtterance(ctx context.Context, src core.UtteranceSource) (core.Exchange, error)
}

// ReadLine is a terminal REPL. Typed lines stand in for recognized speech.
type ReadLine struct {
	cfg      *config.AppConfig
	session  Session
	commands core.CmdRouter
	rl       *readline.Instance
}

func NewReadLine(cfg *config.AppConfig, s Session, commands core.CmdRouter) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "🎙  ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:      cfg,
		session:  s,
		commands: commands,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("ReadLine chat started. Type 'exit' to quit, '/help' for commands.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.handleLine(ctx, line, r.rl.Stdout())
	}
}

func (r *ReadLine) handleLine(ctx context.Context, line string, out io.Writer) {
	if reply, ok := r.commands.Execute(ctx, line); ok {
		fmt.Fprintln(out, reply)
		return
	}

	ex, err := r.session.ProcessOneUtterance(ctx, speech.Text{Text: line, Language: r.cfg.DefaultLanguage})
	switch {
	case errors.Is(err, core.ErrNoSpeech):
		fmt.Fprintln(out, "No speech detected")
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Msg("utterance failed")
		fmt.Fprintf(out, "Error: %v\n", err)
	case ex.Failed:
		fmt.Fprintln(out, ui.ErrorStyle.Render(ex.Assistant))
	default:
		fmt.Fprintln(out, ui.AckStyle.Render(ex.Assistant))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
