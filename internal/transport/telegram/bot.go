package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/providers/speech"
	"github.com/sandevgo/ridevoice/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey = "base_context"

	// Telegram voice notes are Opus in an OGG container at 48 kHz.
	voiceSampleRate = 48000
	maxVoiceBytes   = 10 << 20
)

type Session interface {
	ProcessOneUtterance(ctx context.Context, src core.UtteranceSource) (core.Exchange, error)
}

type Bot struct {
	bot        *tele.Bot
	sender     *sender
	session    Session
	commands   core.CmdRouter
	recognizer core.Recognizer
	language   string
	ownerID    int64
}

// NewBot wires the owner-only bot. recognizer may be nil, in which case
// voice notes are declined.
func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	language string,
	s Session,
	commands core.CmdRouter,
	recognizer core.Recognizer,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:        b,
		sender:     newSender(b),
		session:    s,
		commands:   commands,
		recognizer: recognizer,
		language:   language,
		ownerID:    cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnVoice, bot.handleVoice)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	if reply, ok := b.commands.Execute(ctx, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
	}

	_ = c.Notify(tele.Typing)
	return b.sender.sendMarkdown(ctx, c.Chat(), b.respond(ctx, speech.Text{Text: c.Text(), Language: b.language}), false)
}

func (b *Bot) handleVoice(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	if b.recognizer == nil {
		return c.Send("Voice notes are not supported, speech recognition is disabled.")
	}

	voice := c.Message().Voice
	if voice == nil {
		return nil
	}
	_ = c.Notify(tele.RecordingAudio)

	rc, err := b.bot.File(&voice.File)
	if err != nil {
		logger.Error().Err(err).Msg("failed to download voice note")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	defer rc.Close()

	audio, err := io.ReadAll(io.LimitReader(rc, maxVoiceBytes))
	if err != nil {
		logger.Error().Err(err).Msg("failed to read voice note")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	src := b.recognizer.Source(audio, core.AudioFormat{Encoding: "ogg_opus", SampleRate: voiceSampleRate})
	return b.sender.sendMarkdown(ctx, c.Chat(), b.respond(ctx, src), false)
}

// respond runs one utterance and renders the outcome as chat text.
func (b *Bot) respond(ctx context.Context, src core.UtteranceSource) string {
	ex, err := b.session.ProcessOneUtterance(ctx, src)
	switch {
	case errors.Is(err, core.ErrNoSpeech):
		return "No speech detected"
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Msg("utterance failed")
		return fmt.Sprintf("error: %v", err)
	case ex.Failed:
		return "⚠️ " + ex.Assistant
	default:
		return ex.Assistant
	}
}
