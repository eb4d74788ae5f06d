package tts

import (
	"context"
	"fmt"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// Noop only logs what would have been spoken.
type Noop struct{}

func (Noop) Speak(ctx context.Context, text string) error {
	log.FromCtx(ctx).Debug().Str("text", text).Msg("speak")
	return nil
}

func NewSpeaker(ctx context.Context, cfg *config.SpeechConfig, outPath string) (core.Speaker, error) {
	switch cfg.TTSProvider {
	case "elevenlabs":
		if cfg.ElevenLabsAPIKey == "" {
			return nil, fmt.Errorf("elevenlabs speaker requires ELEVENLABS_API_KEY")
		}
		log.FromCtx(ctx).Info().Str("voice", cfg.ElevenLabsVoice).Msg("starting speech synthesizer")
		return NewElevenLabs(cfg, outPath), nil
	case "none", "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown tts provider: %s", cfg.TTSProvider)
	}
}
