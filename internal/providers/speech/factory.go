package speech

import (
	"context"
	"fmt"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// NewRecognizer returns nil for the "none" provider; transports then accept
// text only.
func NewRecognizer(ctx context.Context, cfg *config.SpeechConfig) (*Google, error) {
	switch cfg.Provider {
	case "google":
		log.FromCtx(ctx).Info().
			Str("language", cfg.Language).
			Strs("alternatives", cfg.AlternativeLanguages).
			Msg("starting speech recognizer")
		return NewGoogle(ctx, cfg)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", cfg.Provider)
	}
}
