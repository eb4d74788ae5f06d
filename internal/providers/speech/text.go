// Package speech turns audio or typed text into recognized utterances.
package speech

import (
	"context"
	"strings"

	"github.com/sandevgo/ridevoice/internal/core"
)

// Text is an utterance that was already transcribed, or typed.
type Text struct {
	Text     string
	Language string
}

func (t Text) RecognizeOnce(context.Context) (core.Recognition, error) {
	if strings.TrimSpace(t.Text) == "" {
		return core.Recognition{Reason: core.NoMatch}, nil
	}
	return core.Recognition{
		Reason:   core.RecognizedSpeech,
		Text:     t.Text,
		Language: t.Language,
	}, nil
}
