package core

import "context"

type ChatOptions struct {
	Temperature float64
}

// AIProvider is the completion collaborator.
type AIProvider interface {
	Chat(ctx context.Context, messages []Turn, opts ChatOptions) (Turn, error)
}

type RecognitionReason int

const (
	RecognizedSpeech RecognitionReason = iota
	NoMatch
	Canceled
)

func (r RecognitionReason) String() string {
	switch r {
	case RecognizedSpeech:
		return "recognized"
	case NoMatch:
		return "no_match"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type Recognition struct {
	Reason   RecognitionReason
	Text     string
	Language string
}

// UtteranceSource yields a single recognized utterance.
type UtteranceSource interface {
	RecognizeOnce(ctx context.Context) (Recognition, error)
}

// AudioFormat describes encoded audio handed to a speech recognizer.
type AudioFormat struct {
	Encoding   string // "linear16", "ogg_opus", "webm_opus", "flac"
	SampleRate int
}

type Recognizer interface {
	Source(audio []byte, format AudioFormat) UtteranceSource
}

// Speaker is the speech synthesis collaborator. Callers log failures and move on.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}
