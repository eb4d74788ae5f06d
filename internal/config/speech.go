package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type SpeechConfig struct {
	// Recognition: google or none
	Provider             string   `env:"SPEECH_PROVIDER" envDefault:"google"`
	Language             string   `env:"SPEECH_LANGUAGE" envDefault:"en-US"`
	AlternativeLanguages []string `env:"SPEECH_ALTERNATIVE_LANGUAGES" envSeparator:"," envDefault:"hi-IN,te-IN,ta-IN"`
	SampleRate           int      `env:"SPEECH_SAMPLE_RATE" envDefault:"16000"`

	// Synthesis: elevenlabs or none
	TTSProvider      string `env:"TTS_PROVIDER" envDefault:"none"`
	ElevenLabsAPIKey string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsURL    string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	ElevenLabsVoice  string `env:"ELEVENLABS_VOICE_ID" envDefault:"cgSgspJ2msm6clMCkdW9"`
	ElevenLabsModel  string `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`
}

func NewSpeechConfig(ctx context.Context) *SpeechConfig {
	c := &SpeechConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Speech config")
	}
	return c
}
