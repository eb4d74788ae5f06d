package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/pkg/log"
)

type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// Google runs synchronous recognition with a primary language and a set of
// alternatives. The detected language is reported back with the transcript.
type Google struct {
	client       recognizeClient
	language     string
	alternatives []string
	sampleRate   int
}

// NewGoogle relies on Application Default Credentials.
func NewGoogle(ctx context.Context, cfg *config.SpeechConfig) (*Google, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return newGoogle(client, cfg), nil
}

func newGoogle(client recognizeClient, cfg *config.SpeechConfig) *Google {
	return &Google{
		client:       client,
		language:     cfg.Language,
		alternatives: cfg.AlternativeLanguages,
		sampleRate:   cfg.SampleRate,
	}
}

func (g *Google) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Google) Source(audio []byte, format core.AudioFormat) core.UtteranceSource {
	return &googleSource{g: g, audio: audio, format: format}
}

type googleSource struct {
	g      *Google
	audio  []byte
	format core.AudioFormat
}

func (s *googleSource) RecognizeOnce(ctx context.Context) (core.Recognition, error) {
	if len(s.audio) == 0 {
		return core.Recognition{Reason: core.NoMatch}, nil
	}

	req, err := s.g.request(s.audio, s.format)
	if err != nil {
		return core.Recognition{}, err
	}

	resp, err := s.g.client.Recognize(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return core.Recognition{Reason: core.Canceled}, nil
		}
		return core.Recognition{}, fmt.Errorf("recognize: %w", err)
	}

	rec := s.g.parse(resp)
	log.FromCtx(ctx).Debug().
		Str("reason", rec.Reason.String()).
		Str("language", rec.Language).
		Msg("speech recognized")
	return rec, nil
}

func (g *Google) request(audio []byte, format core.AudioFormat) (*speechpb.RecognizeRequest, error) {
	encoding, err := encodingFor(format.Encoding)
	if err != nil {
		return nil, err
	}

	rate := format.SampleRate
	if rate == 0 {
		rate = g.sampleRate
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:                 encoding,
		LanguageCode:             g.language,
		AlternativeLanguageCodes: g.alternatives,
	}
	// FLAC carries its own rate in the header.
	if encoding != speechpb.RecognitionConfig_FLAC {
		cfg.SampleRateHertz = int32(rate)
	}

	return &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}, nil
}

func (g *Google) parse(resp *speechpb.RecognizeResponse) core.Recognition {
	var (
		parts    []string
		language string
	)
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 || strings.TrimSpace(alts[0].GetTranscript()) == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(alts[0].GetTranscript()))
		if language == "" {
			language = result.GetLanguageCode()
		}
	}

	if len(parts) == 0 {
		return core.Recognition{Reason: core.NoMatch}
	}
	if language == "" {
		language = g.language
	}
	return core.Recognition{
		Reason:   core.RecognizedSpeech,
		Text:     strings.Join(parts, " "),
		Language: language,
	}
}

func encodingFor(name string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch strings.ToLower(name) {
	case "", "linear16", "wav", "pcm":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "ogg_opus", "ogg", "opus":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "webm_opus", "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	case "flac":
		return speechpb.RecognitionConfig_FLAC, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported audio encoding %q", name)
	}
}
