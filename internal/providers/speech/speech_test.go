package speech

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	resp *speechpb.RecognizeResponse
	err  error
	req  *speechpb.RecognizeRequest
}

func (f *fakeClient) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeClient) Close() error { return nil }

var speechCfg = &config.SpeechConfig{
	Language:             "en-US",
	AlternativeLanguages: []string{"hi-IN", "te-IN", "ta-IN"},
	SampleRate:           16000,
}

func result(transcript, language string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: transcript}},
		LanguageCode: language,
	}
}

func TestGoogle_RecognizeOnce(t *testing.T) {
	client := &fakeClient{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result("mujhe airport jana hai", "hi-in")},
	}}
	g := newGoogle(client, speechCfg)

	rec, err := g.Source([]byte{1, 2, 3}, core.AudioFormat{Encoding: "ogg_opus", SampleRate: 48000}).
		RecognizeOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, core.Recognition{
		Reason:   core.RecognizedSpeech,
		Text:     "mujhe airport jana hai",
		Language: "hi-in",
	}, rec)

	cfg := client.req.GetConfig()
	assert.Equal(t, speechpb.RecognitionConfig_OGG_OPUS, cfg.GetEncoding())
	assert.Equal(t, int32(48000), cfg.GetSampleRateHertz())
	assert.Equal(t, "en-US", cfg.GetLanguageCode())
	assert.Equal(t, []string{"hi-IN", "te-IN", "ta-IN"}, cfg.GetAlternativeLanguageCodes())
	assert.Equal(t, []byte{1, 2, 3}, client.req.GetAudio().GetContent())
}

func TestGoogle_DefaultsSampleRateAndLanguage(t *testing.T) {
	client := &fakeClient{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result("book a cab", ""), result(" to the airport ", "")},
	}}
	g := newGoogle(client, speechCfg)

	rec, err := g.Source([]byte{0}, core.AudioFormat{}).RecognizeOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "book a cab to the airport", rec.Text)
	assert.Equal(t, "en-US", rec.Language)
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, client.req.GetConfig().GetEncoding())
	assert.Equal(t, int32(16000), client.req.GetConfig().GetSampleRateHertz())
}

func TestGoogle_NoMatch(t *testing.T) {
	tests := map[string]*speechpb.RecognizeResponse{
		"no results":       {},
		"empty transcript": {Results: []*speechpb.SpeechRecognitionResult{result("  ", "en-us")}},
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			g := newGoogle(&fakeClient{resp: resp}, speechCfg)
			rec, err := g.Source([]byte{0}, core.AudioFormat{}).RecognizeOnce(context.Background())
			require.NoError(t, err)
			assert.Equal(t, core.NoMatch, rec.Reason)
		})
	}

	g := newGoogle(&fakeClient{}, speechCfg)
	rec, err := g.Source(nil, core.AudioFormat{}).RecognizeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.NoMatch, rec.Reason)
}

func TestGoogle_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := newGoogle(&fakeClient{err: context.Canceled}, speechCfg)

	rec, err := g.Source([]byte{0}, core.AudioFormat{}).RecognizeOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, core.Canceled, rec.Reason)
}

func TestGoogle_ClientError(t *testing.T) {
	g := newGoogle(&fakeClient{err: errors.New("permission denied")}, speechCfg)

	_, err := g.Source([]byte{0}, core.AudioFormat{}).RecognizeOnce(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestGoogle_UnsupportedEncoding(t *testing.T) {
	g := newGoogle(&fakeClient{}, speechCfg)

	_, err := g.Source([]byte{0}, core.AudioFormat{Encoding: "aac"}).RecognizeOnce(context.Background())
	assert.ErrorContains(t, err, "aac")
}

func TestText_RecognizeOnce(t *testing.T) {
	rec, err := Text{Text: "Agent.", Language: "en-US"}.RecognizeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.RecognizedSpeech, rec.Reason)
	assert.Equal(t, "Agent.", rec.Text)

	rec, err = Text{Text: "   "}.RecognizeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.NoMatch, rec.Reason)
}

func TestNewRecognizer_None(t *testing.T) {
	g, err := NewRecognizer(context.Background(), &config.SpeechConfig{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, g)

	_, err = NewRecognizer(context.Background(), &config.SpeechConfig{Provider: "azure"})
	assert.Error(t, err)
}
