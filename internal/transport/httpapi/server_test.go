package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/observability"
	"github.com/sandevgo/ridevoice/internal/service/agent"
	"github.com/sandevgo/ridevoice/internal/service/conversation"
	"github.com/sandevgo/ridevoice/internal/service/history"
	"github.com/sandevgo/ridevoice/internal/service/ride"
	"github.com/sandevgo/ridevoice/internal/service/session"
	"github.com/sandevgo/ridevoice/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct{ err error }

func (f *fakeAI) Chat(context.Context, []core.Turn, core.ChatOptions) (core.Turn, error) {
	if f.err != nil {
		return core.Turn{}, f.err
	}
	return core.AssistantTurn("It is 12 km and 230 rupees."), nil
}

type fakeRecognizer struct {
	audio  []byte
	format core.AudioFormat
	rec    core.Recognition
}

func (f *fakeRecognizer) Source(audio []byte, format core.AudioFormat) core.UtteranceSource {
	f.audio = audio
	f.format = format
	return f
}

func (f *fakeRecognizer) RecognizeOnce(context.Context) (core.Recognition, error) {
	return f.rec, nil
}

type failingStore struct{ *memory.Store }

func (failingStore) Upsert(context.Context, core.StoredRecord) error {
	return errors.New("disk full")
}

type testServer struct {
	url        string
	ai         *fakeAI
	recognizer *fakeRecognizer
}

func newTestServer(t *testing.T, store core.HistoryStore, withAudio bool) *testServer {
	t.Helper()

	gw := history.NewGateway(store, nil, conversation.DefaultCapacity)
	ai := &fakeAI{}
	orch := agent.NewAgent(ai, ride.NewDefaultGenerator(), agent.NewSysPrompt(), gw, nil, nil)
	s := session.New(session.Config{UserID: "annu_kumar", WakeWord: "agent", DefaultLanguage: "en-US"}, gw, orch, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	ts := &testServer{ai: ai}
	var rec core.Recognizer
	if withAudio {
		ts.recognizer = &fakeRecognizer{}
		rec = ts.recognizer
	}

	srv := httptest.NewServer(New(":0", s, rec, observability.NewMetrics("test")).Router())
	t.Cleanup(srv.Close)
	ts.url = srv.URL
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return res, decode(t, res)
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestWakeWord(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), false)

	res, body := postJSON(t, ts.url+"/v1/wake-word", map[string]string{"wake_word": " Hey Cab "})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Wake word set to hey cab", body["message"])
}

func TestUtterance_Flow(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), false)
	url := ts.url + "/v1/utterance"

	res, body := postJSON(t, url, utteranceRequest{Text: "hello there"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "hello there", body["user"])
	assert.Equal(t, "Please say 'agent' first.", body["assistant"])

	_, body = postJSON(t, url, utteranceRequest{Text: "ok agent"})
	assert.Equal(t, "Yes, I am listening.", body["assistant"])

	_, body = postJSON(t, url, utteranceRequest{Text: "Book a cab to the airport.", Language: "en-US"})
	assert.Equal(t, "book a cab to the airport", body["user"])
	assert.Equal(t, "It is 12 km and 230 rupees.", body["assistant"])
	assert.NotContains(t, body, "failed")

	res, err := http.Get(ts.url + "/v1/history")
	require.NoError(t, err)
	hist := decode(t, res)["history"].([]any)
	assert.Len(t, hist, 2)

	res, err = http.Get(ts.url + "/v1/session")
	require.NoError(t, err)
	status := decode(t, res)
	assert.Equal(t, "active", status["state"])
	assert.EqualValues(t, 2, status["turns"])
}

func TestUtterance_NoSpeech(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), false)

	res, body := postJSON(t, ts.url+"/v1/utterance", utteranceRequest{Text: "  "})

	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "No speech detected", body["error"])
}

func TestUtterance_CompletionError(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), false)
	url := ts.url + "/v1/utterance"
	postJSON(t, url, utteranceRequest{Text: "agent"})
	ts.ai.err = errors.New("rate limited")

	res, body := postJSON(t, url, utteranceRequest{Text: "book it"})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Completion error: rate limited", body["assistant"])
	assert.Equal(t, true, body["failed"])
}

func TestUtterance_PersistenceFailure(t *testing.T) {
	ts := newTestServer(t, failingStore{memory.NewStore()}, false)
	url := ts.url + "/v1/utterance"
	postJSON(t, url, utteranceRequest{Text: "agent"})

	res, body := postJSON(t, url, utteranceRequest{Text: "book a cab"})

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, body["error"], "disk full")

	res, err := http.Get(ts.url + "/v1/history")
	require.NoError(t, err)
	assert.Empty(t, decode(t, res)["history"])
}

func TestUtterance_Audio(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), true)
	ts.recognizer.rec = core.Recognition{Reason: core.RecognizedSpeech, Text: "Agent", Language: "hi-in"}

	res, err := http.Post(ts.url+"/v1/utterance?rate=48000", "audio/ogg", strings.NewReader("OggS"))
	require.NoError(t, err)
	body := decode(t, res)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Yes, I am listening.", body["assistant"])
	assert.Equal(t, []byte("OggS"), ts.recognizer.audio)
	assert.Equal(t, core.AudioFormat{Encoding: "ogg_opus", SampleRate: 48000}, ts.recognizer.format)
}

func TestUtterance_AudioErrors(t *testing.T) {
	tests := []struct {
		name        string
		withAudio   bool
		contentType string
		query       string
		want        int
	}{
		{"recognition disabled", false, "audio/ogg", "", http.StatusNotImplemented},
		{"unsupported type", true, "video/mp4", "", http.StatusUnsupportedMediaType},
		{"bad rate", true, "audio/wav", "?rate=fast", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, memory.NewStore(), tt.withAudio)
			res, err := http.Post(fmt.Sprintf("%s/v1/utterance%s", ts.url, tt.query), tt.contentType, strings.NewReader("x"))
			require.NoError(t, err)
			res.Body.Close()
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, memory.NewStore(), false)

	res, err := http.Get(ts.url + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, "ok", decode(t, res)["status"])

	postJSON(t, ts.url+"/v1/utterance", utteranceRequest{Text: "hello"})

	res, err = http.Get(ts.url + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
