// Package tts speaks replies back through an external synthesizer.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/pkg/log"
)

// ElevenLabs renders text to an MP3 clip and writes it to outPath, replacing
// the previous reply.
type ElevenLabs struct {
	client  *http.Client
	baseURL string
	apiKey  string
	voiceID string
	modelID string
	outPath string
}

func NewElevenLabs(cfg *config.SpeechConfig, outPath string) *ElevenLabs {
	return &ElevenLabs{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: strings.TrimRight(cfg.ElevenLabsURL, "/"),
		apiKey:  cfg.ElevenLabsAPIKey,
		voiceID: cfg.ElevenLabsVoice,
		modelID: cfg.ElevenLabsModel,
		outPath: outPath,
	}
}

func (e *ElevenLabs) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": e.modelID,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	endpoint := e.baseURL + "/v1/text-to-speech/" + url.PathEscape(e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	if err := os.MkdirAll(filepath.Dir(e.outPath), 0755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}
	tmp := e.outPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write audio: %w", err)
	}
	if err := os.Rename(tmp, e.outPath); err != nil {
		return fmt.Errorf("replace audio: %w", err)
	}

	log.FromCtx(ctx).Debug().Int64("bytes", n).Str("path", e.outPath).Msg("reply synthesized")
	return nil
}
