// Package httpapi exposes the session over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/observability"
	"github.com/sandevgo/ridevoice/internal/providers/speech"
	"github.com/sandevgo/ridevoice/internal/service/session"
	"github.com/sandevgo/ridevoice/pkg/log"
)

const maxAudioBytes = 10 << 20

type Session interface {
	ConfigureWakeWord(word string) string
	ProcessOneUtterance(ctx context.Context, src core.UtteranceSource) (core.Exchange, error)
	Status() session.Status
	History() []core.Turn
}

type Server struct {
	addr       string
	session    Session
	recognizer core.Recognizer
	metrics    *observability.Metrics
	httpServer *http.Server
}

// New builds the server. recognizer may be nil, in which case only text
// utterances are accepted.
func New(addr string, s Session, recognizer core.Recognizer, metrics *observability.Metrics) *Server {
	return &Server{
		addr:       addr,
		session:    s,
		recognizer: recognizer,
		metrics:    metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Handler().ServeHTTP(w, r)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/wake-word", s.handleWakeWord)
		r.Post("/utterance", s.handleUtterance)
		r.Get("/session", s.handleSession)
		r.Get("/history", s.handleHistory)
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.FromCtx(ctx).Info().Msg("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"audio_inputs": s.recognizer != nil,
	})
}

type wakeWordRequest struct {
	WakeWord string `json:"wake_word"`
}

func (s *Server) handleWakeWord(w http.ResponseWriter, r *http.Request) {
	var req wakeWordRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": s.session.ConfigureWakeWord(req.WakeWord),
	})
}

type utteranceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	src, status, err := s.sourceFor(w, r)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}

	exchange, err := s.session.ProcessOneUtterance(r.Context(), src)
	switch {
	case errors.Is(err, core.ErrNoSpeech):
		respondError(w, http.StatusUnprocessableEntity, "No speech detected")
	case errors.Is(err, session.ErrNotStarted):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		log.FromCtx(r.Context()).Error().Err(err).Msg("utterance failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusOK, exchange)
	}
}

// sourceFor reads a JSON text utterance or a raw audio body.
func (s *Server) sourceFor(w http.ResponseWriter, r *http.Request) (core.UtteranceSource, int, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "" || mediaType == "application/json" {
		var req utteranceRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return nil, http.StatusBadRequest, err
		}
		return speech.Text{Text: req.Text, Language: req.Language}, 0, nil
	}

	encoding, ok := audioEncodings[mediaType]
	if !ok {
		return nil, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type %q", mediaType)
	}
	if s.recognizer == nil {
		return nil, http.StatusNotImplemented, errors.New("speech recognition is disabled")
	}

	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("read audio: %w", err)
	}

	format := core.AudioFormat{Encoding: encoding}
	if rate := r.URL.Query().Get("rate"); rate != "" {
		n, err := strconv.Atoi(rate)
		if err != nil || n <= 0 {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid sample rate %q", rate)
		}
		format.SampleRate = n
	}

	return s.recognizer.Source(audio, format), 0, nil
}

var audioEncodings = map[string]string{
	"audio/ogg":  "ogg_opus",
	"audio/opus": "ogg_opus",
	"audio/webm": "webm_opus",
	"audio/flac": "flac",
	"audio/wav":  "linear16",
	"audio/l16":  "linear16",
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"history": s.session.History(),
	})
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
