package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/observability"
	"github.com/sandevgo/ridevoice/internal/providers/llm"
	"github.com/sandevgo/ridevoice/internal/providers/speech"
	"github.com/sandevgo/ridevoice/internal/providers/tts"
	"github.com/sandevgo/ridevoice/internal/service/agent"
	"github.com/sandevgo/ridevoice/internal/service/command"
	"github.com/sandevgo/ridevoice/internal/service/history"
	"github.com/sandevgo/ridevoice/internal/service/ride"
	"github.com/sandevgo/ridevoice/internal/service/session"
	"github.com/sandevgo/ridevoice/internal/storage"
	"github.com/sandevgo/ridevoice/internal/transport/httpapi"
	"github.com/sandevgo/ridevoice/internal/transport/telegram"
	"github.com/sandevgo/ridevoice/pkg/log"
	"github.com/sandevgo/ridevoice/pkg/retry"
	"github.com/sandevgo/ridevoice/pkg/srv"
)

// app is everything the transports share.
type app struct {
	cfg        *config.AppConfig
	session    *session.Session
	commands   *command.Router
	recognizer core.Recognizer
	metrics    *observability.Metrics

	// cleanups close storage and clients; they go first in the service list
	// so they shut down last.
	cleanups []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	speechCfg := config.NewSpeechConfig(ctx)
	storeCfg := config.NewStoreConfig(ctx)

	rt := &app{
		cfg:     appCfg,
		metrics: observability.NewMetrics(appCfg.MetricsNamespace),
	}

	// 2. Storage
	store, err := storage.NewStore(ctx, appCfg, storeCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	rt.cleanups = append(rt.cleanups, srv.NewCleanup("store", store.Close))
	gateway := history.NewGateway(store, retry.NewRetrier(retry.NewStorageConfig()), appCfg.HistoryLimit)

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Speech
	google, err := speech.NewRecognizer(ctx, speechCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize speech recognizer")
	}
	if google != nil {
		rt.recognizer = google
		rt.cleanups = append(rt.cleanups, srv.NewCleanup("speech", google.Close))
	}

	speaker, err := tts.NewSpeaker(ctx, speechCfg, appCfg.GetReplyAudioPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize speech synthesizer")
	}

	// 5. Agent
	var tokens *agent.TokenCounter
	if appCfg.CountTokens {
		if tokens, err = agent.NewTokenCounter(); err != nil {
			logger.Warn().Err(err).Msg("prompt token counting disabled")
		}
	}
	ag := agent.NewAgent(aiProvider, ride.NewDefaultGenerator(), agent.NewSysPrompt(), gateway, tokens, rt.metrics)

	// 6. Session
	rt.session = session.New(session.Config{
		UserID:          appCfg.UserID,
		WakeWord:        appCfg.WakeWord,
		Capacity:        appCfg.HistoryLimit,
		DefaultLanguage: appCfg.DefaultLanguage,
	}, gateway, ag, speaker, rt.metrics)
	if err := rt.session.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start session")
	}

	rt.commands = command.NewRouter(rt.session)
	return rt
}

// NewServices builds the long-running transports enabled in config.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	rt := newApp(ctx)

	services := append([]srv.Service{}, rt.cleanups...)

	transports, err := initTransports(ctx, rt)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no transports enabled, set ENABLE_HTTP or ENABLE_TELEGRAM")
	}
	return append(services, transports...)
}

func initTransports(ctx context.Context, rt *app) ([]srv.Service, error) {
	var services []srv.Service

	if rt.cfg.EnableHTTP {
		services = append(services, httpapi.New(rt.cfg.HTTPAddr, rt.session, rt.recognizer, rt.metrics))
	}

	if rt.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, rt.cfg.DefaultLanguage, rt.session, rt.commands, rt.recognizer)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
