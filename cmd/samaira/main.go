package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samaira-ai/samaira/internal/config"
	"github.com/samaira-ai/samaira/internal/history"
	"github.com/samaira-ai/samaira/internal/httpapi"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/observability"
	"github.com/samaira-ai/samaira/internal/session"
	"github.com/samaira-ai/samaira/internal/therapy"
	"github.com/samaira-ai/samaira/internal/voice"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	records, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer records.Close()
	if cfg.DatabaseURL == "" {
		log.Printf("history store: in-memory (no DATABASE_URL)")
	} else {
		log.Printf("history store: postgres")
	}

	resolver := identity.NewResolver(history.IdentitySource{Store: records}, log.Default())

	completer := therapy.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.MaxResponseTokens)

	factory := func(sessionID string, mode therapy.Mode) (*session.Bundle, error) {
		output, err := voice.NewOutputPipeline(voice.OutputConfig{
			OpenAIAPIKey:            cfg.OpenAIAPIKey,
			OpenAIBaseURL:           cfg.OpenAIBaseURL,
			OpenAITTSModel:          cfg.OpenAITTSModel,
			ElevenLabsAPIKey:        cfg.ElevenLabsAPIKey,
			ElevenLabsBaseURL:       cfg.ElevenLabsBaseURL,
			ElevenLabsModelID:       cfg.ElevenLabsTTSModel,
			ElevenLabsFallbackVoice: cfg.ElevenLabsFallbackVoice,
			ProviderTimeout:         cfg.ProviderTimeout,
		})
		if err != nil {
			return nil, err
		}
		input, err := voice.NewInputPipeline(voice.InputConfig{
			OpenAIAPIKey:      cfg.OpenAIAPIKey,
			OpenAIBaseURL:     cfg.OpenAIBaseURL,
			OpenAISTTModel:    cfg.OpenAISTTModel,
			ElevenLabsAPIKey:  cfg.ElevenLabsAPIKey,
			ElevenLabsBaseURL: cfg.ElevenLabsBaseURL,
			FFmpegPath:        cfg.FFmpegPath,
			MinBytes:          cfg.TranscribeMinBytes,
			ProviderTimeout:   cfg.ProviderTimeout,
		})
		if err != nil {
			output.Close()
			return nil, err
		}
		engine := therapy.NewEngine(therapy.EngineConfig{
			SessionID:    sessionID,
			Completer:    completer,
			Store:        records,
			Mode:         mode,
			HistoryLimit: cfg.HistoryContextLimit,
		})
		return &session.Bundle{Engine: engine, Output: output, Input: input}, nil
	}

	sessions := session.NewStore(factory, records, log.Default())
	defer sessions.Close()

	api := httpapi.New(cfg, sessions, resolver, records, metrics, log.Default())
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
