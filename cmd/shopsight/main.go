package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"shopsight/internal/catalog"
	"shopsight/internal/chat"
	"shopsight/internal/config"
	"shopsight/internal/logging"
	"shopsight/internal/observability"
	"shopsight/internal/tools"
)

func main() {
	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	observability.Start(cfg.MetricsPort)

	store := catalog.NewStore(cfg.CatalogPath)
	if _, err := store.Catalog(); err != nil {
		log.Warn().Err(err).Msg("catalog not loaded, serving with an empty catalog")
	}

	var sessions chat.History = chat.NewMemoryHistory()
	if cfg.RedisURL != "" {
		client, err := chat.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		sessions = &chat.SessionStore{Client: client}
	} else {
		log.Warn().Msg("REDIS_URL not set, chat history kept in memory")
	}

	agent := &chat.Agent{
		LLM:           openai.NewClient(cfg.OpenAIKey),
		Tools:         tools.New(store),
		Model:         cfg.Model,
		Temperature:   cfg.AgentTemperature,
		MaxIterations: cfg.AgentMaxIterations,
	}

	mux := http.NewServeMux()
	mux.Handle("/chat", chat.Handler(agent, sessions))
	mux.Handle("/healthz", chat.HealthHandler(store))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("catalog", cfg.CatalogPath).Msg("shopsight listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("shopsight stopped")
}
