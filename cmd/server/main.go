package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/RTCAgent/internal/adapters/http"
	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/metrics"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Dev.DebugLog {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	started := time.Now()
	r := router.SetupRouter(cfg, router.Deps{Metrics: metrics.New(cfg.Server.Version, started)})
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: cors(r),
	}

	go func() {
		log.Info().Str("addr", addr).Msg("RTC Agent server started")
		log.Info().Msgf("Health check: %s/health", cfg.Server.BaseURL)
		log.Info().Msgf("Config: %s/api/config", cfg.Server.BaseURL)
		if !cfg.IsProduction() {
			log.Info().Msg("Development mode - using mock tokens")
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
