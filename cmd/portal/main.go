package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/selab-final/authportal/internal/assets"
	"github.com/selab-final/authportal/internal/auth"
	"github.com/selab-final/authportal/internal/config"
	"github.com/selab-final/authportal/internal/database"
	"github.com/selab-final/authportal/internal/metrics"
	"github.com/selab-final/authportal/internal/portal"
	"github.com/selab-final/authportal/internal/store"
)

const version = "0.1.0"

func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if lvl <= zerolog.DebugLevel {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg.LogLevel)

	log.Info().Str("version", version).Str("config", *configPath).Msg("starting authportal")

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	src, err := assets.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init assets")
	}

	authCfg := auth.LoadConfig(cfg)
	sessions := auth.NewRegistry(authCfg.SessionTTL)
	go sessions.RunCleanup(ctx, authCfg.CleanupInterval)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(sessions.Len)
	}

	p, err := portal.New(portal.Options{
		Store:    store.New(db),
		Sessions: sessions,
		Assets:   src,
		Auth:     authCfg,
		Metrics:  m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init portal")
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           p.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting portal server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
	log.Info().Msg("portal stopped")
}
