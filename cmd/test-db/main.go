package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/selab-final/authportal/internal/config"
	"github.com/selab-final/authportal/internal/database"
	"github.com/selab-final/authportal/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("testing database initialization...")

	cfg, err := config.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Info().
		Str("type", cfg.Database.Type).
		Str("path", cfg.Database.Path).
		Str("host", cfg.Database.Host).
		Msg("config loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	applied, err := database.AppliedMigrations(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read applied migrations")
	}
	log.Info().Int("migrations", len(applied)).Msg("database initialization successful")

	n, err := store.New(db).Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count users")
	}
	log.Info().Int("users", n).Msg("database connection test successful")
}
