package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/selab-final/authportal/internal/config"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DB is a connection pool together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Dialect string
}

// Open connects to the configured database, verifies the connection and
// applies pending migrations.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	var db *sql.DB
	var err error

	dialect := cfg.Database.Type
	switch dialect {
	case Postgres:
		db, err = openPostgres(cfg)
	case SQLite, "":
		dialect = SQLite
		db, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{DB: db, Dialect: dialect}
	if err := RunMigrations(ctx, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("component", "database").Str("dialect", dialect).Msg("database ready")
	return d, nil
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	log.Info().Str("component", "database").
		Str("host", cfg.Database.Host).
		Str("port", cfg.Database.Port).
		Str("name", cfg.Database.Name).
		Str("user", cfg.Database.User).
		Msg("connecting to PostgreSQL")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	configurePool(db, cfg)
	return db, nil
}

func openSQLite(cfg *config.Config) (*sql.DB, error) {
	log.Info().Str("component", "database").Str("path", cfg.Database.Path).Msg("opening SQLite database")

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := createDataDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := checkWritePermissions(dataDir); err != nil {
		return nil, fmt.Errorf("insufficient permissions for data directory %s: %w", dataDir, err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.Database.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	configurePool(db, cfg)
	return db, nil
}

func configurePool(db *sql.DB, cfg *config.Config) {
	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
}

// createDataDir creates the SQLite data directory if it doesn't exist
func createDataDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Info().Str("component", "database").Str("dir", dir).Msg("creating data directory")
		return os.MkdirAll(dir, 0755)
	} else if err != nil {
		return err
	}
	return nil
}

// checkWritePermissions verifies the process can create files in dir
func checkWritePermissions(dir string) error {
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
