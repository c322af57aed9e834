package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all database migrations
func GetMigrations(dialect string) []Migration {
	if dialect == Postgres {
		return getPostgresMigrations()
	}
	return getSQLiteMigrations()
}

func getPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id BIGINT PRIMARY KEY,
				username VARCHAR(50) UNIQUE NOT NULL,
				email VARCHAR(100) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     2,
			Description: "Create users id sequence",
			SQL:         `CREATE SEQUENCE IF NOT EXISTS users_seq START WITH 1 INCREMENT BY 1`,
		},
	}
}

func getSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY,
				username TEXT UNIQUE NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     2,
			Description: "Create users id sequence",
			SQL:         `CREATE TABLE IF NOT EXISTS users_seq (id INTEGER PRIMARY KEY AUTOINCREMENT)`,
		},
	}
}

func createMigrationsTable(ctx context.Context, db *DB) error {
	var query string
	if db.Dialect == Postgres {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`
	} else {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}

	_, err := db.ExecContext(ctx, query)
	return err
}

// AppliedMigrations returns the set of applied migration versions
func AppliedMigrations(ctx context.Context, db *DB) (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return applied, err
	}
	defer rows.Close()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return applied, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// RunMigrations applies every pending migration, each inside its own transaction.
func RunMigrations(ctx context.Context, db *DB) error {
	logger := log.With().Str("component", "migrations").Str("dialect", db.Dialect).Logger()

	if err := createMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := AppliedMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range GetMigrations(db.Dialect) {
		if applied[migration.Version] {
			logger.Debug().Int("version", migration.Version).Msg("migration already applied")
			continue
		}

		logger.Info().Int("version", migration.Version).Str("description", migration.Description).Msg("applying migration")
		if err := applyMigration(ctx, db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, db *DB, migration Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(migration.SQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if err := recordMigration(ctx, db.Dialect, tx, migration.Version); err != nil {
		return err
	}
	return tx.Commit()
}

func recordMigration(ctx context.Context, dialect string, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx, Rebind(dialect, "INSERT INTO schema_migrations (version) VALUES (?)"), version)
	return err
}
