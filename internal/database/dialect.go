package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// pgUniqueViolation is the SQLSTATE PostgreSQL reports for a duplicate key.
const pgUniqueViolation = "23505"

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Rebind rewrites '?' placeholders into the form the dialect expects.
func Rebind(dialect, query string) string {
	if dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsUniqueViolation reports whether err is the driver signalling that an
// insert would duplicate a column declared UNIQUE.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}

// NextUserID draws the next value from users_seq. SQLite has no sequences, so
// there users_seq is an AUTOINCREMENT table whose rows are discarded after use.
func NextUserID(ctx context.Context, dialect string, q Querier) (int64, error) {
	if dialect == Postgres {
		var id int64
		if err := q.QueryRowContext(ctx, "SELECT nextval('users_seq')").Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := q.ExecContext(ctx, "INSERT INTO users_seq DEFAULT VALUES")
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM users_seq WHERE id = ?", id); err != nil {
		return 0, err
	}
	return id, nil
}
