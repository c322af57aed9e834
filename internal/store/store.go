package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/selab-final/authportal/internal/database"
	"github.com/selab-final/authportal/internal/models"
)

var (
	ErrDuplicateCredential = errors.New("username or email already exists")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Store is the credential store backed by the users table.
type Store struct {
	db *database.DB
}

// New creates a new store instance
func New(db *database.DB) *Store {
	return &Store{db: db}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Register inserts a new user under a freshly allocated id. Uniqueness is left
// to the table constraints, so two racing registrations yield one success and
// one ErrDuplicateCredential.
func (s *Store) Register(ctx context.Context, username, email, password string) (int64, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, unavailable(err)
	}
	defer conn.Close()

	id, err := database.NextUserID(ctx, s.db.Dialect, conn)
	if err != nil {
		return 0, unavailable(fmt.Errorf("allocate user id: %w", err))
	}

	// Plaintext password: known-insecure default kept as-is, no hashing.
	_, err = conn.ExecContext(ctx,
		database.Rebind(s.db.Dialect, "INSERT INTO users (id, username, email, password) VALUES (?, ?, ?, ?)"),
		id, username, email, password,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrDuplicateCredential
		}
		return 0, unavailable(err)
	}

	return id, nil
}

// Authenticate returns the username of the row matching both fields exactly.
// An unknown user and a wrong password are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, username, password string) (string, bool, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", false, unavailable(err)
	}
	defer conn.Close()

	var user models.User
	err = conn.QueryRowContext(ctx,
		database.Rebind(s.db.Dialect, "SELECT id, username, email, created_at FROM users WHERE username = ? AND password = ?"),
		username, password,
	).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(err)
	}

	return user.Username, true, nil
}

// Count returns the number of registered users
func (s *Store) Count(ctx context.Context) (int, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, unavailable(err)
	}
	defer conn.Close()

	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}
