package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/selab-final/authportal/internal/config"
	"github.com/selab-final/authportal/internal/database"
)

type StoreTestSuite struct {
	suite.Suite
	db    *database.DB
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Type = database.SQLite
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "store_test.db")
	// A single pooled connection turns any leaked connection into a hang.
	cfg.Database.MaxConns = 1

	db, err := database.Open(context.Background(), cfg)
	s.Require().NoError(err)
	s.db = db
	s.store = New(db)
}

func (s *StoreTestSuite) TearDownTest() {
	s.db.Close()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.T().Cleanup(cancel)
	return ctx
}

func (s *StoreTestSuite) TestRegisterAssignsSequentialIDs() {
	first, err := s.store.Register(s.ctx(), "alice", "a@x.com", "p")
	s.Require().NoError(err)
	second, err := s.store.Register(s.ctx(), "bob", "b@x.com", "p")
	s.Require().NoError(err)

	s.Equal(int64(1), first)
	s.Greater(second, first)

	n, err := s.store.Count(s.ctx())
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *StoreTestSuite) TestRegisterDuplicateUsername() {
	_, err := s.store.Register(s.ctx(), "alice", "a@x.com", "p")
	s.Require().NoError(err)

	_, err = s.store.Register(s.ctx(), "alice", "other@x.com", "p")
	s.ErrorIs(err, ErrDuplicateCredential)
}

func (s *StoreTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.store.Register(s.ctx(), "alice", "a@x.com", "p")
	s.Require().NoError(err)

	_, err = s.store.Register(s.ctx(), "alice2", "a@x.com", "p")
	s.ErrorIs(err, ErrDuplicateCredential)
}

func (s *StoreTestSuite) TestConcurrentRegistrationHasOneWinner() {
	const workers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Register(context.Background(), "racer", "racer@x.com", "p")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateCredential):
				duplicates++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(workers-1, duplicates)
}

func (s *StoreTestSuite) TestAuthenticate() {
	_, err := s.store.Register(s.ctx(), "alice", "a@x.com", "secret")
	s.Require().NoError(err)

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "alice", "secret", true},
		{"wrong password", "alice", "Secret", false},
		{"unknown user", "mallory", "secret", false},
		{"username case differs", "Alice", "secret", false},
		{"empty password", "alice", "", false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			username, ok, err := s.store.Authenticate(s.ctx(), tt.username, tt.password)
			s.Require().NoError(err)
			s.Equal(tt.want, ok)
			if tt.want {
				s.Equal(tt.username, username)
			} else {
				s.Empty(username)
			}
		})
	}
}

func (s *StoreTestSuite) TestConnectionReleasedAfterFailures() {
	_, err := s.store.Register(s.ctx(), "alice", "a@x.com", "p")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err = s.store.Register(s.ctx(), "alice", "a@x.com", "p")
		s.Require().ErrorIs(err, ErrDuplicateCredential)
		_, ok, err := s.store.Authenticate(s.ctx(), "alice", "wrong")
		s.Require().NoError(err)
		s.False(ok)
	}

	s.Equal(0, s.db.Stats().InUse)
}

func (s *StoreTestSuite) TestClosedDatabaseIsUnavailable() {
	s.db.Close()

	_, err := s.store.Register(s.ctx(), "alice", "a@x.com", "p")
	s.ErrorIs(err, ErrStoreUnavailable)
	s.NotErrorIs(err, ErrDuplicateCredential)

	_, ok, err := s.store.Authenticate(s.ctx(), "alice", "p")
	s.ErrorIs(err, ErrStoreUnavailable)
	s.False(ok)
}
