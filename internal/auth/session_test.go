package auth

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(ttl time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(ttl)
	r.now = clock.Now
	return r, clock
}

func TestCreateAndResolve(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	s, err := r.Create("alice")
	require.NoError(t, err)

	assert.Len(t, s.Token, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", s.Token)
	assert.NotEqual(t, s.Token, s.ID.String())
	assert.Equal(t, time.Hour, s.ExpiresAt.Sub(s.CreatedAt))

	username, ok := r.Resolve(s.Token)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}

func TestResolveUnknown(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	for _, token := range []string{"", "deadbeef", "00000000000000000000000000000000"} {
		username, ok := r.Resolve(token)
		assert.False(t, ok, "token %q", token)
		assert.Empty(t, username)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	first, err := r.Create("alice")
	require.NoError(t, err)
	second, err := r.Create("alice")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	r.Destroy(first.Token)

	_, ok := r.Resolve(first.Token)
	assert.False(t, ok)
	username, ok := r.Resolve(second.Token)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}

func TestDestroyIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)

	s, err := r.Create("bob")
	require.NoError(t, err)

	r.Destroy(s.Token)
	r.Destroy(s.Token)
	r.Destroy("never-issued")

	_, ok := r.Resolve(s.Token)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestExpiry(t *testing.T) {
	r, clock := newTestRegistry(time.Hour)

	s, err := r.Create("carol")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, ok := r.Resolve(s.Token)
	assert.True(t, ok, "still valid before ttl")

	clock.Advance(time.Minute)
	_, ok = r.Resolve(s.Token)
	assert.False(t, ok, "expired exactly at ttl")
	assert.Equal(t, 1, r.Len(), "expired sessions stay until swept")
}

func TestSweep(t *testing.T) {
	r, clock := newTestRegistry(time.Hour)

	old, err := r.Create("old")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	fresh, err := r.Create("fresh")
	require.NoError(t, err)

	assert.Equal(t, 0, r.Sweep())

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, ok := r.Resolve(old.Token)
	assert.False(t, ok)
	_, ok = r.Resolve(fresh.Token)
	assert.True(t, ok)
}

func TestCreateRandomFailure(t *testing.T) {
	orig := randRead
	t.Cleanup(func() { randRead = orig })
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

	r, _ := newTestRegistry(time.Hour)
	s, err := r.Create("alice")
	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry(time.Hour)

	const workers = 16
	var wg sync.WaitGroup
	tokens := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Create("user")
			if err != nil {
				return
			}
			if _, ok := r.Resolve(s.Token); ok {
				tokens <- s.Token
			}
			r.Sweep()
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[string]bool)
	for token := range tokens {
		assert.False(t, seen[token], "duplicate token issued")
		seen[token] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, workers, r.Len())
}
