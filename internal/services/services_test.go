package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
	"github.com/adanyl0v/go-planner/internal/storage/sqlite"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBadCode = errors.New("bad code")

// fakeProvider maps authorization codes to profiles.
type fakeProvider struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{profiles: make(map[string]models.Profile)}
}

func (p *fakeProvider) Set(code string, profile models.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[code] = profile
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*models.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile, ok := p.profiles[code]
	if !ok {
		return nil, errBadCode
	}
	return &profile, nil
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.Open(context.Background(), zerolog.Nop(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestUser(t *testing.T, store storage.Store, googleID string) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &models.User{
		GoogleID:  googleID,
		Email:     googleID + "@example.com",
		Name:      googleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func ptr[T any](v T) *T {
	return &v
}
