package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// tickClock returns a strictly increasing time on every call.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// Set makes the next Now call return t.
func (c *tickClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t.Add(-time.Second)
}

func newTestStore(t *testing.T) (*Store, *tickClock) {
	t.Helper()
	clock := newTickClock()
	return New(db.NewTestDB(t), WithClock(clock.Now)), clock
}

func newTenant(t *testing.T, s *Store, username string) model.TenantID {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u.Tenant()
}
