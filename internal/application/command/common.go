// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// profileLocks holds one mutex per profile ID. Handlers rebuild the aggregate
// from its snapshot on every command, so the mutual-exclusion boundary has to
// live above the instances: the lock is acquired before load and released
// after save, keyed by ID, and is shared by every handler in the process.
var profileLocks sync.Map // profile id -> *sync.Mutex

// profileStore wraps the repository with snapshot conversion. Every handler
// locks the profile through it, loads, mutates, and saves the resulting
// snapshot, so each command is one atomic transition.
type profileStore struct {
	repo profile.Repository
}

// lock serializes commands for one profile. It blocks until the profile is
// free and returns the release func.
func (s profileStore) lock(id string) func() {
	return lockProfile(id)
}

func lockProfile(id string) func() {
	mu, _ := profileLocks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s profileStore) load(ctx context.Context, id string) (*profile.UserProfile, error) {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := profile.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore profile %s: %w", id, err)
	}
	return p, nil
}

func (s profileStore) save(ctx context.Context, p *profile.UserProfile) error {
	return s.repo.Save(ctx, p.ToSnapshot())
}

// at resolves the command timestamp against the injected clock. Commands may
// carry an explicit timestamp for backfill; everything else runs on "now".
func at(ts time.Time, clock shared.Clock) time.Time {
	if ts.IsZero() {
		return clock.Now().UTC()
	}
	return ts.UTC()
}
