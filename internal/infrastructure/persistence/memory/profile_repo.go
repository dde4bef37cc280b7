// Package memory implements an in-memory profile store, used in tests and
// as a fallback when no persistence backend is configured.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ProfileRepository implements profile.Repository in memory. Snapshots are
// deep-copied on the way in and out so callers can't alias stored state.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Snapshot
}

// NewProfileRepository creates an empty in-memory repository.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]*profile.Snapshot)}
}

// Create stores a new profile.
func (r *ProfileRepository) Create(ctx context.Context, snap *profile.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[snap.ID]; exists {
		return shared.ErrProfileAlreadyExists
	}
	clone, err := cloneSnapshot(snap)
	if err != nil {
		return err
	}
	r.profiles[snap.ID] = clone
	return nil
}

// GetByID loads a profile snapshot by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return cloneSnapshot(snap)
}

// Save overwrites the stored snapshot for an existing profile.
func (r *ProfileRepository) Save(ctx context.Context, snap *profile.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[snap.ID]; !exists {
		return shared.ErrProfileNotFound
	}
	clone, err := cloneSnapshot(snap)
	if err != nil {
		return err
	}
	r.profiles[snap.ID] = clone
	return nil
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[id]; !exists {
		return shared.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

// List returns the snapshots of all stored profiles.
func (r *ProfileRepository) List(ctx context.Context) ([]*profile.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]*profile.Snapshot, 0, len(r.profiles))
	for _, snap := range r.profiles {
		clone, err := cloneSnapshot(snap)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, clone)
	}
	return snaps, nil
}

// Len returns the number of stored profiles.
func (r *ProfileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func cloneSnapshot(snap *profile.Snapshot) (*profile.Snapshot, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var clone profile.Snapshot
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
