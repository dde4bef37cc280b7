// Package file implements a JSON-file profile store for local, offline-first
// deployments. Each profile lives in its own file under the data directory;
// writes go through a temp file and rename so a crash never leaves a
// half-written snapshot.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// SnapshotStore implements profile.Repository on the local filesystem.
type SnapshotStore struct {
	mu  sync.RWMutex
	dir string
}

// NewSnapshotStore creates the data directory if needed and returns a store.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: create data directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

func (s *SnapshotStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create stores a new profile.
func (s *SnapshotStore) Create(ctx context.Context, snap *profile.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(snap.ID)); err == nil {
		return shared.ErrProfileAlreadyExists
	}
	return s.write(snap)
}

// GetByID loads a profile snapshot by ID.
func (s *SnapshotStore) GetByID(ctx context.Context, id string) (*profile.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(s.path(id))
}

// Save overwrites the stored snapshot for an existing profile.
func (s *SnapshotStore) Save(ctx context.Context, snap *profile.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(snap.ID)); err != nil {
		if os.IsNotExist(err) {
			return shared.ErrProfileNotFound
		}
		return fmt.Errorf("file store: stat: %w", err)
	}
	return s.write(snap)
}

// Delete removes a profile file.
func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return shared.ErrProfileNotFound
		}
		return fmt.Errorf("file store: delete: %w", err)
	}
	return nil
}

// List returns the snapshots of all stored profiles.
func (s *SnapshotStore) List(ctx context.Context) ([]*profile.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: read directory: %w", err)
	}

	var snaps []*profile.Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		snap, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *SnapshotStore) read(path string) (*profile.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("file store: read: %w", err)
	}

	var snap profile.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("file store: parse %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

func (s *SnapshotStore) write(snap *profile.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: serialize snapshot: %w", err)
	}

	target := s.path(snap.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}
