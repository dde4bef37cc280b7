package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-me-app/better-me-core/internal/domain/habit"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

var ctx = context.Background()

func newSnapshot(t *testing.T, name string) *profile.Snapshot {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	p, err := profile.NewProfile(name, now)
	require.NoError(t, err)
	h, err := p.Habits.Create(habit.Definition{Name: "Read"}, now)
	require.NoError(t, err)
	_, err = p.Habits.Complete(h.ID, 1, "", now)
	require.NoError(t, err)
	p.Stats.AddXP(42)
	p.RefreshStats()
	return p.ToSnapshot()
}

func TestCreateAndGet(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	snap := newSnapshot(t, "Aliya")
	require.NoError(t, store.Create(ctx, snap))

	got, err := store.GetByID(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "Aliya", got.DisplayName)
	assert.Equal(t, 42, got.Stats.TotalXP)
	assert.Len(t, got.Habits, 1)
	assert.Len(t, got.HabitEntries, 1)

	// The restored snapshot rebuilds a working profile.
	p, err := profile.FromSnapshot(got)
	require.NoError(t, err)
	assert.NoError(t, p.CheckInvariants())
}

func TestCreateDuplicate(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	snap := newSnapshot(t, "Aliya")
	require.NoError(t, store.Create(ctx, snap))

	err = store.Create(ctx, snap)
	assert.ErrorIs(t, err, shared.ErrProfileAlreadyExists)
}

func TestGetMissing(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
}

func TestSaveRequiresExisting(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	snap := newSnapshot(t, "Aliya")
	assert.ErrorIs(t, store.Save(ctx, snap), shared.ErrProfileNotFound)

	require.NoError(t, store.Create(ctx, snap))
	snap.DisplayName = "Aliya K."
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.GetByID(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aliya K.", got.DisplayName)
}

func TestDelete(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	snap := newSnapshot(t, "Aliya")
	require.NoError(t, store.Create(ctx, snap))
	require.NoError(t, store.Delete(ctx, snap.ID))

	_, err = store.GetByID(ctx, snap.ID)
	assert.ErrorIs(t, err, shared.ErrProfileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, snap.ID), shared.ErrProfileNotFound)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Create(ctx, newSnapshot(t, "Aliya")))
	require.NoError(t, store.Create(ctx, newSnapshot(t, "Marat")))

	// Stray non-JSON files in the data dir are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a profile"), 0o600))

	snaps, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestNewSnapshotStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profiles")

	_, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
