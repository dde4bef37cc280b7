package profile

import "context"

// Repository persists user profiles as snapshots. Implementations live in
// internal/infrastructure/persistence.
type Repository interface {
	// Create stores a new profile. Returns ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, snap *Snapshot) error

	// GetByID loads a profile snapshot. Returns ErrProfileNotFound when absent.
	GetByID(ctx context.Context, id string) (*Snapshot, error)

	// Save overwrites the stored snapshot for an existing profile.
	Save(ctx context.Context, snap *Snapshot) error

	// Delete removes a profile and everything under it.
	Delete(ctx context.Context, id string) error

	// List returns the snapshots of all stored profiles.
	List(ctx context.Context) ([]*Snapshot, error)
}
