// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
)

// loadProfile rebuilds a profile for reading. Queries never persist, so no
// locking discipline is needed beyond the repository's own.
func loadProfile(ctx context.Context, repo profile.Repository, id string) (*profile.UserProfile, error) {
	snap, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := profile.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore profile %s: %w", id, err)
	}
	return p, nil
}
