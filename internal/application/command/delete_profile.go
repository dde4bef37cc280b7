package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE PROFILE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteProfileCommand removes a profile and everything under it.
type DeleteProfileCommand struct {
	// ProfileID selects the profile.
	ProfileID string

	// Passphrase must match when the profile is protected.
	Passphrase string
}

// Validate validates the command.
func (c DeleteProfileCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("delete_profile: profile_id is required")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Handler
// ─────────────────────────────────────────────────────────────────────────────

// DeleteProfileHandler processes DeleteProfileCommand.
type DeleteProfileHandler struct {
	repo profile.Repository
}

// NewDeleteProfileHandler creates a new DeleteProfileHandler.
func NewDeleteProfileHandler(repo profile.Repository) *DeleteProfileHandler {
	return &DeleteProfileHandler{repo: repo}
}

// Handle executes the command. Protected profiles require the matching
// passphrase; deletion is permanent.
func (h *DeleteProfileHandler) Handle(ctx context.Context, cmd DeleteProfileCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_profile: %w", err)
	}

	unlock := lockProfile(cmd.ProfileID)
	defer unlock()

	snap, err := h.repo.GetByID(ctx, cmd.ProfileID)
	if err != nil {
		return fmt.Errorf("delete_profile: %w", err)
	}
	p, err := profile.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("delete_profile: %w", err)
	}
	if err := VerifyPassphrase(p, cmd.Passphrase); err != nil {
		return err
	}

	return h.repo.Delete(ctx, cmd.ProfileID)
}
