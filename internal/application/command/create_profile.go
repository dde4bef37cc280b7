package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE PROFILE COMMAND
// Creates a new user profile with its neurotype presentation preset. The
// passphrase is optional; when set, queries against the profile require it.
// ══════════════════════════════════════════════════════════════════════════════

// CreateProfileCommand contains the data to create a profile.
type CreateProfileCommand struct {
	// DisplayName is the user-facing name.
	DisplayName string

	// Neurotype selects the presentation preset (empty means neurotypical).
	Neurotype string

	// Passphrase optionally protects the profile. Stored only as a bcrypt
	// hash, never in the snapshot's clear text.
	Passphrase string

	// Timestamp is when the profile is created (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c CreateProfileCommand) Validate() error {
	if c.DisplayName == "" {
		return errors.New("create_profile: display_name is required")
	}
	if c.Neurotype != "" && !shared.Neurotype(c.Neurotype).IsValid() {
		return shared.ErrInvalidNeurotype
	}
	if len(c.Passphrase) > 72 {
		// bcrypt truncates beyond 72 bytes
		return errors.New("create_profile: passphrase too long")
	}
	return nil
}

// CreateProfileResult contains the result of creating a profile.
type CreateProfileResult struct {
	// ProfileID is the ID of the new profile.
	ProfileID string

	// DisplayName echoes the stored name.
	DisplayName string

	// Neurotype is the applied preset.
	Neurotype string

	// XPMultiplier is the multiplier the preset selected.
	XPMultiplier float64

	// CreatedAt is when the profile was created.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateProfileHandler handles the CreateProfileCommand.
type CreateProfileHandler struct {
	repo     profile.Repository
	eventBus shared.EventPublisher
	clock    shared.Clock
}

// NewCreateProfileHandler creates a new CreateProfileHandler.
func NewCreateProfileHandler(repo profile.Repository, eventBus shared.EventPublisher, clock shared.Clock) *CreateProfileHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CreateProfileHandler{repo: repo, eventBus: eventBus, clock: clock}
}

// Handle executes the create profile command.
func (h *CreateProfileHandler) Handle(ctx context.Context, cmd CreateProfileCommand) (*CreateProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_profile: validation failed: %w", err)
	}

	now := at(cmd.Timestamp, h.clock)

	p, err := profile.NewProfile(cmd.DisplayName, now)
	if err != nil {
		return nil, fmt.Errorf("create_profile: %w", err)
	}

	if cmd.Neurotype != "" {
		if err := p.Settings.ApplyNeurotypePreset(shared.Neurotype(cmd.Neurotype)); err != nil {
			return nil, fmt.Errorf("create_profile: %w", err)
		}
	}

	if cmd.Passphrase != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Passphrase), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("create_profile: hash passphrase: %w", err)
		}
		p.PassphraseHash = hash
	}

	if err := h.repo.Create(ctx, p.ToSnapshot()); err != nil {
		return nil, fmt.Errorf("create_profile: %w", err)
	}

	if h.eventBus != nil {
		_ = h.eventBus.Publish(shared.NewProfileCreatedEvent(p.ID, p.DisplayName, string(p.Settings.Neurotype)))
	}

	return &CreateProfileResult{
		ProfileID:    p.ID,
		DisplayName:  p.DisplayName,
		Neurotype:    string(p.Settings.Neurotype),
		XPMultiplier: p.Settings.Gamification.XPMultiplier,
		CreatedAt:    now,
	}, nil
}

// VerifyPassphrase checks a candidate passphrase against the stored hash.
// Profiles without a passphrase accept any input.
func VerifyPassphrase(p *profile.UserProfile, candidate string) error {
	if len(p.PassphraseHash) == 0 {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword(p.PassphraseHash, []byte(candidate)); err != nil {
		return shared.ErrWrongPassphrase
	}
	return nil
}
