package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SETTINGS COMMANDS
// Settings changes never touch progression state retroactively: a new XP
// multiplier applies to future awards only.
// ══════════════════════════════════════════════════════════════════════════════

// SetNeurotypeCommand switches the profile's preset, overwriting the
// presentation fields (notification level, animations, multiplier) with the
// preset's values.
type SetNeurotypeCommand struct {
	ProfileID string
	Neurotype string
	Timestamp time.Time
}

// Validate validates the command.
func (c SetNeurotypeCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("set_neurotype: profile_id is required")
	}
	if !shared.Neurotype(c.Neurotype).IsValid() {
		return shared.ErrInvalidNeurotype
	}
	return nil
}

// UpdateSettingsCommand contains optional per-field setting changes. Nil
// fields are left untouched; the neurotype itself is changed through
// SetNeurotypeCommand.
type UpdateSettingsCommand struct {
	ProfileID         string
	Theme             *string
	NotificationLevel *string
	SoundEnabled      *bool
	AnimationsEnabled *bool
	HighContrast      *bool
	ReducedMotion     *bool
	XPMultiplier      *float64
	Timestamp         time.Time
}

// Validate validates the command.
func (c UpdateSettingsCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("update_settings: profile_id is required")
	}
	if c.NotificationLevel != nil && !shared.NotificationLevel(*c.NotificationLevel).IsValid() {
		return errors.New("update_settings: invalid notification level")
	}
	if c.XPMultiplier != nil && (*c.XPMultiplier <= 0 || *c.XPMultiplier > 10) {
		return errors.New("update_settings: xp_multiplier must be in (0, 10]")
	}
	return nil
}

// UpdateSettingsResult contains the settings after changes.
type UpdateSettingsResult struct {
	Settings profile.Settings
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UpdateSettingsHandler handles settings and neurotype changes.
type UpdateSettingsHandler struct {
	store    profileStore
	eventBus shared.EventPublisher
	clock    shared.Clock
}

// NewUpdateSettingsHandler creates a new UpdateSettingsHandler.
func NewUpdateSettingsHandler(repo profile.Repository, eventBus shared.EventPublisher, clock shared.Clock) *UpdateSettingsHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &UpdateSettingsHandler{store: profileStore{repo: repo}, eventBus: eventBus, clock: clock}
}

// HandleSetNeurotype executes the set neurotype command.
func (h *UpdateSettingsHandler) HandleSetNeurotype(ctx context.Context, cmd SetNeurotypeCommand) (*UpdateSettingsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("set_neurotype: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	if err := p.Settings.ApplyNeurotypePreset(shared.Neurotype(cmd.Neurotype)); err != nil {
		return nil, err
	}

	p.Touch(at(cmd.Timestamp, h.clock))
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("set_neurotype: %w", err)
	}

	h.publishChange(p)
	return &UpdateSettingsResult{Settings: p.Settings}, nil
}

// HandleUpdate executes the update settings command.
func (h *UpdateSettingsHandler) HandleUpdate(ctx context.Context, cmd UpdateSettingsCommand) (*UpdateSettingsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_settings: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	if cmd.Theme != nil {
		p.Settings.Theme = *cmd.Theme
	}
	if cmd.NotificationLevel != nil {
		p.Settings.NotificationLevel = shared.NotificationLevel(*cmd.NotificationLevel)
	}
	if cmd.SoundEnabled != nil {
		p.Settings.SoundEnabled = *cmd.SoundEnabled
	}
	if cmd.AnimationsEnabled != nil {
		p.Settings.AnimationsEnabled = *cmd.AnimationsEnabled
	}
	if cmd.HighContrast != nil {
		p.Settings.HighContrast = *cmd.HighContrast
	}
	if cmd.ReducedMotion != nil {
		p.Settings.ReducedMotion = *cmd.ReducedMotion
	}
	if cmd.XPMultiplier != nil {
		p.Settings.Gamification.XPMultiplier = *cmd.XPMultiplier
	}

	p.Touch(at(cmd.Timestamp, h.clock))
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("update_settings: %w", err)
	}

	h.publishChange(p)
	return &UpdateSettingsResult{Settings: p.Settings}, nil
}

func (h *UpdateSettingsHandler) publishChange(p *profile.UserProfile) {
	if h.eventBus == nil {
		return
	}
	_ = h.eventBus.Publish(shared.NewSettingsChangedEvent(p.ID, string(p.Settings.Neurotype), string(p.Settings.NotificationLevel)))
}
