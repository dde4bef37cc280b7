// Package profile contains the UserProfile aggregate: one object owning the
// habit, goal and journal ledgers, the progression stats and the earned
// achievements of a single user. All commands operate on a profile handle,
// so independent profiles never share state.
package profile

import (
	"math"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// GamificationSettings tunes the reward cadence.
type GamificationSettings struct {
	// XPMultiplier scales every base XP award. Applied by command handlers
	// before the progression engine sees the amount.
	XPMultiplier float64 `json:"xp_multiplier"`

	// AchievementNotifications - whether achievement grants should notify.
	AchievementNotifications bool `json:"achievement_notifications"`

	// StreakCelebrations - whether streak milestones should celebrate.
	StreakCelebrations bool `json:"streak_celebrations"`

	// SurpriseRewards - whether occasional surprise rewards are enabled.
	SurpriseRewards bool `json:"surprise_rewards"`
}

// Settings is the per-profile presentation and reward configuration. The
// engine applies neurotype presets when a neurotype is selected but never
// interprets the neurotype beyond that; downstream collaborators read it to
// adjust tone and animation.
type Settings struct {
	Neurotype         shared.Neurotype         `json:"neurotype"`
	Theme             string                   `json:"theme"`
	NotificationLevel shared.NotificationLevel `json:"notification_level"`
	SoundEnabled      bool                     `json:"sound_enabled"`
	AnimationsEnabled bool                     `json:"animations_enabled"`
	HighContrast      bool                     `json:"high_contrast"`
	ReducedMotion     bool                     `json:"reduced_motion"`
	Gamification      GamificationSettings     `json:"gamification"`
}

// DefaultSettings returns the settings of a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		Neurotype:         shared.NeurotypeNeurotypical,
		Theme:             "light",
		NotificationLevel: shared.NotificationGentle,
		SoundEnabled:      true,
		AnimationsEnabled: true,
		Gamification: GamificationSettings{
			XPMultiplier:             1.0,
			AchievementNotifications: true,
			StreakCelebrations:       true,
			SurpriseRewards:          true,
		},
	}
}

// ApplyNeurotypePreset selects a neurotype and applies its preset defaults
// for notification tone, animation and reward cadence.
func (s *Settings) ApplyNeurotypePreset(n shared.Neurotype) error {
	if !n.IsValid() {
		return shared.ErrInvalidNeurotype
	}
	s.Neurotype = n

	switch n {
	case shared.NeurotypeADHD:
		s.NotificationLevel = shared.NotificationMotivating
		s.AnimationsEnabled = true
		s.Gamification.XPMultiplier = 1.5
	case shared.NeurotypeAutism:
		s.NotificationLevel = shared.NotificationMinimal
		s.AnimationsEnabled = false
		s.ReducedMotion = true
		s.Gamification.XPMultiplier = 1.0
	case shared.NeurotypeAuDHD:
		s.NotificationLevel = shared.NotificationGentle
		s.AnimationsEnabled = true
		s.Gamification.XPMultiplier = 1.2
	default:
		s.NotificationLevel = shared.NotificationGentle
		s.AnimationsEnabled = true
		s.Gamification.XPMultiplier = 1.0
	}
	return nil
}

// ScaleXP applies the XP multiplier to a base award, rounding half up.
func (s Settings) ScaleXP(base int) int {
	mult := s.Gamification.XPMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	return int(math.Floor(float64(base)*mult + 0.5))
}
