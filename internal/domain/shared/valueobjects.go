// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ProfileID represents a unique user-profile identifier (UUID format).
type ProfileID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the profile ID is a valid UUID.
func (p ProfileID) IsValid() bool {
	return uuidRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProfileID) String() string {
	return string(p)
}

// IsEmpty checks if the ID is empty.
func (p ProfileID) IsEmpty() bool {
	return p == ""
}

// NewProfileID creates a new ProfileID with validation.
func NewProfileID(id string) (ProfileID, error) {
	pid := ProfileID(strings.ToLower(strings.TrimSpace(id)))
	if !pid.IsValid() {
		return "", NewDomainError("shared", "NewProfileID", ErrInvalidID, "invalid profile ID format")
	}
	return pid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// XP / Level Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// XP represents accumulated experience points.
type XP int

// MinXP is the floor for total XP. Negative adjustments never take the
// total below zero.
const MinXP XP = 0

// LevelSize is the flat per-level XP cost. Level is always a pure function
// of total XP; there is no scaling curve.
const LevelSize = 100

// IsValid checks if the XP value is non-negative.
func (x XP) IsValid() bool {
	return x >= MinXP
}

// Int returns the underlying int value.
func (x XP) Int() int {
	return int(x)
}

// Add adds a (possibly negative) delta and returns the result, floored at MinXP.
func (x XP) Add(delta int) XP {
	result := XP(int(x) + delta)
	if result < MinXP {
		return MinXP
	}
	return result
}

// Level calculates the level for this XP total: level = totalXP/100 + 1.
func (x XP) Level() Level {
	if x < 0 {
		return MinLevel
	}
	return Level(int(x)/LevelSize) + 1
}

// WithinLevel returns the XP earned within the current level: totalXP mod 100.
func (x XP) WithinLevel() XP {
	if x < 0 {
		return 0
	}
	return x % LevelSize
}

// Level represents a progression tier derived from total XP.
type Level int

// MinLevel is the lowest possible level. A fresh profile starts at level 1.
const MinLevel Level = 1

// IsValid checks if the level is valid.
func (l Level) IsValid() bool {
	return l >= MinLevel
}

// Int returns the underlying int value.
func (l Level) Int() int {
	return int(l)
}

// ═══════════════════════════════════════════════════════════════════════════
// Mood Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Mood represents a journal mood rating on a 1-10 scale.
type Mood int

const (
	MinMood Mood = 1
	MaxMood Mood = 10

	// HighMood is the threshold for a "high" mood day (mood >= 8).
	HighMood Mood = 8
	// LowMood is the threshold for a "low" mood day (mood <= 4).
	LowMood Mood = 4
)

// IsValid checks if the mood is within the 1-10 scale.
func (m Mood) IsValid() bool {
	return m >= MinMood && m <= MaxMood
}

// Int returns the underlying int value.
func (m Mood) Int() int {
	return int(m)
}

// IsHigh checks if this is a high-mood rating.
func (m Mood) IsHigh() bool {
	return m >= HighMood
}

// IsLow checks if this is a low-mood rating.
func (m Mood) IsLow() bool {
	return m <= LowMood
}

// ClampMood clamps an arbitrary rating into the valid 1-10 range.
// Out-of-range submissions are corrected rather than rejected.
func ClampMood(value int) Mood {
	switch {
	case value < int(MinMood):
		return MinMood
	case value > int(MaxMood):
		return MaxMood
	default:
		return Mood(value)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Priority Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Priority represents a goal priority (1 = highest, 5 = lowest).
type Priority int

const (
	HighestPriority Priority = 1
	LowestPriority  Priority = 5
)

// IsValid checks if the priority is within valid range.
func (p Priority) IsValid() bool {
	return p >= HighestPriority && p <= LowestPriority
}

// Int returns the underlying int value.
func (p Priority) Int() int {
	return int(p)
}

// NewPriority creates a new Priority with validation.
func NewPriority(value int) (Priority, error) {
	p := Priority(value)
	if !p.IsValid() {
		return 0, ErrInvalidPriority
	}
	return p, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Neurotype Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Neurotype is a user-selected presentation preference. The engine applies
// preset defaults when it is selected, but otherwise passes it through to
// the notification collaborator without interpreting it.
type Neurotype string

const (
	NeurotypeNeurotypical Neurotype = "neurotypical"
	NeurotypeADHD         Neurotype = "adhd"
	NeurotypeAutism       Neurotype = "autism"
	NeurotypeAuDHD        Neurotype = "audhd"
)

// IsValid checks if the neurotype is one of the known values.
func (n Neurotype) IsValid() bool {
	switch n {
	case NeurotypeNeurotypical, NeurotypeADHD, NeurotypeAutism, NeurotypeAuDHD:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (n Neurotype) String() string {
	return string(n)
}

// NotificationLevel controls the tone of notification wording.
type NotificationLevel string

const (
	NotificationMinimal     NotificationLevel = "minimal"
	NotificationGentle      NotificationLevel = "gentle"
	NotificationEncouraging NotificationLevel = "encouraging"
	NotificationMotivating  NotificationLevel = "motivating"
)

// IsValid checks if the notification level is one of the known values.
func (n NotificationLevel) IsValid() bool {
	switch n {
	case NotificationMinimal, NotificationGentle, NotificationEncouraging, NotificationMotivating:
		return true
	default:
		return false
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time period.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && !t.From.After(t.To)
}

// Contains checks if a time is within the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return (tm.Equal(t.From) || tm.After(t.From)) && (tm.Equal(t.To) || tm.Before(t.To))
}
