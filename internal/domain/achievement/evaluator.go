package achievement

import (
	"time"

	"github.com/google/uuid"

	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT EVALUATOR
// Walks the catalog in insertion order after each mutation and grants every
// newly satisfied rule exactly once. Re-evaluation is safe and idempotent:
// already-granted badge ids are always skipped.
// ══════════════════════════════════════════════════════════════════════════════

// Evaluator owns the rule catalog and the badges a profile has earned.
type Evaluator struct {
	profileID string
	catalog   []Rule
	earned    []*Achievement
	granted   map[string]bool // badge id -> granted
}

// NewEvaluator creates an evaluator with the given catalog and no earned
// badges. Pass DefaultCatalog() for the built-in rules.
func NewEvaluator(profileID string, catalog []Rule) *Evaluator {
	return &Evaluator{
		profileID: profileID,
		catalog:   catalog,
		granted:   make(map[string]bool),
	}
}

// Restore rebuilds an evaluator from persisted earned badges.
func RestoreEvaluator(profileID string, catalog []Rule, earned []*Achievement) *Evaluator {
	ev := NewEvaluator(profileID, catalog)
	ev.earned = earned
	for _, a := range earned {
		ev.granted[a.BadgeID] = true
	}
	return ev
}

// Grant describes one newly granted badge.
type Grant struct {
	Achievement *Achievement
	Event       shared.Event
}

// Evaluate checks every not-yet-granted rule against the snapshot and
// grants each satisfied one. Multiple rules may fire in a single pass.
// The caller applies the XP rewards through the progression engine.
func (ev *Evaluator) Evaluate(snap Snapshot, now time.Time) []Grant {
	return ev.evaluate(snap, now, -1)
}

// EvaluateUpTo is Evaluate with a grant budget: at most max rules are
// granted, in catalog order. Rules beyond the budget stay ungranted, so a
// later pass picks them up with their XP reward intact. A non-positive
// budget grants nothing.
func (ev *Evaluator) EvaluateUpTo(snap Snapshot, now time.Time, max int) []Grant {
	if max <= 0 {
		return nil
	}
	return ev.evaluate(snap, now, max)
}

func (ev *Evaluator) evaluate(snap Snapshot, now time.Time, max int) []Grant {
	var grants []Grant
	for _, rule := range ev.catalog {
		if max >= 0 && len(grants) >= max {
			break
		}
		if ev.granted[rule.BadgeID] {
			continue
		}
		if !rule.Satisfied(snap) {
			continue
		}

		a := &Achievement{
			ID:          uuid.NewString(),
			BadgeID:     rule.BadgeID,
			Title:       rule.Title,
			Description: rule.Description,
			Category:    rule.Category,
			Tier:        rule.Tier,
			XPReward:    rule.XPReward,
			EarnedAt:    now,
		}
		ev.earned = append(ev.earned, a)
		ev.granted[rule.BadgeID] = true

		grants = append(grants, Grant{
			Achievement: a,
			Event:       shared.NewAchievementGrantedEvent(ev.profileID, a.BadgeID, a.Title, a.XPReward),
		})
	}
	return grants
}

// Earned returns all granted achievements in grant order.
func (ev *Evaluator) Earned() []*Achievement {
	return ev.earned
}

// HasBadge reports whether a badge id has been granted.
func (ev *Evaluator) HasBadge(badgeID string) bool {
	return ev.granted[badgeID]
}

// Catalog returns the rule catalog.
func (ev *Evaluator) Catalog() []Rule {
	return ev.catalog
}
