package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-me-app/better-me-core/internal/application/saga"
	"github.com/better-me-app/better-me-core/internal/domain/journal"
	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOURNAL COMMANDS
// Adding an entry earns reflection XP; editing and deleting do not, so an
// edit-delete-rewrite cycle cannot farm XP.
// ══════════════════════════════════════════════════════════════════════════════

// AddJournalEntryCommand contains the data to add a journal entry.
type AddJournalEntryCommand struct {
	// ProfileID owns the journal.
	ProfileID string

	// Mood is the 1..10 rating. Out-of-range values are clamped.
	Mood int

	// Content is the entry body. Content or Gratitude must be present.
	Content string

	// Gratitude is an optional gratitude note.
	Gratitude string

	// Tags are free-form labels.
	Tags []string

	// Date is the day the entry is about (defaults to the timestamp).
	Date time.Time

	// Timestamp is when the entry is written (defaults to now if zero).
	Timestamp time.Time
}

// Validate validates the command.
func (c AddJournalEntryCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("add_journal_entry: profile_id is required")
	}
	return journal.Draft{Content: c.Content, Gratitude: c.Gratitude}.Validate()
}

// AddJournalEntryResult contains the result of adding an entry.
type AddJournalEntryResult struct {
	// EntryID is the ID of the new entry.
	EntryID string

	// Mood is the clamped rating actually stored.
	Mood int

	// XPAwarded is the total XP applied, achievements included.
	XPAwarded int

	// LeveledUp indicates a level threshold was crossed.
	LeveledUp bool

	// NewLevel is the level after the reward flow.
	NewLevel int

	// NewBadges lists badge IDs earned by this entry.
	NewBadges []string

	// Events contains every domain event the action produced.
	Events []shared.Event
}

// UpdateJournalEntryCommand contains optional field changes for an entry.
type UpdateJournalEntryCommand struct {
	ProfileID string
	EntryID   string
	Mood      *int
	Content   *string
	Gratitude *string
	Tags      *[]string
	Timestamp time.Time
}

// Validate validates the command.
func (c UpdateJournalEntryCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("update_journal_entry: profile_id is required")
	}
	if c.EntryID == "" {
		return errors.New("update_journal_entry: entry_id is required")
	}
	return nil
}

// UpdateJournalEntryResult contains the updated entry.
type UpdateJournalEntryResult struct {
	Entry *journal.Entry
}

// DeleteJournalEntryCommand removes an entry. XP already earned stays.
type DeleteJournalEntryCommand struct {
	ProfileID string
	EntryID   string
	Timestamp time.Time
}

// Validate validates the command.
func (c DeleteJournalEntryCommand) Validate() error {
	if c.ProfileID == "" {
		return errors.New("delete_journal_entry: profile_id is required")
	}
	if c.EntryID == "" {
		return errors.New("delete_journal_entry: entry_id is required")
	}
	return nil
}

// DeleteJournalEntryResult reports whether anything was removed.
type DeleteJournalEntryResult struct {
	Deleted bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// WriteJournalHandler handles journal add, update, and delete.
type WriteJournalHandler struct {
	store   profileStore
	rewards *saga.RewardFlow
	clock   shared.Clock
}

// NewWriteJournalHandler creates a new WriteJournalHandler.
func NewWriteJournalHandler(repo profile.Repository, rewards *saga.RewardFlow, clock shared.Clock) *WriteJournalHandler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &WriteJournalHandler{store: profileStore{repo: repo}, rewards: rewards, clock: clock}
}

// HandleAdd executes the add journal entry command.
func (h *WriteJournalHandler) HandleAdd(ctx context.Context, cmd AddJournalEntryCommand) (*AddJournalEntryResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("add_journal_entry: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	now := at(cmd.Timestamp, h.clock)

	added, err := p.Journal.Add(journal.Draft{
		Date:      cmd.Date,
		Mood:      cmd.Mood,
		Content:   cmd.Content,
		Gratitude: cmd.Gratitude,
		Tags:      cmd.Tags,
	}, now)
	if err != nil {
		return nil, err
	}

	reward, err := h.rewards.Execute(ctx, p, saga.RewardInput{
		Source:        saga.SourceJournalEntry,
		TriggerEvents: added.Events,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("add_journal_entry: %w", err)
	}

	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("add_journal_entry: %w", err)
	}

	result := &AddJournalEntryResult{
		EntryID:   added.Entry.ID,
		Mood:      added.Entry.Mood.Int(),
		XPAwarded: reward.XPAwarded,
		LeveledUp: reward.LeveledUp,
		NewLevel:  reward.NewLevel,
		Events:    reward.Events,
	}
	for _, g := range reward.Grants {
		result.NewBadges = append(result.NewBadges, g.BadgeID)
	}
	return result, nil
}

// HandleUpdate executes the update journal entry command.
func (h *WriteJournalHandler) HandleUpdate(ctx context.Context, cmd UpdateJournalEntryCommand) (*UpdateJournalEntryResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("update_journal_entry: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	updated, err := p.Journal.Update(cmd.EntryID, journal.Update{
		Mood:      cmd.Mood,
		Content:   cmd.Content,
		Gratitude: cmd.Gratitude,
		Tags:      cmd.Tags,
	})
	if err != nil {
		return nil, err
	}

	p.Touch(at(cmd.Timestamp, h.clock))
	if err := h.store.save(ctx, p); err != nil {
		return nil, fmt.Errorf("update_journal_entry: %w", err)
	}

	return &UpdateJournalEntryResult{Entry: updated.Clone()}, nil
}

// HandleDelete executes the delete journal entry command.
func (h *WriteJournalHandler) HandleDelete(ctx context.Context, cmd DeleteJournalEntryCommand) (*DeleteJournalEntryResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_journal_entry: validation failed: %w", err)
	}

	unlock := h.store.lock(cmd.ProfileID)
	defer unlock()

	p, err := h.store.load(ctx, cmd.ProfileID)
	if err != nil {
		return nil, err
	}

	deleted := p.Journal.Delete(cmd.EntryID)
	if deleted {
		p.RefreshStats()
		p.Touch(at(cmd.Timestamp, h.clock))
		if err := h.store.save(ctx, p); err != nil {
			return nil, fmt.Errorf("delete_journal_entry: %w", err)
		}
	}

	return &DeleteJournalEntryResult{Deleted: deleted}, nil
}
