package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/better-me-app/better-me-core/internal/domain/profile"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Repository for PostgreSQL. The whole
// aggregate is written as one jsonb snapshot per row, so a command is always
// a single-row write.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

// Create stores a new profile.
func (r *ProfileRepository) Create(ctx context.Context, snap *profile.Snapshot) error {
	query := `
		INSERT INTO profiles (
			id, display_name, passphrase_hash, neurotype,
			total_xp, level, current_streak, snapshot, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.conn.pool.Exec(ctx, query,
		snap.ID,
		snap.DisplayName,
		snap.PassphraseHash,
		string(snap.Settings.Neurotype),
		snap.Stats.TotalXP,
		levelFor(snap.Stats.TotalXP),
		snap.Stats.CurrentStreak,
		data,
		snap.CreatedAt,
		snap.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrProfileAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID loads a profile snapshot by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Snapshot, error) {
	query := `SELECT snapshot FROM profiles WHERE id = $1`

	var data []byte
	if err := r.conn.pool.QueryRow(ctx, query, id).Scan(&data); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var snap profile.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Save overwrites the stored snapshot for an existing profile.
func (r *ProfileRepository) Save(ctx context.Context, snap *profile.Snapshot) error {
	query := `
		UPDATE profiles SET
			display_name = $2,
			passphrase_hash = $3,
			neurotype = $4,
			total_xp = $5,
			level = $6,
			current_streak = $7,
			snapshot = $8,
			updated_at = $9
		WHERE id = $1
	`

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tag, err := r.conn.pool.Exec(ctx, query,
		snap.ID,
		snap.DisplayName,
		snap.PassphraseHash,
		string(snap.Settings.Neurotype),
		snap.Stats.TotalXP,
		levelFor(snap.Stats.TotalXP),
		snap.Stats.CurrentStreak,
		data,
		snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}
	return nil
}

// Delete removes a profile and everything under it.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}
	return nil
}

// List returns the snapshots of all stored profiles, newest activity first.
func (r *ProfileRepository) List(ctx context.Context) ([]*profile.Snapshot, error) {
	query := `SELECT snapshot FROM profiles ORDER BY updated_at DESC`

	rows, err := r.conn.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var snaps []*profile.Snapshot
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		var snap profile.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// levelFor mirrors the level formula so the denormalized column stays in
// step with the snapshot.
func levelFor(totalXP int) int {
	return shared.XP(totalXP).Level().Int()
}
