package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create profiles table
-- Version: 001

-- One row per user profile. The full aggregate state lives in the snapshot
-- jsonb column; the scalar columns exist for listing and lookups without
-- deserializing the whole snapshot.
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    passphrase_hash BYTEA,
    neurotype VARCHAR(20) NOT NULL DEFAULT 'neurotypical',
    total_xp INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    current_streak INTEGER NOT NULL DEFAULT 0,
    snapshot JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_neurotype CHECK (neurotype IN ('neurotypical', 'adhd', 'autism', 'audhd')),
    CONSTRAINT valid_total_xp CHECK (total_xp >= 0),
    CONSTRAINT valid_level CHECK (level >= 1)
);

CREATE INDEX IF NOT EXISTS idx_profiles_display_name ON profiles(display_name);
CREATE INDEX IF NOT EXISTS idx_profiles_updated_at ON profiles(updated_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE EVENT LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create event log
-- Version: 002

-- Append-only record of domain events, kept for auditing and for rebuilding
-- caches after a restart. Writes here are best-effort; the profile snapshot
-- is the source of truth.
CREATE TABLE IF NOT EXISTS profile_events (
    id BIGSERIAL PRIMARY KEY,
    profile_id UUID NOT NULL,
    event_type VARCHAR(50) NOT NULL,
    payload JSONB NOT NULL DEFAULT '{}'::jsonb,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_profile_events_profile ON profile_events(profile_id, occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_profile_events_type ON profile_events(event_type);
`

const migration002Down = `
DROP TABLE IF EXISTS profile_events;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_profiles",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_event_log",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
