package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE SNAPSHOTS
// ══════════════════════════════════════════════════════════════════════════════

// The document column is TEXT, not JSONB: JSONB normalises key order, and the
// snapshot relies on key order for per-day submission order.
const migration001Up = `
CREATE TABLE IF NOT EXISTS warden_snapshots (
    name TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    saved_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_warden_snapshots",
			UpSQL:   migration001Up,
		},
	}
}
