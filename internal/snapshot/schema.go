package snapshot

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

var schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	login       TEXT    NOT NULL,
	user_id     INTEGER NOT NULL,
	taken_at    TEXT    NOT NULL,
	xp          REAL    NOT NULL DEFAULT 0,
	audit_up    REAL    NOT NULL DEFAULT 0,
	audit_down  REAL    NOT NULL DEFAULT 0,
	skills      TEXT    NOT NULL DEFAULT '[]',
	tech_skills TEXT    NOT NULL DEFAULT '[]',
	projects    TEXT    NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_snapshots_login ON snapshots(login, taken_at);
`
