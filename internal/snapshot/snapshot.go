// Package snapshot keeps a SQLite history of dashboard loads so progress
// (XP, audit totals, skills) can be compared over time.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"profiledash/internal/chart"
	"profiledash/internal/dashboard"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot: not found")

// Snapshot is one recorded dashboard load.
type Snapshot struct {
	ID         int64         `json:"id"`
	Login      string        `json:"login"`
	UserID     int           `json:"user_id"`
	TakenAt    time.Time     `json:"taken_at"`
	XP         float64       `json:"xp"`
	AuditUp    float64       `json:"audit_up"`
	AuditDown  float64       `json:"audit_down"`
	Skills     []chart.Point `json:"skills"`
	TechSkills []chart.Point `json:"tech_skills"`
	Projects   []string      `json:"projects"`
}

// FromReport converts a dashboard report. It fails when the report has no user.
func FromReport(r *dashboard.Report) (Snapshot, error) {
	if r == nil || r.User == nil {
		return Snapshot{}, errors.New("snapshot: report has no user")
	}
	s := Snapshot{
		Login:      r.User.Login,
		UserID:     r.User.ID,
		TakenAt:    r.StartedAt,
		XP:         r.XP,
		Skills:     r.Skills,
		TechSkills: r.TechSkills,
	}
	if r.Audit != nil {
		s.AuditUp, s.AuditDown = r.Audit.TotalUp, r.Audit.TotalDown
	}
	for _, p := range r.Projects {
		s.Projects = append(s.Projects, p.Name)
	}
	return s, nil
}

// timeLayout has a fixed width so taken_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed snapshot history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
// The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts snap and returns its id. A zero TakenAt is set to now.
func (s *Store) Save(ctx context.Context, snap Snapshot) (int64, error) {
	if snap.Login == "" {
		return 0, errors.New("snapshot: login is required")
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = s.now()
	}
	skills, err := encodeJSON(snap.Skills)
	if err != nil {
		return 0, err
	}
	tech, err := encodeJSON(snap.TechSkills)
	if err != nil {
		return 0, err
	}
	projects, err := encodeJSON(snap.Projects)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots(login, user_id, taken_at, xp, audit_up, audit_down, skills, tech_skills, projects)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Login, snap.UserID, snap.TakenAt.UTC().Format(timeLayout),
		snap.XP, snap.AuditUp, snap.AuditDown, skills, tech, projects)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return res.LastInsertId()
}

// Record implements dashboard.Recorder.
func (s *Store) Record(ctx context.Context, r *dashboard.Report) error {
	snap, err := FromReport(r)
	if err != nil {
		return err
	}
	_, err = s.Save(ctx, snap)
	return err
}

const selectColumns = `SELECT id, login, user_id, taken_at, xp, audit_up, audit_down, skills, tech_skills, projects FROM snapshots`

// List returns the newest snapshots of login first, at most limit of them.
// limit <= 0 returns all.
func (s *Store) List(ctx context.Context, login string, limit int) ([]Snapshot, error) {
	q := selectColumns + ` WHERE login = ? ORDER BY taken_at DESC, id DESC`
	args := []any{login}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Latest returns the newest snapshot of login.
func (s *Store) Latest(ctx context.Context, login string) (Snapshot, error) {
	list, err := s.List(ctx, login, 1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return list[0], nil
}

// Logins returns every login with at least one snapshot, sorted.
func (s *Store) Logins(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT login FROM snapshots ORDER BY login`)
	if err != nil {
		return nil, fmt.Errorf("list logins: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan login: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scan(rows *sql.Rows) (Snapshot, error) {
	var snap Snapshot
	var takenAt, skills, tech, projects string
	if err := rows.Scan(&snap.ID, &snap.Login, &snap.UserID, &takenAt, &snap.XP, &snap.AuditUp, &snap.AuditDown,
		&skills, &tech, &projects); err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	t, err := time.Parse(timeLayout, takenAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse taken_at %q: %w", takenAt, err)
	}
	snap.TakenAt = t
	if err := json.Unmarshal([]byte(skills), &snap.Skills); err != nil {
		return Snapshot{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(tech), &snap.TechSkills); err != nil {
		return Snapshot{}, fmt.Errorf("decode tech skills: %w", err)
	}
	if err := json.Unmarshal([]byte(projects), &snap.Projects); err != nil {
		return Snapshot{}, fmt.Errorf("decode projects: %w", err)
	}
	return snap, nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode snapshot field: %w", err)
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}
