package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"profiledash/internal/chart"
	"profiledash/internal/dashboard"
	"profiledash/internal/profile"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := Snapshot{Login: "jdoe", UserID: 42, TakenAt: base, XP: 1000,
		Skills: []chart.Point{{Label: "go", Value: 55}}, Projects: []string{"graphql"}}
	second := Snapshot{Login: "jdoe", UserID: 42, TakenAt: base.Add(time.Hour), XP: 2000, AuditUp: 3, AuditDown: 2}
	other := Snapshot{Login: "asmith", UserID: 7, TakenAt: base}

	for _, snap := range []Snapshot{first, second, other} {
		if _, err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.List(ctx, "jdoe", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(got))
	}
	if got[0].XP != 2000 || got[1].XP != 1000 {
		t.Errorf("expected newest first, got XP %v then %v", got[0].XP, got[1].XP)
	}
	if !got[1].TakenAt.Equal(base) {
		t.Errorf("TakenAt = %v, want %v", got[1].TakenAt, base)
	}
	if diff := cmp.Diff(first.Skills, got[1].Skills); diff != "" {
		t.Errorf("skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first.Projects, got[1].Projects); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
	if len(got[0].Skills) != 0 {
		t.Errorf("nil skills should read back empty, got %v", got[0].Skills)
	}

	limited, err := s.List(ctx, "jdoe", 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List limit 1 = %d, %v", len(limited), err)
	}

	logins, err := s.Logins(ctx)
	if err != nil {
		t.Fatalf("Logins: %v", err)
	}
	if diff := cmp.Diff([]string{"asmith", "jdoe"}, logins); diff != "" {
		t.Errorf("logins mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_LatestNotFound(t *testing.T) {
	s := openTemp(t)
	_, err := s.Latest(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SaveRequiresLogin(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Save(context.Background(), Snapshot{}); err == nil {
		t.Error("expected error for empty login")
	}
}

func TestStore_SaveDefaultsTime(t *testing.T) {
	s := openTemp(t)
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if _, err := s.Save(context.Background(), Snapshot{Login: "jdoe"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Latest(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !got.TakenAt.Equal(fixed) {
		t.Errorf("TakenAt = %v, want %v", got.TakenAt, fixed)
	}
}

func TestStore_RecordReport(t *testing.T) {
	s := openTemp(t)
	report := &dashboard.Report{
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		User:      &profile.User{ID: 42, Login: "jdoe"},
		XP:        1234567,
		Audit:     &profile.Audit{TotalUp: 2e6, TotalDown: 1e6},
		Projects:  []profile.Project{{Name: "graphql"}},
	}
	if err := s.Record(context.Background(), report); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := s.Latest(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.UserID != 42 || got.XP != 1234567 || got.AuditUp != 2e6 || got.AuditDown != 1e6 {
		t.Errorf("unexpected snapshot %+v", got)
	}
	if diff := cmp.Diff([]string{"graphql"}, got.Projects); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}

	if err := s.Record(context.Background(), &dashboard.Report{}); err == nil {
		t.Error("expected error for report without user")
	}
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Save(context.Background(), Snapshot{Login: "jdoe"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	list, err := s.List(context.Background(), "jdoe", 0)
	if err != nil || len(list) != 1 {
		t.Errorf("List after reopen = %d, %v", len(list), err)
	}
}
