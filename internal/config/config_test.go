package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"profiledash/internal/chart"
	"profiledash/internal/dashboard"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	s, err := cfg.DashboardSettings()
	if err != nil {
		t.Fatalf("DashboardSettings: %v", err)
	}
	if s.Policy != dashboard.FailFast || s.SkillLimit != 6 {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.Skills.Kind != chart.Radial || s.TechSkills.Kind != chart.Bar || s.Audit.Kind != chart.Progress {
		t.Errorf("unexpected kinds %v %v %v", s.Skills.Kind, s.TechSkills.Kind, s.Audit.Kind)
	}
	if s.Skills.Placeholder != "No skills data available" {
		t.Errorf("skills placeholder = %q", s.Skills.Placeholder)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	data := []byte(`
module_path: /paris/div-01
policy: best-effort
charts:
  tech_skills:
    kind: radial
    size: 320
    rings: [0.5, 1]
theme:
  accent: "#ff0000"
`)
	cfg, err := Load(data, ".yml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("endpoint should keep its default, got %q", cfg.Endpoint)
	}
	s, err := cfg.DashboardSettings()
	if err != nil {
		t.Fatalf("DashboardSettings: %v", err)
	}
	if s.Policy != dashboard.BestEffort {
		t.Errorf("policy = %q", s.Policy)
	}
	if s.TechSkills.Kind != chart.Radial || s.TechSkills.Size != 320 {
		t.Errorf("tech chart = %+v", s.TechSkills)
	}
	if diff := cmp.Diff([]float64{0.5, 1}, s.TechSkills.RingFractions); diff != "" {
		t.Errorf("rings mismatch (-want +got):\n%s", diff)
	}
	if s.Theme.Accent != "#ff0000" || s.Theme.Guide != "#ddd" {
		t.Errorf("theme = %+v", s.Theme)
	}
	if s.Skills.Kind != chart.Radial || s.Skills.Size != chart.DefaultRadialSize {
		t.Errorf("skills chart should keep defaults, got %+v", s.Skills)
	}
}

func TestLoad_ExplicitZeroSpacing(t *testing.T) {
	data := []byte(`
charts:
  tech_skills:
    kind: bar
    bar_gap: 0
  skills:
    kind: radial
    label_offset: 0
`)
	cfg, err := Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := cfg.DashboardSettings()
	if err != nil {
		t.Fatalf("DashboardSettings: %v", err)
	}
	bars := chart.Render([]chart.Point{{Label: "GO", Value: 1}, {Label: "JS", Value: 1}}, s.TechSkills).Rects(chart.RoleData)
	if len(bars) != 2 || bars[1].Min.X != s.TechSkills.BarWidth {
		t.Errorf("bar_gap: 0 should draw touching bars, got %+v", bars)
	}
	if s.Skills.LabelOffset != chart.None {
		t.Errorf("label_offset: 0 = %v, want chart.None", s.Skills.LabelOffset)
	}
	if s.Audit.BarGap != chart.DefaultBarGap {
		t.Errorf("absent bar_gap = %v, want default", s.Audit.BarGap)
	}

	gap := -2.0
	if _, err := (ChartConfig{Kind: "bar", BarGap: &gap}).Chart(); err == nil {
		t.Error("negative bar_gap should be rejected")
	}
}

func TestLoad_DetectsJSON(t *testing.T) {
	cfg, err := Load([]byte(`{"timeout": "5s", "log": {"level": "debug", "format": "json"}}`), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, err := cfg.TimeoutDuration()
	if err != nil || d != 5*time.Second {
		t.Errorf("timeout = %v, %v", d, err)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "debug" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load([]byte("policy: [unterminated"), ".yaml"); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Policy = "sometimes"
	cfg.Timeout = "soon"
	cfg.Log.Format = "xml"
	cfg.Charts.Skills.Rings = []float64{0.5, 1.5}
	cfg.Charts.TechSkills.Kind = "pie"
	cfg.Charts.Audit.Size = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"sometimes", "soon", "xml", "outside (0, 1]", "pie", "size must be positive"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q: %v", want, err)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvToken: " abc \n", EnvEndpoint: "http://localhost:9000/graphql"}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Token != "abc" || cfg.Endpoint != "http://localhost:9000/graphql" {
		t.Errorf("token %q endpoint %q", cfg.Token, cfg.Endpoint)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiledash.json")
	if err := os.WriteFile(path, []byte(`{"serve": {"addr": ":9999"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Serve.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Serve.Addr)
	}

	if _, err := LoadDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing path should fail")
	}
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.TokenFile = "/tmp/token"
	cfg.Snapshot.Path = "/tmp/history.db"
	if p, _ := cfg.TokenPath(); p != "/tmp/token" {
		t.Errorf("token path = %q", p)
	}
	if p, _ := cfg.SnapshotPath(); p != "/tmp/history.db" {
		t.Errorf("snapshot path = %q", p)
	}
}
