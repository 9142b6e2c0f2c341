// Package config loads profiledash settings from YAML or JSON files.
//
// Precedence is defaults < file < environment < command-line flags; the
// last step is applied by the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"profiledash/internal/auth"
	"profiledash/internal/chart"
	"profiledash/internal/dashboard"
	"profiledash/internal/display"
	"profiledash/internal/logging"
	"profiledash/internal/profile"
	"profiledash/internal/svg"
)

const (
	DefaultEndpoint       = "https://learn.reboot01.com/api/graphql-engine/v1/graphql"
	DefaultSigninEndpoint = "https://learn.reboot01.com/api/auth/signin"
	DefaultTimeout        = "30s"
	DefaultAddr           = "127.0.0.1:8080"

	// DefaultFile is the config file looked up under the user config dir.
	DefaultFile = "profiledash/config.yaml"
	// DefaultSnapshotFile is the history database under the user config dir.
	DefaultSnapshotFile = "profiledash/history.db"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken    = "PROFILEDASH_TOKEN"
	EnvEndpoint = "PROFILEDASH_ENDPOINT"
	EnvConfig   = "PROFILEDASH_CONFIG"
)

// Config is the full set of settings.
type Config struct {
	Endpoint       string         `yaml:"endpoint" json:"endpoint"`
	SigninEndpoint string         `yaml:"signin_endpoint" json:"signin_endpoint"`
	TokenFile      string         `yaml:"token_file" json:"token_file"`
	ModulePath     string         `yaml:"module_path" json:"module_path"`
	Policy         string         `yaml:"policy" json:"policy"`
	Timeout        string         `yaml:"timeout" json:"timeout"`
	Log            LogConfig      `yaml:"log" json:"log"`
	Charts         ChartsConfig   `yaml:"charts" json:"charts"`
	Theme          svg.Theme      `yaml:"theme" json:"theme"`
	Snapshot       SnapshotConfig `yaml:"snapshot" json:"snapshot"`
	Serve          ServeConfig    `yaml:"serve" json:"serve"`

	// Token comes from the environment only, never from a file.
	Token string `yaml:"-" json:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ChartsConfig struct {
	SkillLimit int         `yaml:"skill_limit" json:"skill_limit"`
	Skills     ChartConfig `yaml:"skills" json:"skills"`
	TechSkills ChartConfig `yaml:"tech_skills" json:"tech_skills"`
	Audit      ChartConfig `yaml:"audit" json:"audit"`
}

// ChartConfig configures one chart. Zero or absent numeric fields take the
// kind's default, except label_offset and bar_gap: when present, 0 means no
// spacing.
type ChartConfig struct {
	Kind        string    `yaml:"kind" json:"kind"`
	Size        float64   `yaml:"size,omitempty" json:"size,omitempty"`
	Rings       []float64 `yaml:"rings,omitempty" json:"rings,omitempty"`
	LabelOffset *float64  `yaml:"label_offset,omitempty" json:"label_offset,omitempty"`
	BarWidth    float64   `yaml:"bar_width,omitempty" json:"bar_width,omitempty"`
	BarGap      *float64  `yaml:"bar_gap,omitempty" json:"bar_gap,omitempty"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

type ServeConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		SigninEndpoint: DefaultSigninEndpoint,
		ModulePath:     profile.DefaultModulePath,
		Policy:         string(dashboard.FailFast),
		Timeout:        DefaultTimeout,
		Log:            LogConfig{Level: "info", Format: "text"},
		Charts: ChartsConfig{
			SkillLimit: profile.DefaultSkillLimit,
			Skills: ChartConfig{
				Kind:        chart.Radial.String(),
				Size:        chart.DefaultRadialSize,
				Rings:       append([]float64(nil), chart.DefaultRings...),
				Placeholder: display.NoSkills,
			},
			TechSkills: ChartConfig{Kind: chart.Bar.String(), Size: chart.DefaultBarHeight},
			Audit:      ChartConfig{Kind: chart.Progress.String(), Size: chart.DefaultTrackWidth},
		},
		Theme:    svg.DefaultTheme(),
		Snapshot: SnapshotConfig{Enabled: true},
		Serve:    ServeConfig{Addr: DefaultAddr},
	}
}

// LoadFromPath reads a config file (YAML or JSON) over the defaults.
// Format is detected by extension (.yaml/.yml, .json) or by content.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// LoadDefault loads path, or the default file when path is empty. A missing
// default file yields the defaults; a missing explicit path is an error.
func LoadDefault(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}
	def, err := userPath(DefaultFile)
	if err != nil {
		return Default(), nil
	}
	cfg, err := LoadFromPath(def)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load parses data over the defaults. ext is the file extension used as a
// format hint; empty means detect from content.
func Load(data []byte, ext string) (*Config, error) {
	cfg := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvToken); ok {
		c.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Endpoint = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required"))
	}
	if _, err := dashboard.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Charts.SkillLimit < 0 {
		errs = append(errs, fmt.Errorf("charts.skill_limit must not be negative, got %d", c.Charts.SkillLimit))
	}
	for name, cc := range map[string]ChartConfig{
		"skills":      c.Charts.Skills,
		"tech_skills": c.Charts.TechSkills,
		"audit":       c.Charts.Audit,
	} {
		if _, err := cc.Chart(); err != nil {
			errs = append(errs, fmt.Errorf("charts.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// TimeoutDuration parses Timeout. Empty means DefaultTimeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	s := c.Timeout
	if s == "" {
		s = DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Chart converts c into a renderer configuration.
func (c ChartConfig) Chart() (chart.Config, error) {
	kind, err := chart.ParseKind(c.Kind)
	if err != nil {
		return chart.Config{}, err
	}
	out := chart.DefaultConfig(kind)
	if c.Size != 0 {
		if !(c.Size > 0) || math.IsInf(c.Size, 0) {
			return chart.Config{}, fmt.Errorf("size must be positive, got %v", c.Size)
		}
		out.Size = c.Size
	}
	if c.Rings != nil {
		for _, f := range c.Rings {
			if !(f > 0) || f > 1 {
				return chart.Config{}, fmt.Errorf("ring fraction %v outside (0, 1]", f)
			}
		}
		out.RingFractions = append([]float64(nil), c.Rings...)
	}
	if c.BarWidth < 0 || negative(c.LabelOffset) || negative(c.BarGap) {
		return chart.Config{}, errors.New("label_offset, bar_width and bar_gap must not be negative")
	}
	if c.LabelOffset != nil {
		out.LabelOffset = spacing(*c.LabelOffset)
	}
	if c.BarWidth > 0 {
		out.BarWidth = c.BarWidth
	}
	if c.BarGap != nil {
		out.BarGap = spacing(*c.BarGap)
	}
	if c.Placeholder != "" {
		out.Placeholder = c.Placeholder
	}
	return out, nil
}

func negative(v *float64) bool { return v != nil && *v < 0 }

// spacing maps an explicit 0 to chart.None.
func spacing(v float64) float64 {
	if v == 0 {
		return chart.None
	}
	return v
}

// DashboardSettings returns the dashboard settings described by c.
func (c *Config) DashboardSettings() (dashboard.Settings, error) {
	s := dashboard.DefaultSettings()
	var err error
	if s.Policy, err = dashboard.ParsePolicy(c.Policy); err != nil {
		return s, err
	}
	if c.Charts.SkillLimit > 0 {
		s.SkillLimit = c.Charts.SkillLimit
	}
	if s.Skills, err = c.Charts.Skills.Chart(); err != nil {
		return s, fmt.Errorf("charts.skills: %w", err)
	}
	if s.TechSkills, err = c.Charts.TechSkills.Chart(); err != nil {
		return s, fmt.Errorf("charts.tech_skills: %w", err)
	}
	if s.Audit, err = c.Charts.Audit.Chart(); err != nil {
		return s, fmt.Errorf("charts.audit: %w", err)
	}
	s.Theme = c.Theme.Merge()
	return s, nil
}

// TokenPath returns TokenFile, or the default path under the user config dir.
func (c *Config) TokenPath() (string, error) {
	if c.TokenFile != "" {
		return c.TokenFile, nil
	}
	return userPath(auth.DefaultTokenPath)
}

// SnapshotPath returns Snapshot.Path, or the default history database path.
func (c *Config) SnapshotPath() (string, error) {
	if c.Snapshot.Path != "" {
		return c.Snapshot.Path, nil
	}
	return userPath(DefaultSnapshotFile)
}

func userPath(rel string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, filepath.FromSlash(rel)), nil
}
