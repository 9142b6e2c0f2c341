package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	cases := []struct {
		name     string
		level    slog.Level
		format   string
		log      func(*slog.Logger)
		want     []string
		dontWant []string
	}{
		{
			name:   "text carries component and level",
			level:  slog.LevelDebug,
			format: "text",
			log:    func(l *slog.Logger) { l.Info("dashboard loaded") },
			want:   []string{"component=dashboard", "level=INFO", "dashboard loaded"},
		},
		{
			name:   "json fields",
			level:  slog.LevelInfo,
			format: "json",
			log:    func(l *slog.Logger) { l.Info("GraphQL request") },
			want:   []string{`"level":"INFO"`, `"component":"dashboard"`},
		},
		{
			name:   "records below the level are dropped",
			level:  slog.LevelWarn,
			format: "text",
			log: func(l *slog.Logger) {
				l.Info("task started")
				l.Warn("task failed")
			},
			want:     []string{"task failed"},
			dontWant: []string{"task started"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Init(tc.level, tc.format, &buf)
			tc.log(New("dashboard"))

			out := buf.String()
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q: %s", w, out)
				}
			}
			for _, w := range tc.dontWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q: %s", w, out)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDiscard_WritesNothing(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)
	Discard().Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("Discard logger wrote to default handler: %s", buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "text", "json"} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
