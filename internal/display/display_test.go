package display

import (
	"errors"
	"testing"
)

func TestOrNA(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"jdoe", "jdoe"},
		{"", "N/A"},
		{"   ", "N/A"},
	}
	for _, tc := range cases {
		if got := OrNA(tc.in); got != tc.want {
			t.Errorf("OrNA(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := IDOrNA(0); got != "N/A" {
		t.Errorf("IDOrNA(0) = %q", got)
	}
	if got := IDOrNA(42); got != "42" {
		t.Errorf("IDOrNA(42) = %q", got)
	}
}

func TestHeader(t *testing.T) {
	if got := Header(""); got != "User" {
		t.Errorf("got %q", got)
	}
	if got := Header("jdoe"); got != "jdoe" {
		t.Errorf("got %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"bAHRAIN", "Bahrain"},
		{"x", "X"},
		{"élan", "Élan"},
		{"", "N/A"},
	}
	for _, tc := range cases {
		if got := Capitalize(tc.in); got != tc.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestXP(t *testing.T) {
	cases := []struct {
		amount     float64
		value, unit string
	}{
		{1_234_567, "1.23", "MB"},
		{1_000_000, "1.00", "MB"},
		{999_999, "1000", "kB"},
		{456_700, "457", "kB"},
		{400, "0", "kB"},
		{0, "0", "kB"},
	}
	for _, tc := range cases {
		v, u := XP(tc.amount)
		if v != tc.value || u != tc.unit {
			t.Errorf("XP(%v) = (%q, %q), want (%q, %q)", tc.amount, v, u, tc.value, tc.unit)
		}
	}
	if got := XPString(2_500_000); got != "2.50 MB" {
		t.Errorf("XPString = %q", got)
	}
}

func TestMB(t *testing.T) {
	if got := MB(2_500_000); got != "2.50" {
		t.Errorf("got %q", got)
	}
	if got := MB(0); got != "0.00" {
		t.Errorf("got %q", got)
	}
}

func TestAuditRatio(t *testing.T) {
	cases := []struct {
		up, down float64
		want     string
	}{
		{2_000_000, 1_000_000, "2.0"},
		{1_260_000, 1_000_000, "1.3"},
		{1, 3, "0.3"},
		{5, 0, "N/A"},
		{0, 0, "N/A"},
	}
	for _, tc := range cases {
		if got := AuditRatio(tc.up, tc.down); got != tc.want {
			t.Errorf("AuditRatio(%v, %v) = %q, want %q", tc.up, tc.down, got, tc.want)
		}
	}
}

func TestRegion(t *testing.T) {
	if got := Region("tech-skills-container"); got != "Technical Skills" {
		t.Errorf("got %q", got)
	}
	if got := Region("unknown"); got != "unknown" {
		t.Errorf("got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	msg := ErrorMessage(errors.New("Failed to fetch data"))
	if msg != "Error loading data: Failed to fetch data" {
		t.Errorf("got %q", msg)
	}
	if !IsErrorMessage(msg) {
		t.Error("IsErrorMessage should recognise its own output")
	}
	if ErrorMessage(nil) != "" {
		t.Error("nil error should produce no message")
	}
}
