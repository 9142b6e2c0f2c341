// Package display provides human-readable text for dashboard values.
//
// Rule: raw values are for machines, words are for humans.
// Use these functions for region text, tables and tool output.
// Keep raw numbers in snapshots, JSON fields and comparisons.
package display

import (
	"math"
	"strconv"
	"strings"
)

// NA is shown for missing values.
const NA = "N/A"

const (
	NoProjects = "No recent projects found"
	NoSkills   = "No skills data available"
	errPrefix  = "Error loading data: "
)

// --- User Fields ---

// OrNA returns s, or "N/A" when s is empty.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

// IDOrNA returns the decimal id, or "N/A" for the zero id.
func IDOrNA(id int) string {
	if id == 0 {
		return NA
	}
	return strconv.Itoa(id)
}

// Header returns the page header name: the login, or "User".
func Header(login string) string {
	if login == "" {
		return "User"
	}
	return login
}

// Capitalize upper-cases the first letter and lower-cases the rest.
// "bAHRAIN" -> "Bahrain", "" -> "N/A".
func Capitalize(s string) string {
	if s == "" {
		return NA
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// --- Sizes ---

// XP splits an XP amount in bytes into a number and a unit.
// 1234567 -> ("1.23", "MB"), 456700 -> ("457", "kB").
func XP(amount float64) (value, unit string) {
	if amount >= 1_000_000 {
		return fixed(amount/1_000_000, 2), "MB"
	}
	return strconv.FormatFloat(math.Round(amount/1000), 'f', 0, 64), "kB"
}

// XPString returns "1.23 MB" format.
func XPString(amount float64) string {
	v, u := XP(amount)
	return v + " " + u
}

// MB returns bytes as megabytes with two decimals: 2500000 -> "2.50".
func MB(bytes float64) string {
	return fixed(bytes/1_000_000, 2)
}

// AuditRatio returns up/down with one decimal, or "N/A" when nothing was
// received.
func AuditRatio(up, down float64) string {
	if !(down > 0) {
		return NA
	}
	return fixed(up/down, 1)
}

func fixed(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-0") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}

// --- Regions ---

var regions = map[string]string{
	"header-username":       "Header",
	"user-id":               "ID",
	"user-login":            "Login",
	"user-firstname":        "First Name",
	"user-lastname":         "Last Name",
	"user-email":            "Email",
	"user-campus":           "Campus",
	"projects-list":         "Last Projects",
	"xp-info":               "XP",
	"audit-ratio":           "Audit Ratio",
	"skills-container":      "Skills",
	"tech-skills-container": "Technical Skills",
}

// Region returns the title for a region id. Unknown ids are returned as-is.
// "xp-info" -> "XP".
func Region(id string) string {
	if name, ok := regions[id]; ok {
		return name
	}
	return id
}

// ErrorMessage returns the text shown in a region whose data failed to load.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return errPrefix + err.Error()
}

// IsErrorMessage reports whether text was produced by ErrorMessage.
func IsErrorMessage(text string) bool {
	return strings.HasPrefix(text, errPrefix)
}
