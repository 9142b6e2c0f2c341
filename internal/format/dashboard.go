package format

import (
	"math"
	"strings"

	"profiledash/internal/chart"
	"profiledash/internal/dashboard"
	"profiledash/internal/display"
	"profiledash/internal/snapshot"
)

const barWidth = 20

// Regions renders the text of every set region, in page order, followed by
// one series table per chart region.
func Regions(regions map[dashboard.Region]dashboard.Content, m Mode) string {
	tb := NewTable(m)
	tb.Title("Profile")
	tb.Header("Region", "Value", "OK")
	tb.Columns(ColumnConfig{Number: 2, MaxWidth: 60})

	var charts []dashboard.Region
	for _, r := range orderedRegions(regions) {
		c := regions[r]
		tb.Row(display.Region(string(r)), regionText(c), StatusMark(!c.Failed))
		if len(c.Series) > 0 && !c.Failed {
			charts = append(charts, r)
		}
	}

	var b strings.Builder
	b.WriteString(tb.String())
	for _, r := range charts {
		b.WriteString("\n\n")
		b.WriteString(Series(display.Region(string(r)), regions[r].Series, m))
	}
	b.WriteString("\n")
	return b.String()
}

func orderedRegions(regions map[dashboard.Region]dashboard.Content) []dashboard.Region {
	var out []dashboard.Region
	for _, r := range dashboard.Regions {
		if _, ok := regions[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func regionText(c dashboard.Content) string {
	parts := make([]string, 0, 1+len(c.Items))
	if c.Text != "" {
		parts = append(parts, c.Text)
	}
	parts = append(parts, c.Items...)
	return strings.Join(parts, "; ")
}

// Series renders points with a proportional text bar per point.
func Series(title string, points []chart.Point, m Mode) string {
	tb := NewTable(m)
	tb.Title(title)
	tb.Header("Label", "Value", "")
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})

	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Value)
	}
	for _, p := range points {
		tb.Row(p.Label, chart.FormatValue(p.Value), Bar(p.Value, top, barWidth))
	}
	return tb.String()
}

// History renders snapshots, newest first, with the XP change relative to the
// next older row.
func History(snaps []snapshot.Snapshot, m Mode) string {
	tb := NewTable(m)
	tb.Title("History")
	tb.Header("Taken", "Login", "XP", "Δ XP", "Audit Ratio", "Top Skill")
	tb.Columns(
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
	)
	for i, s := range snaps {
		delta := ""
		if i+1 < len(snaps) {
			delta = signedXP(s.XP - snaps[i+1].XP)
		}
		top := ""
		if len(s.Skills) > 0 {
			top = s.Skills[0].Label + " (" + chart.FormatValue(s.Skills[0].Value) + ")"
		}
		tb.Row(s.TakenAt.Local().Format("2006-01-02 15:04"), s.Login, display.XPString(s.XP), delta,
			display.AuditRatio(s.AuditUp, s.AuditDown), top)
	}
	return tb.String()
}

func signedXP(d float64) string {
	switch {
	case d > 0:
		return "+" + display.XPString(d)
	case d < 0:
		return "-" + display.XPString(-d)
	default:
		return "0"
	}
}
