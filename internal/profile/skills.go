package profile

import (
	"strings"

	"profiledash/internal/chart"
)

// TechSkill maps a display name to its transaction type.
type TechSkill struct {
	Name string
	Type string
}

// TechSkillTypes is the fixed, ordered set of technologies on the tech chart.
var TechSkillTypes = []TechSkill{
	{Name: "go", Type: "skill_go"},
	{Name: "javascript", Type: "skill_js"},
	{Name: "html", Type: "skill_html"},
	{Name: "css", Type: "skill_css"},
	{Name: "unix", Type: "skill_unix"},
	{Name: "docker", Type: "skill_docker"},
	{Name: "sql", Type: "skill_sql"},
}

// SkillName strips the "skill_" prefix: "skill_prog" -> "prog".
func SkillName(txType string) string {
	return strings.TrimPrefix(txType, "skill_")
}

// TopSkills keeps the first transaction of each type, in input order, and
// returns at most limit of them. Input is expected in descending amount
// order so the first occurrence is the best one. limit <= 0 means no limit.
func TopSkills(txs []Transaction, limit int) []chart.Point {
	seen := make(map[string]bool, len(txs))
	var out []chart.Point
	for _, t := range txs {
		if seen[t.Type] {
			continue
		}
		seen[t.Type] = true
		out = append(out, chart.Point{Label: SkillName(t.Type), Value: nonNegative(t.Amount)})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// MapTechSkills returns one point per TechSkillTypes entry, labelled with the
// upper-cased name. The first matching transaction supplies the value;
// technologies without one get 0.
func MapTechSkills(txs []Transaction) []chart.Point {
	out := make([]chart.Point, len(TechSkillTypes))
	for i, ts := range TechSkillTypes {
		out[i] = chart.Point{Label: strings.ToUpper(ts.Name)}
		for _, t := range txs {
			if t.Type == ts.Type {
				out[i].Value = nonNegative(t.Amount)
				break
			}
		}
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
