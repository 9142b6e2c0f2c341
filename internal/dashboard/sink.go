package dashboard

import (
	"sort"
	"sync"

	"profiledash/internal/chart"
)

// Region names a display area of the dashboard.
type Region string

const (
	RegionHeader     Region = "header-username"
	RegionUserID     Region = "user-id"
	RegionLogin      Region = "user-login"
	RegionFirstName  Region = "user-firstname"
	RegionLastName   Region = "user-lastname"
	RegionEmail      Region = "user-email"
	RegionCampus     Region = "user-campus"
	RegionProjects   Region = "projects-list"
	RegionXP         Region = "xp-info"
	RegionAudit      Region = "audit-ratio"
	RegionSkills     Region = "skills-container"
	RegionTechSkills Region = "tech-skills-container"
)

// Regions lists every region in page order.
var Regions = []Region{
	RegionHeader, RegionUserID, RegionLogin, RegionFirstName, RegionLastName,
	RegionEmail, RegionCampus, RegionProjects, RegionXP, RegionAudit,
	RegionSkills, RegionTechSkills,
}

// Content is what a region shows. Markup is a trusted SVG fragment produced
// by this package; Text and Items are plain text.
type Content struct {
	Text   string        `json:"text,omitempty"`
	Items  []string      `json:"items,omitempty"`
	Markup string        `json:"markup,omitempty"`
	Series []chart.Point `json:"series,omitempty"`
	Failed bool          `json:"failed,omitempty"`
}

// Sink receives region updates. Implementations must be safe for
// concurrent use: tasks write their regions in parallel.
type Sink interface {
	Set(region Region, c Content)
}

// MemorySink keeps the latest content of every region.
type MemorySink struct {
	mu      sync.Mutex
	regions map[Region]Content
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{regions: make(map[Region]Content)}
}

func (s *MemorySink) Set(region Region, c Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[region] = c
}

// Get returns the content of region and whether it was ever set.
func (s *MemorySink) Get(region Region) (Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.regions[region]
	return c, ok
}

// Snapshot returns a copy of all regions set so far.
func (s *MemorySink) Snapshot() map[Region]Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Region]Content, len(s.regions))
	for k, v := range s.regions {
		out[k] = v
	}
	return out
}

// Keys returns the regions set so far, in page order; unknown regions follow
// sorted by name.
func (s *MemorySink) Keys() []Region {
	snap := s.Snapshot()
	out := make([]Region, 0, len(snap))
	for _, r := range Regions {
		if _, ok := snap[r]; ok {
			out = append(out, r)
			delete(snap, r)
		}
	}
	rest := make([]Region, 0, len(snap))
	for r := range snap {
		rest = append(rest, r)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}
