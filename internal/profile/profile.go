// Package profile fetches and shapes the data shown on the dashboard.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"profiledash/internal/chart"
)

// DefaultModulePath is the event path XP and projects are counted under.
const DefaultModulePath = "/bahrain/bh-module"

// DefaultSkillLimit is how many top skills the radar shows.
const DefaultSkillLimit = 6

// ErrNoUser is returned when the user query yields no rows.
var ErrNoUser = errors.New("profile: no user in response")

// Querier executes a GraphQL document. *graphql.Client implements it.
type Querier interface {
	Execute(ctx context.Context, query string, vars map[string]any, dst any) error
}

// User is the signed-in user's basic information.
type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Campus    string `json:"campus"`
}

// Project is a recently validated project.
type Project struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Audit holds audit totals in bytes.
type Audit struct {
	TotalUp    float64 `json:"totalUp"`
	TotalDown  float64 `json:"totalDown"`
	AuditRatio float64 `json:"auditRatio"`
}

// Transaction is a typed amount, e.g. {skill_go, 55}.
type Transaction struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Source runs the dashboard queries.
type Source struct {
	q          Querier
	modulePath string
}

// NewSource returns a Source over q. An empty modulePath means DefaultModulePath.
func NewSource(q Querier, modulePath string) *Source {
	if modulePath == "" {
		modulePath = DefaultModulePath
	}
	return &Source{q: q, modulePath: strings.TrimSuffix(modulePath, "/")}
}

// User returns the signed-in user.
func (s *Source) User(ctx context.Context) (*User, error) {
	var out struct {
		User []User `json:"user"`
	}
	if err := s.q.Execute(ctx, BasicInfoQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(out.User) == 0 {
		return nil, ErrNoUser
	}
	return &out.User[0], nil
}

// LastProjects returns the four most recent module projects, newest first.
func (s *Source) LastProjects(ctx context.Context) ([]Project, error) {
	var out struct {
		Transaction []struct {
			Object Project `json:"object"`
		} `json:"transaction"`
	}
	vars := map[string]any{
		"like":       s.modulePath + "%",
		"checkpoint": s.modulePath + "/checkpoint%",
		"piscine":    s.modulePath + "/piscine%",
	}
	if err := s.q.Execute(ctx, LastProjectsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	projects := make([]Project, len(out.Transaction))
	for i, t := range out.Transaction {
		projects[i] = t.Object
	}
	return projects, nil
}

// XP returns the user's total module XP in bytes.
func (s *Source) XP(ctx context.Context, userID int) (float64, error) {
	var out struct {
		Aggregate struct {
			Aggregate struct {
				Sum struct {
					Amount *float64 `json:"amount"`
				} `json:"sum"`
			} `json:"aggregate"`
		} `json:"transaction_aggregate"`
	}
	vars := map[string]any{"userId": userID, "path": s.modulePath}
	if err := s.q.Execute(ctx, XPQuery, vars, &out); err != nil {
		return 0, fmt.Errorf("fetch xp: %w", err)
	}
	if amt := out.Aggregate.Aggregate.Sum.Amount; amt != nil {
		return *amt, nil
	}
	return 0, nil
}

// Audit returns the user's audit totals.
func (s *Source) Audit(ctx context.Context) (*Audit, error) {
	var out struct {
		User []Audit `json:"user"`
	}
	if err := s.q.Execute(ctx, AuditRatioQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch audit: %w", err)
	}
	if len(out.User) == 0 {
		return nil, ErrNoUser
	}
	return &out.User[0], nil
}

// Skills returns the user's strongest skills, at most limit of them.
func (s *Source) Skills(ctx context.Context, limit int) ([]chart.Point, error) {
	txs, err := s.transactions(ctx, SkillsQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch skills: %w", err)
	}
	return TopSkills(txs, limit), nil
}

// TechSkills returns one point per entry of TechSkillTypes.
func (s *Source) TechSkills(ctx context.Context) ([]chart.Point, error) {
	txs, err := s.transactions(ctx, TechSkillsQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch tech skills: %w", err)
	}
	return MapTechSkills(txs), nil
}

func (s *Source) transactions(ctx context.Context, query string) ([]Transaction, error) {
	var out struct {
		User []struct {
			Transactions []Transaction `json:"transactions"`
		} `json:"user"`
	}
	if err := s.q.Execute(ctx, query, nil, &out); err != nil {
		return nil, err
	}
	if len(out.User) == 0 {
		return nil, ErrNoUser
	}
	return out.User[0].Transactions, nil
}
