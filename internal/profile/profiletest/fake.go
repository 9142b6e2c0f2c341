// Package profiletest provides an in-memory profile.Querier for tests.
package profiletest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"profiledash/internal/profile"
)

// Querier answers each query document with canned JSON data or an error.
// Unknown documents fail. It is safe for concurrent use.
type Querier struct {
	mu      sync.Mutex
	data    map[string]string
	errs    map[string]error
	block   map[string]chan struct{}
	calls   map[string]int
	lastVar map[string]map[string]any
}

// New returns an empty Querier.
func New() *Querier {
	return &Querier{
		data:    map[string]string{},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
		calls:   map[string]int{},
		lastVar: map[string]map[string]any{},
	}
}

// Respond sets the "data" JSON returned for query.
func (q *Querier) Respond(query, dataJSON string) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.data[query] = dataJSON
	return q
}

// Fail makes query return err.
func (q *Querier) Fail(query string, err error) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errs[query] = err
	return q
}

// Block makes query wait until release is closed or the context ends.
func (q *Querier) Block(query string, release chan struct{}) *Querier {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.block[query] = release
	return q
}

// Calls returns how many times query was executed.
func (q *Querier) Calls(query string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.calls[query]
}

// Vars returns the variables of the last execution of query.
func (q *Querier) Vars(query string) map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastVar[query]
}

// Execute implements profile.Querier.
func (q *Querier) Execute(ctx context.Context, query string, vars map[string]any, dst any) error {
	q.mu.Lock()
	q.calls[query]++
	q.lastVar[query] = vars
	data, hasData := q.data[query]
	err := q.errs[query]
	release := q.block[query]
	q.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	if !hasData {
		return fmt.Errorf("profiletest: no response for query %q", query)
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal([]byte(data), dst)
}

// Standard fills q with a complete, consistent profile for user 42.
func Standard(q *Querier) *Querier {
	return q.
		Respond(profile.BasicInfoQuery, `{"user":[{"id":42,"login":"jdoe","firstName":"jane","lastName":"doe","email":"jane@example.com","campus":"bahrain"}]}`).
		Respond(profile.LastProjectsQuery, `{"transaction":[{"object":{"type":"project","name":"graphql"}},{"object":{"type":"project","name":"social-network"}}]}`).
		Respond(profile.XPQuery, `{"transaction_aggregate":{"aggregate":{"sum":{"amount":1234567}}}}`).
		Respond(profile.AuditRatioQuery, `{"user":[{"totalUp":2000000,"totalDown":1000000,"auditRatio":2}]}`).
		Respond(profile.SkillsQuery, `{"user":[{"transactions":[{"type":"skill_prog","amount":80},{"type":"skill_go","amount":70},{"type":"skill_prog","amount":60},{"type":"skill_js","amount":50}]}]}`).
		Respond(profile.TechSkillsQuery, `{"user":[{"transactions":[{"type":"skill_go","amount":500},{"type":"skill_js","amount":1000}]}]}`)
}
