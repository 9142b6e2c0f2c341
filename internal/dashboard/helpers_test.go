package dashboard

import (
	"context"
	"sync"

	"profiledash/internal/auth"
	"profiledash/internal/logging"
	"profiledash/internal/profile"
	"profiledash/internal/profile/profiletest"
)

type fakeTerminator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTerminator) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeTerminator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRecorder struct {
	mu      sync.Mutex
	reports []*Report
}

func (f *fakeRecorder) Record(_ context.Context, r *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeRecorder) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

type fixture struct {
	q    *profiletest.Querier
	term *fakeTerminator
	rec  *fakeRecorder
	sink *MemorySink
}

func newFixture() *fixture {
	return &fixture{
		q:    profiletest.Standard(profiletest.New()),
		term: &fakeTerminator{},
		rec:  &fakeRecorder{},
		sink: NewMemorySink(),
	}
}

func (f *fixture) dashboard(token string, settings Settings) *Dashboard {
	return New(auth.NewStatic(token), profile.NewSource(f.q, ""), settings,
		WithTerminator(f.term),
		WithRecorder(f.rec),
		WithLogger(logging.Discard()))
}

func (f *fixture) run(settings Settings) (*Report, error) {
	return f.dashboard("token", settings).Run(context.Background(), f.sink)
}

func (f *fixture) region(r Region) Content {
	c, _ := f.sink.Get(r)
	return c
}
