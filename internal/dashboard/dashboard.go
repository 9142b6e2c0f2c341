// Package dashboard loads the signed-in user's profile and writes it, region
// by region, into a Sink.
//
// The user is fetched first; its id feeds the XP query. The remaining
// fetches run in parallel, each owning one region and reporting a tagged
// TaskResult. Every fetch settles; Policy decides whether Run reports the
// first failure or all of them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"profiledash/internal/auth"
	"profiledash/internal/chart"
	"profiledash/internal/display"
	"profiledash/internal/graphql"
	"profiledash/internal/logging"
	"profiledash/internal/profile"
	"profiledash/internal/svg"
)

// ErrUnauthenticated means there is no valid session; the caller should send
// the user to the login surface.
var ErrUnauthenticated = errors.New("dashboard: not authenticated")

// Policy selects how task failures are aggregated.
type Policy string

const (
	// FailFast returns the first task failure once every task has settled.
	FailFast Policy = "fail-fast"
	// BestEffort runs every task and returns all failures joined.
	BestEffort Policy = "best-effort"
)

// ParsePolicy accepts "fail-fast" and "best-effort". Empty means FailFast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", FailFast:
		return FailFast, nil
	case BestEffort:
		return BestEffort, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %s or %s)", s, FailFast, BestEffort)
	}
}

// Task names.
const (
	TaskUser       = "user"
	TaskProjects   = "projects"
	TaskAudit      = "audit"
	TaskSkills     = "skills"
	TaskXP         = "xp"
	TaskTechSkills = "tech-skills"
)

// TaskResult is the outcome of one fetch task.
type TaskResult struct {
	Task   string
	Region Region
	Err    error
}

// Report collects the raw data and task outcomes of one Run.
type Report struct {
	Policy     Policy
	StartedAt  time.Time
	Duration   time.Duration
	User       *profile.User
	Projects   []profile.Project
	XP         float64
	Audit      *profile.Audit
	Skills     []chart.Point
	TechSkills []chart.Point
	Results    []TaskResult
}

// Failed returns the results whose task did not succeed.
func (r *Report) Failed() []TaskResult {
	var out []TaskResult
	for _, tr := range r.Results {
		if tr.Err != nil {
			out = append(out, tr)
		}
	}
	return out
}

// Recorder persists a successful Report, e.g. into the snapshot history.
type Recorder interface {
	Record(ctx context.Context, r *Report) error
}

// Settings controls what the dashboard fetches and how it draws it.
type Settings struct {
	Policy     Policy
	SkillLimit int
	Skills     chart.Config
	TechSkills chart.Config
	Audit      chart.Config
	Theme      svg.Theme
}

// DefaultSettings returns fail-fast, a six-point skills radar, a tech-skills
// bar chart and audit progress bars.
func DefaultSettings() Settings {
	skills := chart.DefaultConfig(chart.Radial)
	skills.Placeholder = display.NoSkills
	return Settings{
		Policy:     FailFast,
		SkillLimit: profile.DefaultSkillLimit,
		Skills:     skills,
		TechSkills: chart.DefaultConfig(chart.Bar),
		Audit:      chart.DefaultConfig(chart.Progress),
		Theme:      svg.DefaultTheme(),
	}
}

// Dashboard runs the profile fetches against one identity.
type Dashboard struct {
	identity   auth.Provider
	source     *profile.Source
	settings   Settings
	terminator auth.Terminator
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithTerminator sets what ends the session when the server rejects the token.
func WithTerminator(t auth.Terminator) Option {
	return func(d *Dashboard) { d.terminator = t }
}

// WithRecorder stores every fully successful Report.
func WithRecorder(r Recorder) Option {
	return func(d *Dashboard) { d.recorder = r }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = l }
}

// New returns a Dashboard reading through source on behalf of identity.
func New(identity auth.Provider, source *profile.Source, settings Settings, opts ...Option) *Dashboard {
	if settings.Policy == "" {
		settings.Policy = FailFast
	}
	d := &Dashboard{
		identity: identity,
		source:   source,
		settings: settings,
		logger:   logging.New("dashboard"),
		now:      time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

type task struct {
	name   string
	region Region
	run    func(ctx context.Context) (Content, error)
}

// Run loads the dashboard into sink. It returns ErrUnauthenticated (wrapped)
// when there is no session or the server rejects the token; in that case the
// Terminator has been invoked and no region was written by the failing call.
// Data failures are shown in their region and returned per Policy.
func (d *Dashboard) Run(ctx context.Context, sink Sink) (*Report, error) {
	if !d.identity.IsAuthenticated() {
		d.logger.WarnContext(ctx, "no valid session")
		return nil, ErrUnauthenticated
	}

	report := &Report{Policy: d.settings.Policy, StartedAt: d.now()}
	defer func() { report.Duration = d.now().Sub(report.StartedAt) }()

	user, err := d.source.User(ctx)
	report.Results = append(report.Results, TaskResult{Task: TaskUser, Region: RegionHeader, Err: err})
	if err != nil {
		if graphql.IsAuth(err) {
			return report, d.endSession(ctx, err)
		}
		d.logger.ErrorContext(ctx, "user fetch failed", slog.Any("error", err))
		for _, r := range Regions {
			sink.Set(r, failed(err))
		}
		return report, fmt.Errorf("dashboard: %w", err)
	}
	report.User = user
	for r, c := range userContent(user) {
		sink.Set(r, c)
	}

	results, err := d.fanOut(ctx, sink, d.tasks(user, report))
	report.Results = append(report.Results, results...)
	if err != nil {
		if graphql.IsAuth(err) {
			return report, d.endSession(ctx, err)
		}
		return report, fmt.Errorf("dashboard: %w", err)
	}

	d.logger.InfoContext(ctx, "dashboard loaded",
		slog.String("login", user.Login),
		slog.Int("tasks", len(report.Results)),
		slog.Duration("elapsed", d.now().Sub(report.StartedAt)))

	if d.recorder != nil {
		if rerr := d.recorder.Record(ctx, report); rerr != nil {
			d.logger.WarnContext(ctx, "snapshot not recorded", slog.Any("error", rerr))
		}
	}
	return report, nil
}

func (d *Dashboard) tasks(user *profile.User, report *Report) []task {
	s := d.settings
	return []task{
		{TaskProjects, RegionProjects, func(ctx context.Context) (Content, error) {
			projects, err := d.source.LastProjects(ctx)
			if err != nil {
				return Content{}, err
			}
			report.Projects = projects
			return projectsContent(projects), nil
		}},
		{TaskAudit, RegionAudit, func(ctx context.Context) (Content, error) {
			a, err := d.source.Audit(ctx)
			if err != nil {
				return Content{}, err
			}
			report.Audit = a
			return auditContent(a, s.Audit, s.Theme), nil
		}},
		{TaskSkills, RegionSkills, func(ctx context.Context) (Content, error) {
			points, err := d.source.Skills(ctx, s.SkillLimit)
			if err != nil {
				return Content{}, err
			}
			report.Skills = points
			return ChartContent(points, s.Skills, s.Theme, true), nil
		}},
		{TaskXP, RegionXP, func(ctx context.Context) (Content, error) {
			xp, err := d.source.XP(ctx, user.ID)
			if err != nil {
				return Content{}, err
			}
			report.XP = xp
			return xpContent(xp), nil
		}},
		{TaskTechSkills, RegionTechSkills, func(ctx context.Context) (Content, error) {
			points, err := d.source.TechSkills(ctx)
			if err != nil {
				return Content{}, err
			}
			report.TechSkills = points
			return ChartContent(points, s.TechSkills, s.Theme, false), nil
		}},
	}
}

// fanOut runs tasks in parallel. Results are indexed like tasks. Every task
// settles and writes its own region; only the returned error depends on
// Policy.
func (d *Dashboard) fanOut(ctx context.Context, sink Sink, tasks []task) ([]TaskResult, error) {
	results := make([]TaskResult, len(tasks))

	var g errgroup.Group
	for i, t := range tasks {
		g.Go(func() error {
			c, err := t.run(ctx)
			results[i] = TaskResult{Task: t.name, Region: t.region, Err: err}
			if err == nil {
				sink.Set(t.region, c)
				return nil
			}
			if !graphql.IsAuth(err) {
				sink.Set(t.region, failed(err))
			}
			d.logger.WarnContext(ctx, "task failed", slog.String("task", t.name), slog.Any("error", err))
			return fmt.Errorf("%s: %w", t.name, err)
		})
	}
	first := g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		err := fmt.Errorf("%s: %w", r.Task, r.Err)
		if graphql.IsAuth(r.Err) {
			return results, err
		}
		errs = append(errs, err)
	}
	if d.settings.Policy == BestEffort {
		return results, errors.Join(errs...)
	}
	return results, first
}

func (d *Dashboard) endSession(ctx context.Context, cause error) error {
	d.logger.WarnContext(ctx, "session rejected, logging out", slog.Any("error", cause))
	if d.terminator != nil {
		if err := d.terminator.Logout(); err != nil {
			d.logger.ErrorContext(ctx, "logout failed", slog.Any("error", err))
		}
	}
	return fmt.Errorf("%w: %v", ErrUnauthenticated, cause)
}
