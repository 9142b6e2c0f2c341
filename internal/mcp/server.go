// Package mcp exposes chart rendering and the dashboard as MCP tools over
// stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"profiledash/internal/chart"
	"profiledash/internal/dashboard"
	"profiledash/internal/display"
	"profiledash/internal/logging"
	"profiledash/internal/snapshot"
	"profiledash/internal/svg"
)

// DashboardFunc loads the current dashboard regions.
type DashboardFunc func(ctx context.Context) (map[dashboard.Region]dashboard.Content, error)

// HistoryFunc lists recorded snapshots of login, newest first.
type HistoryFunc func(ctx context.Context, login string, limit int) ([]snapshot.Snapshot, error)

// Server wraps the MCP SDK server.
type Server struct {
	MCPServer *sdkmcp.Server

	dashboard DashboardFunc
	history   HistoryFunc
	theme     svg.Theme
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDashboard enables get_dashboard.
func WithDashboard(fn DashboardFunc) Option {
	return func(s *Server) { s.dashboard = fn }
}

// WithHistory enables get_history.
func WithHistory(fn HistoryFunc) Option {
	return func(s *Server) { s.history = fn }
}

// WithTheme sets the colours used by render_chart.
func WithTheme(t svg.Theme) Option {
	return func(s *Server) { s.theme = t.Merge() }
}

// NewServer creates an MCP server with the chart and dashboard tools.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{theme: svg.DefaultTheme(), logger: logging.New("mcp")}
	for _, o := range opts {
		o(s)
	}
	s.MCPServer = sdkmcp.NewServer(&sdkmcp.Implementation{Name: "profiledash", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until ctx is cancelled or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "render_chart",
		Description: "Render a series of labelled non-negative values as an SVG chart (radial, bar or progress).",
	}, s.handleRenderChart)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Load the signed-in user's profile dashboard and return the text of every region.",
	}, s.handleGetDashboard)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_history",
		Description: "List recorded dashboard snapshots (XP, audit totals, skills) for a login, newest first.",
	}, s.handleGetHistory)
}

// --- Tool input/output types ---

type pointInput struct {
	Label string  `json:"label" jsonschema:"category label"`
	Value float64 `json:"value" jsonschema:"non-negative value"`
}

type renderChartInput struct {
	Kind   string       `json:"kind,omitempty" jsonschema:"chart kind: radial (default), bar or progress"`
	Size   float64      `json:"size,omitempty" jsonschema:"canvas size: radial side, bar height or progress width"`
	Rings  []float64    `json:"rings,omitempty" jsonschema:"radial guide ring fractions in (0,1]"`
	Points []pointInput `json:"points" jsonschema:"the series to plot, in display order"`
}

type renderChartOutput struct {
	Kind        string  `json:"kind"`
	SVG         string  `json:"svg"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Primitives  int     `json:"primitives"`
	Placeholder bool    `json:"placeholder"`
}

type getDashboardInput struct {
	IncludeMarkup bool `json:"include_markup,omitempty" jsonschema:"include chart SVG markup in the result"`
}

type regionOutput struct {
	Region string        `json:"region"`
	Title  string        `json:"title"`
	Text   string        `json:"text,omitempty"`
	Items  []string      `json:"items,omitempty"`
	Series []chart.Point `json:"series,omitempty"`
	Markup string        `json:"markup,omitempty"`
	Failed bool          `json:"failed,omitempty"`
}

type getDashboardOutput struct {
	Regions []regionOutput `json:"regions"`
	Error   string         `json:"error,omitempty"`
}

type getHistoryInput struct {
	Login string `json:"login,omitempty" jsonschema:"login whose snapshots to list (required)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of snapshots (0 = all)"`
}

type snapshotOutput struct {
	ID         int64         `json:"id"`
	Login      string        `json:"login"`
	TakenAt    string        `json:"taken_at"`
	XP         float64       `json:"xp"`
	AuditUp    float64       `json:"audit_up"`
	AuditDown  float64       `json:"audit_down"`
	Skills     []chart.Point `json:"skills,omitempty"`
	TechSkills []chart.Point `json:"tech_skills,omitempty"`
	Projects   []string      `json:"projects,omitempty"`
}

type getHistoryOutput struct {
	Snapshots []snapshotOutput `json:"snapshots"`
}

// --- Handlers ---

func (s *Server) handleRenderChart(ctx context.Context, _ *sdkmcp.CallToolRequest, input renderChartInput) (*sdkmcp.CallToolResult, renderChartOutput, error) {
	kind := chart.Radial
	if input.Kind != "" {
		k, err := chart.ParseKind(input.Kind)
		if err != nil {
			return nil, renderChartOutput{}, err
		}
		kind = k
	}
	if input.Size < 0 {
		return nil, renderChartOutput{}, fmt.Errorf("size must not be negative, got %v", input.Size)
	}
	cfg := chart.DefaultConfig(kind)
	if input.Size > 0 {
		cfg.Size = input.Size
	}
	if input.Rings != nil {
		cfg.RingFractions = input.Rings
	}

	series := make([]chart.Point, len(input.Points))
	for i, p := range input.Points {
		pt, err := chart.NewPoint(p.Label, p.Value)
		if err != nil {
			return nil, renderChartOutput{}, err
		}
		series[i] = pt
	}

	scene := chart.Render(series, cfg)
	s.logger.DebugContext(ctx, "render_chart", slog.String("kind", kind.String()), slog.Int("points", len(series)))
	return nil, renderChartOutput{
		Kind:        kind.String(),
		SVG:         svg.String(scene, s.theme),
		Width:       scene.ViewBox.W,
		Height:      scene.ViewBox.H,
		Primitives:  len(scene.Primitives),
		Placeholder: scene.IsPlaceholder(),
	}, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, _ *sdkmcp.CallToolRequest, input getDashboardInput) (*sdkmcp.CallToolResult, getDashboardOutput, error) {
	if s.dashboard == nil {
		return nil, getDashboardOutput{}, errors.New("dashboard is not configured")
	}
	regions, err := s.dashboard(ctx)
	if errors.Is(err, dashboard.ErrUnauthenticated) {
		return nil, getDashboardOutput{}, errors.New("not authenticated: run `profiledash login`")
	}

	out := getDashboardOutput{Regions: []regionOutput{}}
	if err != nil {
		// Partial results are still useful; failed regions say why.
		out.Error = err.Error()
	}
	for _, r := range dashboard.Regions {
		c, ok := regions[r]
		if !ok {
			continue
		}
		ro := regionOutput{
			Region: string(r),
			Title:  display.Region(string(r)),
			Text:   c.Text,
			Items:  c.Items,
			Series: c.Series,
			Failed: c.Failed,
		}
		if input.IncludeMarkup {
			ro.Markup = c.Markup
		}
		out.Regions = append(out.Regions, ro)
	}
	return nil, out, nil
}

func (s *Server) handleGetHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, input getHistoryInput) (*sdkmcp.CallToolResult, getHistoryOutput, error) {
	if s.history == nil {
		return nil, getHistoryOutput{}, errors.New("snapshot history is disabled")
	}
	if input.Login == "" {
		return nil, getHistoryOutput{}, errors.New("login is required")
	}
	snaps, err := s.history(ctx, input.Login, input.Limit)
	if err != nil {
		return nil, getHistoryOutput{}, fmt.Errorf("get_history: %w", err)
	}
	out := getHistoryOutput{Snapshots: make([]snapshotOutput, len(snaps))}
	for i, sn := range snaps {
		out.Snapshots[i] = snapshotOutput{
			ID:         sn.ID,
			Login:      sn.Login,
			TakenAt:    sn.TakenAt.UTC().Format(time.RFC3339),
			XP:         sn.XP,
			AuditUp:    sn.AuditUp,
			AuditDown:  sn.AuditDown,
			Skills:     sn.Skills,
			TechSkills: sn.TechSkills,
			Projects:   sn.Projects,
		}
	}
	return nil, out, nil
}
