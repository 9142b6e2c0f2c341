package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"profiledash/internal/auth"
	"profiledash/internal/config"
	"profiledash/internal/dashboard"
	"profiledash/internal/graphql"
	"profiledash/internal/logging"
	"profiledash/internal/profile"
	"profiledash/internal/snapshot"
)

const loginHint = "Sign in first:  profiledash login --user <login>\n" +
	"or export " + config.EnvToken + "=<jwt>"

// app is the dashboard wiring shared by dashboard, serve and mcp.
type app struct {
	cfg     *config.Config
	files   *auth.FileStore // nil when the token comes from the environment
	dash    *dashboard.Dashboard
	history *snapshot.Store // nil when history is disabled or unavailable
	logger  *slog.Logger
}

// tokenStore returns the FileStore for the configured token path and warns
// when it is readable by group or others.
func tokenStore(cfg *config.Config, stderr io.Writer) (*auth.FileStore, error) {
	path, err := cfg.TokenPath()
	if err != nil {
		return nil, err
	}
	fs := auth.NewFileStore(path)
	if fs.Insecure() {
		fmt.Fprintf(stderr, "WARNING: %s is readable by group/others. Run: chmod 600 %s\n", path, path)
	}
	return fs, nil
}

// newApp builds the dashboard for cfg. policy overrides cfg.Policy when set.
func newApp(cfg *config.Config, policy string, stderr io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: logging.New("cli")}

	var identity auth.Provider
	if cfg.Token != "" {
		identity = auth.NewStatic(cfg.Token)
	} else {
		fs, err := tokenStore(cfg, stderr)
		if err != nil {
			return nil, err
		}
		a.files = fs
		identity = fs
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	client, err := graphql.New(cfg.Endpoint, identity,
		graphql.WithTimeout(timeout),
		graphql.WithLogger(logging.New("graphql")),
	)
	if err != nil {
		return nil, err
	}

	settings, err := cfg.DashboardSettings()
	if err != nil {
		return nil, err
	}
	if policy != "" {
		if settings.Policy, err = dashboard.ParsePolicy(policy); err != nil {
			return nil, err
		}
	}

	opts := []dashboard.Option{dashboard.WithLogger(logging.New("dashboard"))}
	if a.files != nil {
		opts = append(opts, dashboard.WithTerminator(a.files))
	}
	if cfg.Snapshot.Enabled {
		if st, err := openHistory(cfg); err != nil {
			a.logger.Warn("snapshot history disabled", slog.Any("error", err))
		} else {
			a.history = st
			opts = append(opts, dashboard.WithRecorder(st))
		}
	}

	a.dash = dashboard.New(identity, profile.NewSource(client, cfg.ModulePath), settings, opts...)
	return a, nil
}

func openHistory(cfg *config.Config) (*snapshot.Store, error) {
	path, err := cfg.SnapshotPath()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(path)
}

// load runs the dashboard once and returns every region written.
func (a *app) load(ctx context.Context) (map[dashboard.Region]dashboard.Content, error) {
	sink := dashboard.NewMemorySink()
	_, err := a.dash.Run(ctx, sink)
	return sink.Snapshot(), err
}

func (a *app) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}

// createOutput returns stdout when path is empty, else the created file.
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
