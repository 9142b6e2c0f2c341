package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"profiledash/internal/dashboard"
	"profiledash/internal/format"
	"profiledash/internal/page"
)

var dashboardFlags struct {
	format string
	out    string
	policy string
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Fetch the profile once and print the dashboard",
	Long: `Fetch identity, recent projects, XP, audit totals and skills, then print
the dashboard as a standalone HTML page or as terminal/Markdown tables.

With --policy fail-fast (default) the first failing fetch cancels the
others; with best-effort every fetch runs and each failure is shown in
its own region. Either way the command exits non-zero when a fetch failed.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	f := dashboardCmd.Flags()
	f.StringVarP(&dashboardFlags.format, "format", "f", "html", "Output format: html, table or markdown")
	f.StringVarP(&dashboardFlags.out, "out", "o", "", "Write to this file instead of stdout")
	f.StringVar(&dashboardFlags.policy, "policy", "", "Fetch policy: fail-fast or best-effort (overrides config)")
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	render, err := dashboardRenderer(dashboardFlags.format)
	if err != nil {
		return err
	}
	a, err := newApp(appConfig, dashboardFlags.policy, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	regions, loadErr := a.load(cmd.Context())
	if errors.Is(loadErr, dashboard.ErrUnauthenticated) {
		return fmt.Errorf("%w\n\n%s", loadErr, loginHint)
	}

	w, closeOut, err := createOutput(dashboardFlags.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := render(w, regions); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if loadErr != nil {
		return fmt.Errorf("dashboard incomplete: %w", loadErr)
	}
	return nil
}

type regionRenderer func(w io.Writer, regions map[dashboard.Region]dashboard.Content) error

func dashboardRenderer(name string) (regionRenderer, error) {
	if strings.EqualFold(name, "html") {
		return page.WriteRegions, nil
	}
	mode, err := format.ParseMode(name)
	if err != nil {
		return nil, fmt.Errorf("unknown format %q (want html, table or markdown)", name)
	}
	return func(w io.Writer, regions map[dashboard.Region]dashboard.Content) error {
		_, err := io.WriteString(w, format.Regions(regions, mode))
		return err
	}, nil
}
