package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"profiledash/internal/chart"
	"profiledash/internal/format"
	"profiledash/internal/svg"
)

var renderFlags struct {
	kind        string
	size        float64
	out         string
	format      string
	placeholder string
	title       string
}

var renderCmd = &cobra.Command{
	Use:   "render <series-file|->",
	Short: "Render a series file as an SVG chart",
	Long: `Render a YAML or JSON list of {label, value} points as a radial, bar or
progress chart. Use "-" to read the series from stdin.

Example series file:
  - label: GO
    value: 500
  - label: JS
    value: 1000`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.kind, "kind", "k", "radial", "Chart kind: radial, bar or progress")
	f.Float64Var(&renderFlags.size, "size", 0, "Canvas size: radial side, bar height or progress width (0 = default)")
	f.StringVarP(&renderFlags.out, "out", "o", "", "Write to this file instead of stdout")
	f.StringVarP(&renderFlags.format, "format", "f", "svg", "Output format: svg, table or markdown")
	f.StringVar(&renderFlags.placeholder, "placeholder", "", "Text drawn for an empty series")
	f.StringVar(&renderFlags.title, "title", "Series", "Table title (table and markdown formats)")
}

func runRender(cmd *cobra.Command, args []string) error {
	series, err := readSeries(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	kind, err := chart.ParseKind(renderFlags.kind)
	if err != nil {
		return err
	}
	cfg := chart.DefaultConfig(kind)
	if renderFlags.size < 0 {
		return fmt.Errorf("--size must not be negative, got %v", renderFlags.size)
	}
	if renderFlags.size > 0 {
		cfg.Size = renderFlags.size
	}
	if renderFlags.placeholder != "" {
		cfg.Placeholder = renderFlags.placeholder
	}

	w, closeOut, err := createOutput(renderFlags.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := writeSeries(w, series, cfg); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func writeSeries(w io.Writer, series []chart.Point, cfg chart.Config) error {
	if strings.EqualFold(renderFlags.format, "svg") {
		return svg.Encode(w, chart.Render(series, cfg), appConfig.Theme)
	}
	mode, err := format.ParseMode(renderFlags.format)
	if err != nil {
		return fmt.Errorf("unknown format %q (want svg, table or markdown)", renderFlags.format)
	}
	_, err = io.WriteString(w, format.Series(renderFlags.title, series, mode))
	return err
}

// readSeries parses a YAML or JSON point list from path, or from stdin
// when path is "-".
func readSeries(path string, stdin io.Reader) ([]chart.Point, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}

	var raw []chart.Point
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse series: %w", err)
	}
	series := make([]chart.Point, 0, len(raw))
	for i, p := range raw {
		pt, err := chart.NewPoint(p.Label, p.Value)
		if err != nil {
			return nil, fmt.Errorf("series point %d: %w", i, err)
		}
		series = append(series, pt)
	}
	return series, nil
}
