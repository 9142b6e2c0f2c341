// Package chart computes chart geometry for labelled numeric series.
//
// Render turns a series and a Config into a Scene: a flat list of positioned
// primitives (circles, lines, polygons, rectangles, text) with resolved pixel
// coordinates. The package performs no I/O and knows nothing about SVG or
// HTML; see package svg for markup.
//
//	scene := chart.Render(series, chart.DefaultConfig(chart.Radial))
//	markup := svg.String(scene, svg.DefaultTheme())
package chart

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the chart layout.
type Kind int

const (
	Radial   Kind = iota // polygon over concentric guide rings
	Bar                  // vertical bars on a shared baseline
	Progress             // one horizontal track per point
)

var kindNames = map[Kind]string{
	Radial:   "radial",
	Bar:      "bar",
	Progress: "progress",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps "radial", "radar", "bar" or "progress" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radial", "radar":
		return Radial, nil
	case "bar":
		return Bar, nil
	case "progress":
		return Progress, nil
	default:
		return Radial, fmt.Errorf("chart: unknown kind %q (want radial, bar or progress)", s)
	}
}

// Point is one labelled value of a series. Value is never negative.
type Point struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// NewPoint returns a Point, rejecting negative, NaN and infinite values.
func NewPoint(label string, value float64) (Point, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Point{}, fmt.Errorf("chart: point %q: value is not finite", label)
	}
	if value < 0 {
		return Point{}, fmt.Errorf("chart: point %q: negative value %v", label, value)
	}
	return Point{Label: label, Value: value}, nil
}

// Default layout values.
const (
	DefaultRadialSize   = 400.0
	DefaultBarHeight    = 300.0
	DefaultTrackWidth   = 300.0
	DefaultLabelOffset  = 40.0
	DefaultMarkerRadius = 4.0
	DefaultBarWidth     = 50.0
	DefaultBarGap       = 10.0
	DefaultRowHeight    = 46.0

	// None requests zero spacing for LabelOffset or BarGap, whose zero
	// value means "use the default".
	None = -1.0
	DefaultPlaceholder  = "No data available"

	// radiusFraction is the share of Size used as the radial chart radius.
	radiusFraction = 0.3
)

// DefaultRings are the guide ring fractions of the radial chart.
var DefaultRings = []float64{0.2, 0.4, 0.6, 0.8, 1.0}

// Config governs layout and scale guides. It never owns data.
//
// Size is the canvas extent for Radial, the chart height for Bar and the
// track width for Progress. Zero-valued fields take the defaults above; a
// negative LabelOffset or BarGap (see None) means no spacing at all.
type Config struct {
	Size          float64
	Kind          Kind
	RingFractions []float64

	LabelOffset  float64
	MarkerRadius float64
	BarWidth     float64
	BarGap       float64
	RowHeight    float64
	Placeholder  string
}

// DefaultConfig returns the layout the dashboard uses for k.
func DefaultConfig(k Kind) Config {
	c := Config{Kind: k}
	if k == Radial {
		c.RingFractions = append([]float64(nil), DefaultRings...)
	}
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	if !(c.Size > 0) || math.IsInf(c.Size, 0) {
		switch c.Kind {
		case Bar:
			c.Size = DefaultBarHeight
		case Progress:
			c.Size = DefaultTrackWidth
		default:
			c.Size = DefaultRadialSize
		}
	}
	switch {
	case c.LabelOffset < 0:
		c.LabelOffset = 0
	case c.LabelOffset == 0:
		c.LabelOffset = DefaultLabelOffset
	}
	if c.MarkerRadius <= 0 {
		c.MarkerRadius = DefaultMarkerRadius
	}
	if c.BarWidth <= 0 {
		c.BarWidth = DefaultBarWidth
	}
	switch {
	case c.BarGap < 0:
		c.BarGap = 0
	case c.BarGap == 0:
		c.BarGap = DefaultBarGap
	}
	if c.RowHeight <= 0 {
		c.RowHeight = DefaultRowHeight
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	return c
}

// Radius returns the radial chart radius for c.
func (c Config) Radius() float64 {
	return c.withDefaults().Size * radiusFraction
}
