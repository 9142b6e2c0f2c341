package chart

import (
	"math"
	"sort"
	"strconv"
)

const (
	// angleEpsilon is the tolerance for treating an angle as exactly ±π/2.
	angleEpsilon = 1e-9

	barValueLift    = 5.0
	barLabelLift    = 20.0
	barLabelMargin  = 30.0
	progressCaption = 16.0
	progressBar     = 20.0
	progressRadius  = 5.0
)

// Render computes the scene for series under cfg. It never fails: an empty
// series yields a placeholder scene and a zero maximum is replaced by 1 so
// no coordinate becomes NaN or Inf.
func Render(series []Point, cfg Config) Scene {
	cfg = cfg.withDefaults()
	switch cfg.Kind {
	case Bar:
		return renderBar(series, cfg)
	case Progress:
		return renderProgress(series, cfg)
	default:
		return renderRadial(series, cfg)
	}
}

// Angle returns the radial angle of point i of n: the first point sits at the
// top and the rest follow clockwise.
func Angle(i, n int) float64 {
	return float64(i)*2*math.Pi/float64(n) - math.Pi/2
}

// AnchorFor returns the label alignment for a radial angle.
func AnchorFor(theta float64) Anchor {
	abs := math.Abs(theta)
	switch {
	case math.Abs(abs-math.Pi/2) < angleEpsilon:
		return AnchorMiddle
	case abs > math.Pi/2:
		return AnchorEnd
	default:
		return AnchorStart
	}
}

// scaleMax returns the largest finite non-negative value, or 1 when it is 0.
func scaleMax(series []Point) float64 {
	m := 0.0
	for _, p := range series {
		if v := clean(p.Value); v > m {
			m = v
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func placeholder(cfg Config, w, h float64) Scene {
	return Scene{
		Kind:    cfg.Kind,
		ViewBox: ViewBox{W: w, H: h},
		Primitives: []Primitive{
			Text{At: Vec{X: w / 2, Y: h / 2}, Value: cfg.Placeholder, Anchor: AnchorMiddle, Role: RolePlaceholder},
		},
	}
}

func renderRadial(series []Point, cfg Config) Scene {
	size := cfg.Size
	if len(series) == 0 {
		return placeholder(cfg, size, size)
	}

	n := len(series)
	m := scaleMax(series)
	center := Vec{X: size / 2, Y: size / 2}
	radius := size * radiusFraction
	at := func(r, theta float64) Vec {
		return Vec{X: center.X + r*math.Cos(theta), Y: center.Y + r*math.Sin(theta)}
	}

	// 1 polygon plus rings, axes, markers and labels.
	prims := make([]Primitive, 0, len(cfg.RingFractions)+3*n+1)

	rings := append([]float64(nil), cfg.RingFractions...)
	sort.Float64s(rings)
	for _, f := range rings {
		if !(f > 0) || f > 1 {
			continue
		}
		prims = append(prims, Circle{Center: center, R: f * radius, Role: RoleGuide})
	}

	for i := range series {
		prims = append(prims, Line{From: center, To: at(radius, Angle(i, n)), Role: RoleGuide})
	}

	vertices := make([]Vec, n)
	for i, p := range series {
		vertices[i] = at(clean(p.Value)/m*radius, Angle(i, n))
	}
	prims = append(prims, Polygon{Points: vertices, Role: RoleData})

	for _, v := range vertices {
		prims = append(prims, Circle{Center: v, R: cfg.MarkerRadius, Role: RoleMarker})
	}

	for i, p := range series {
		theta := Angle(i, n)
		prims = append(prims, Text{
			At:     at(radius+cfg.LabelOffset, theta),
			Value:  p.Label,
			Anchor: AnchorFor(theta),
			Role:   RoleLabel,
		})
	}

	return Scene{Kind: Radial, ViewBox: ViewBox{W: size, H: size}, Primitives: prims}
}

func renderBar(series []Point, cfg Config) Scene {
	height := cfg.Size
	step := cfg.BarWidth + cfg.BarGap
	if len(series) == 0 {
		return placeholder(cfg, step, height)
	}

	m := scaleMax(series)
	width := float64(len(series)) * step
	prims := make([]Primitive, 0, 3*len(series))
	for i, p := range series {
		h := clean(p.Value) * (height / m)
		x := float64(i) * step
		y := height - h
		mid := x + cfg.BarWidth/2
		prims = append(prims,
			Rect{Min: Vec{X: x, Y: y}, W: cfg.BarWidth, H: h, Role: RoleData},
			Text{At: Vec{X: mid, Y: y - barValueLift}, Value: FormatValue(p.Value), Anchor: AnchorMiddle, Role: RoleValue},
			Text{At: Vec{X: mid, Y: y - barLabelLift}, Value: p.Label, Anchor: AnchorMiddle, Role: RoleLabel},
		)
	}

	return Scene{
		Kind:       Bar,
		ViewBox:    ViewBox{X: 0, Y: -barLabelMargin, W: width, H: height + barLabelMargin},
		Primitives: prims,
	}
}

func renderProgress(series []Point, cfg Config) Scene {
	width := cfg.Size
	if len(series) == 0 {
		return placeholder(cfg, width, cfg.RowHeight)
	}

	m := scaleMax(series)
	prims := make([]Primitive, 0, 3*len(series))
	for i, p := range series {
		top := float64(i) * cfg.RowHeight
		barTop := top + progressCaption
		prims = append(prims,
			Text{At: Vec{X: 0, Y: top + progressCaption/2}, Value: p.Label, Anchor: AnchorStart, Role: RoleLabel},
			Rect{Min: Vec{X: 0, Y: barTop}, W: width, H: progressBar, Radius: progressRadius, Role: RoleTrack},
			Rect{Min: Vec{X: 0, Y: barTop}, W: clean(p.Value) / m * width, H: progressBar, Radius: progressRadius, Role: RoleData},
		)
	}

	return Scene{
		Kind:       Progress,
		ViewBox:    ViewBox{W: width, H: float64(len(series)) * cfg.RowHeight},
		Primitives: prims,
	}
}

// FormatValue prints v without trailing zeros ("500", "12.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(clean(v), 'f', -1, 64)
}
