// Package svg converts chart scenes into SVG markup.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"

	"profiledash/internal/chart"
)

// Theme holds the colours applied per primitive role.
type Theme struct {
	Guide  string `json:"guide" yaml:"guide"`
	Area   string `json:"area" yaml:"area"`
	Accent string `json:"accent" yaml:"accent"`
	Track  string `json:"track" yaml:"track"`
	Text   string `json:"text" yaml:"text"`
}

// DefaultTheme returns the dashboard palette.
func DefaultTheme() Theme {
	return Theme{
		Guide:  "#ddd",
		Area:   "rgba(40, 80, 167, 0.3)",
		Accent: "#0186FE",
		Track:  "#e6e6e6",
		Text:   "#000",
	}
}

// Merge returns t with empty fields taken from DefaultTheme.
func (t Theme) Merge() Theme {
	d := DefaultTheme()
	if t.Guide == "" {
		t.Guide = d.Guide
	}
	if t.Area == "" {
		t.Area = d.Area
	}
	if t.Accent == "" {
		t.Accent = d.Accent
	}
	if t.Track == "" {
		t.Track = d.Track
	}
	if t.Text == "" {
		t.Text = d.Text
	}
	return t
}

// String renders scene as an SVG document fragment.
func String(scene chart.Scene, theme Theme) string {
	var buf bytes.Buffer
	// Encoding into a bytes.Buffer cannot fail.
	_ = Encode(&buf, scene, theme)
	return buf.String()
}

// Encode writes scene as a single <svg> element to w.
func Encode(w io.Writer, scene chart.Scene, theme Theme) error {
	theme = theme.Merge()
	ew := &errWriter{w: w}
	vb := scene.ViewBox
	// svgo's Start variants emit an XML prolog; the markup is inlined into HTML.
	fmt.Fprintf(ew, "<svg %s>\n", strings.Join([]string{
		attr("xmlns", "http://www.w3.org/2000/svg"),
		attr("class", "chart chart-"+scene.Kind.String()),
		attr("width", num(vb.W)),
		attr("height", num(vb.H)),
		attr("viewBox", strings.Join([]string{num(vb.X), num(vb.Y), num(vb.W), num(vb.H)}, " ")),
	}, " "))

	canvas := svgo.New(ew)
	for i, p := range scene.Primitives {
		if err := drawPrimitive(canvas, scene.Kind, p, theme); err != nil {
			return fmt.Errorf("svg: primitive %d: %w", i, err)
		}
	}
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("svg: write: %w", ew.err)
	}
	return nil
}

func drawPrimitive(canvas *svgo.SVG, kind chart.Kind, p chart.Primitive, theme Theme) error {
	switch v := p.(type) {
	case chart.Circle:
		if v.Role == chart.RoleMarker {
			canvas.Circle(v.Center.X, v.Center.Y, v.R, attr("fill", theme.Accent))
			return nil
		}
		canvas.Circle(v.Center.X, v.Center.Y, v.R,
			attr("fill", "none"), attr("stroke", theme.Guide), attr("stroke-width", "1"))
	case chart.Line:
		canvas.Line(v.From.X, v.From.Y, v.To.X, v.To.Y, attr("stroke", theme.Guide), attr("stroke-width", "1"))
	case chart.Polygon:
		if len(v.Points) == 0 {
			return nil
		}
		xs := make([]float64, len(v.Points))
		ys := make([]float64, len(v.Points))
		for i, pt := range v.Points {
			xs[i], ys[i] = pt.X, pt.Y
		}
		canvas.Polygon(xs, ys, attr("fill", theme.Area), attr("stroke", theme.Accent), attr("stroke-width", "2"))
	case chart.Rect:
		fill, class := theme.Accent, "bar-fill"
		if v.Role == chart.RoleTrack {
			fill, class = theme.Track, "bar-bg"
		}
		if v.Radius > 0 {
			canvas.Roundrect(v.Min.X, v.Min.Y, v.W, v.H, v.Radius, v.Radius, attr("class", class), attr("fill", fill))
			return nil
		}
		canvas.Rect(v.Min.X, v.Min.Y, v.W, v.H, attr("class", class), attr("fill", fill))
	case chart.Text:
		attrs := []string{attr("class", "chart-"+v.Role.String()), attr("text-anchor", string(v.Anchor)), attr("fill", theme.Text)}
		if kind != chart.Bar {
			attrs = append(attrs, attr("dominant-baseline", "middle"))
		}
		canvas.Text(v.At.X, v.At.Y, v.Value, attrs...)
	default:
		return fmt.Errorf("unsupported primitive %T", p)
	}
	return nil
}

// attr formats one name="value" pair for svgo's style arguments.
func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

// errWriter keeps the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// num prints a coordinate with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
