package chart

// Role tells a display layer what a primitive represents.
type Role int

const (
	RoleGuide       Role = iota // scale rings and axes
	RoleData                    // data polygon, bars, progress fill
	RoleMarker                  // vertex markers
	RoleLabel                   // category labels
	RoleValue                   // numeric value labels
	RoleTrack                   // progress background track
	RolePlaceholder             // "no data" text
)

var roleNames = [...]string{"guide", "data", "marker", "label", "value", "track", "placeholder"}

func (r Role) String() string {
	if int(r) >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Anchor is the horizontal alignment of a Text.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Vec is a point in canvas pixels; y grows downwards.
type Vec struct {
	X, Y float64
}

// Primitive is one drawable element of a Scene: Circle, Line, Polygon, Rect
// or Text.
type Primitive interface {
	role() Role
}

type Circle struct {
	Center Vec
	R      float64
	Role   Role
}

type Line struct {
	From, To Vec
	Role     Role
}

// Polygon is closed: the last vertex connects back to the first.
type Polygon struct {
	Points []Vec
	Role   Role
}

// Rect is positioned by its top-left corner.
type Rect struct {
	Min    Vec
	W, H   float64
	Radius float64
	Role   Role
}

type Text struct {
	At     Vec
	Value  string
	Anchor Anchor
	Role   Role
}

func (c Circle) role() Role  { return c.Role }
func (l Line) role() Role    { return l.Role }
func (p Polygon) role() Role { return p.Role }
func (r Rect) role() Role    { return r.Role }
func (t Text) role() Role    { return t.Role }

// RoleOf returns the role of p.
func RoleOf(p Primitive) Role { return p.role() }

// ViewBox is the visible canvas region. Y may be negative when labels sit
// above the chart's own coordinate range.
type ViewBox struct {
	X, Y, W, H float64
}

// Scene is the output of Render. It is built fresh on every call and is
// owned by the caller.
type Scene struct {
	Kind       Kind
	ViewBox    ViewBox
	Primitives []Primitive
}

// IsPlaceholder reports whether the scene is the "no data" scene.
func (s Scene) IsPlaceholder() bool {
	return len(s.Primitives) == 1 && RoleOf(s.Primitives[0]) == RolePlaceholder
}

// Circles returns the circles with the given role, in emission order.
func (s Scene) Circles(r Role) []Circle { return collect[Circle](s, r) }

// Lines returns the lines with the given role, in emission order.
func (s Scene) Lines(r Role) []Line { return collect[Line](s, r) }

// Polygons returns the polygons with the given role, in emission order.
func (s Scene) Polygons(r Role) []Polygon { return collect[Polygon](s, r) }

// Rects returns the rectangles with the given role, in emission order.
func (s Scene) Rects(r Role) []Rect { return collect[Rect](s, r) }

// Texts returns the texts with the given role, in emission order.
func (s Scene) Texts(r Role) []Text { return collect[Text](s, r) }

func collect[T Primitive](s Scene, r Role) []T {
	var out []T
	for _, p := range s.Primitives {
		if v, ok := p.(T); ok && p.role() == r {
			out = append(out, v)
		}
	}
	return out
}
