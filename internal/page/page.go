// Package page renders the dashboard regions as a self-contained HTML page
// and serves it over HTTP.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"profiledash/internal/dashboard"
	"profiledash/internal/display"
)

//go:embed assets/*
var assets embed.FS

// DefaultTitle is the page title.
const DefaultTitle = "Profile Dashboard"

var (
	pageTmpl  = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))
	loginTmpl = template.Must(template.ParseFS(assets, "assets/login.html.tmpl"))
	style     = mustStyle()
)

func mustStyle() template.CSS {
	data, err := assets.ReadFile("assets/style.css")
	if err != nil {
		panic(fmt.Sprintf("page: read style: %v", err))
	}
	return template.CSS(data)
}

var userFields = []dashboard.Region{
	dashboard.RegionUserID, dashboard.RegionLogin, dashboard.RegionFirstName,
	dashboard.RegionLastName, dashboard.RegionEmail, dashboard.RegionCampus,
}

var panels = []dashboard.Region{
	dashboard.RegionProjects, dashboard.RegionXP, dashboard.RegionAudit,
	dashboard.RegionSkills, dashboard.RegionTechSkills,
}

// View is one region prepared for the template. Markup is trusted: it comes
// from the SVG encoder, which escapes all text.
type View struct {
	ID     string
	Title  string
	Text   string
	Items  []string
	Markup template.HTML
	Failed bool
}

// Data is the page template input.
type Data struct {
	Title       string
	Style       template.CSS
	Header      string
	LogoutPath  string
	Fields      []View
	Panels      []View
	GeneratedAt time.Time
}

// NewData arranges regions for the page. Regions never set are shown empty.
func NewData(regions map[dashboard.Region]dashboard.Content, now time.Time) Data {
	d := Data{
		Title:       DefaultTitle,
		Style:       style,
		Header:      display.Header(""),
		GeneratedAt: now,
	}
	if h, ok := regions[dashboard.RegionHeader]; ok && h.Text != "" {
		d.Header = h.Text
	}
	for _, r := range userFields {
		d.Fields = append(d.Fields, view(r, regions[r]))
	}
	for _, r := range panels {
		d.Panels = append(d.Panels, view(r, regions[r]))
	}
	return d
}

func view(r dashboard.Region, c dashboard.Content) View {
	return View{
		ID:     string(r),
		Title:  display.Region(string(r)),
		Text:   c.Text,
		Items:  c.Items,
		Markup: template.HTML(c.Markup),
		Failed: c.Failed,
	}
}

// Write renders the dashboard page to w.
func Write(w io.Writer, d Data) error {
	if err := pageTmpl.Execute(w, d); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// WriteRegions renders regions as a standalone page (no logout button).
func WriteRegions(w io.Writer, regions map[dashboard.Region]dashboard.Content) error {
	return Write(w, NewData(regions, time.Now()))
}

type loginData struct {
	Title string
	Style template.CSS
	Error string
}

func writeLogin(w io.Writer, errMsg string) error {
	if err := loginTmpl.Execute(w, loginData{Title: "Sign in", Style: style, Error: errMsg}); err != nil {
		return fmt.Errorf("render login: %w", err)
	}
	return nil
}
