package dashboard

import (
	"strconv"

	"profiledash/internal/chart"
	"profiledash/internal/display"
	"profiledash/internal/profile"
	"profiledash/internal/svg"
)

func userContent(u *profile.User) map[Region]Content {
	return map[Region]Content{
		RegionHeader:    {Text: display.Header(u.Login)},
		RegionUserID:    {Text: display.IDOrNA(u.ID)},
		RegionLogin:     {Text: display.OrNA(u.Login)},
		RegionFirstName: {Text: display.OrNA(u.FirstName)},
		RegionLastName:  {Text: display.OrNA(u.LastName)},
		RegionEmail:     {Text: display.OrNA(u.Email)},
		RegionCampus:    {Text: display.Capitalize(u.Campus)},
	}
}

func projectsContent(projects []profile.Project) Content {
	if len(projects) == 0 {
		return Content{Text: display.NoProjects}
	}
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return Content{Items: names}
}

func xpContent(amount float64) Content {
	return Content{Text: display.XPString(amount)}
}

func auditContent(a *profile.Audit, cfg chart.Config, theme svg.Theme) Content {
	done := "Done: " + display.MB(a.TotalUp) + " MB"
	received := "Received: " + display.MB(a.TotalDown) + " MB"
	series := []chart.Point{
		{Label: done, Value: a.TotalUp},
		{Label: received, Value: a.TotalDown},
	}
	return Content{
		Text:   "Ratio: " + display.AuditRatio(a.TotalUp, a.TotalDown),
		Items:  []string{done, received},
		Markup: svg.String(chart.Render(series, cfg), theme),
		Series: series,
	}
}

// ChartContent renders series into a region: the chart markup and, when
// listValues is set, one "label: value" line per point. An empty series
// carries only the configured placeholder as text, with no markup.
func ChartContent(series []chart.Point, cfg chart.Config, theme svg.Theme, listValues bool) Content {
	if len(series) == 0 {
		text := cfg.Placeholder
		if text == "" {
			text = chart.DefaultPlaceholder
		}
		return Content{Text: text}
	}
	c := Content{
		Markup: svg.String(chart.Render(series, cfg), theme),
		Series: series,
	}
	if listValues {
		c.Items = make([]string, len(series))
		for i, p := range series {
			c.Items[i] = p.Label + ": " + strconv.FormatFloat(p.Value, 'f', -1, 64)
		}
	}
	return c
}

func failed(err error) Content {
	return Content{Text: display.ErrorMessage(err), Failed: true}
}
