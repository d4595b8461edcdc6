package core

import (
	"fmt"
	"html/template"
	"strings"
)

// DefaultMonthAbbreviations is the Hungarian fallback table used when the
// host supplies no locale table of its own.
var DefaultMonthAbbreviations = [12]string{
	"jan", "febr", "márc", "ápr", "máj", "jún",
	"júl", "aug", "szept", "okt", "nov", "dec",
}

const listTemplate = `<div class="gsec-event-list">
{{- range . }}
	<div class="gsec-event{{ if .MultiDay }} gsec-event-multiday{{ end }}">
		<div class="gsec-event-date">
			<span class="gsec-event-month">{{ .StartMonth }}</span>
			<span class="gsec-event-day">{{ .StartDay }}</span>
{{- if .MultiDay }}
			<span class="gsec-event-date-separator">-</span>
			<span class="gsec-event-month">{{ .EndMonth }}</span>
			<span class="gsec-event-day">{{ .EndDay }}</span>
{{- end }}
		</div>
		<div class="gsec-event-details">
			<h3 class="gsec-event-title">{{ .Title }}</h3>
{{- if .TimeRange }}
			<div class="gsec-event-time">{{ .TimeRange }}</div>
{{- end }}
{{- if .Location }}
			<div class="gsec-event-location">{{ .Location }}</div>
{{- end }}
		</div>
	</div>
{{- end }}
</div>
`

// eventView is the per-event data handed to the template, precomputed so
// the template stays purely presentational.
type eventView struct {
	StartDay   int
	StartMonth string
	EndDay     int
	EndMonth   string
	MultiDay   bool
	Title      string
	TimeRange  string
	Location   string
}

// Renderer formats resolved events into the embeddable HTML fragment. The
// month table is an explicit parameter; no process-wide locale state is
// touched.
type Renderer struct {
	tmpl   *template.Template
	months [12]string
}

func NewRenderer(months [12]string) (*Renderer, error) {
	tmpl, err := template.New("event-list").Parse(listTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing event list template: %w", err)
	}

	for i, m := range months {
		if strings.TrimSpace(m) == "" {
			months[i] = DefaultMonthAbbreviations[i]
		}
	}

	return &Renderer{tmpl: tmpl, months: months}, nil
}

// Render produces the event list markup. Events arrive already filtered,
// sorted and capped.
func (r *Renderer) Render(events []ResolvedEvent) (string, error) {
	if len(events) == 0 {
		return r.RenderEmpty(), nil
	}

	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, r.viewOf(ev))
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, views); err != nil {
		return "", fmt.Errorf("executing event list template: %w", err)
	}

	return sb.String(), nil
}

func (r *Renderer) viewOf(ev ResolvedEvent) eventView {
	view := eventView{
		StartDay:   ev.Start.Day(),
		StartMonth: r.months[ev.Start.Month()-1],
		MultiDay:   ev.MultiDay,
		Title:      ev.TitlePrimary,
		TimeRange:  ev.StartTime,
		Location:   ev.Location,
	}

	if ev.MultiDay {
		view.EndDay = ev.End.Day()
		view.EndMonth = r.months[ev.End.Month()-1]
	}

	if ev.EndTime != "" && ev.EndTime != ev.StartTime {
		view.TimeRange = ev.StartTime + " - " + ev.EndTime
	}

	return view
}

// RenderEmpty is the friendly no-results paragraph.
func (r *Renderer) RenderEmpty() string {
	return `<p class="gsec-empty">No upcoming events found.</p>`
}

// RenderError produces the in-band error paragraph. The message is escaped;
// red inline styling matches the reference behavior.
func (r *Renderer) RenderError(message string) string {
	return `<p class="gsec-error" style="color: red;">` + template.HTMLEscapeString(message) + `</p>`
}
