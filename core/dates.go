package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Exact date layouts tried in priority order before falling back to the
// permissive parser. The dotted form is how the spreadsheet authors usually
// write dates; the others show up as stray imports and manual edits.
var dateLayouts = []string{
	"2006.01.02",
	"2006-01-02",
	"01/02/2006",
}

// clockPattern accepts strict 24-hour H:MM / HH:MM values only. Anything
// looser (am/pm, seconds, words) falls back to midnight.
var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ResolveInstant converts a textual date plus optional time-of-day into an
// absolute instant in loc. The second return value is false when the date
// cannot be resolved; callers drop such rows.
//
// The time-of-day is always re-applied onto the resolved calendar date, so
// a permissive fallback parse can never smuggle in its own clock value.
func ResolveInstant(dateField, timeField string, loc *time.Location) (time.Time, bool) {
	day, ok := resolveDate(dateField, loc)
	if !ok {
		return time.Time{}, false
	}

	hour, minute := resolveClock(timeField)

	y, m, d := day.In(loc).Date()

	return time.Date(y, m, d, hour, minute, 0, 0, loc), true
}

func resolveDate(dateField string, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(dateField)

	// Dotted Hungarian dates end in a literal dot ("2025.06.01.").
	cleaned := strings.TrimRight(trimmed, ".")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseIn(trimmed, loc); err == nil {
		return t, true
	}

	return time.Time{}, false
}

func resolveClock(timeField string) (hour, minute int) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(timeField))
	if m == nil {
		return 0, 0
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])

	return hour, minute
}
