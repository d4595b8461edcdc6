package core

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// SelectUpcoming resolves raw events and keeps the ones that are still
// relevant: an event stays iff its effective end boundary has not passed
// before the start of today in loc. The boundary is the end of day of the
// end date when one is set, otherwise the start instant itself, so an
// event that concludes today (or later) is still shown.
//
// The result is sorted ascending by start instant; events with equal
// starts keep their input order.
func SelectUpcoming(events []RawEvent, now time.Time, loc *time.Location) []ResolvedEvent {
	local := now.In(loc)
	todayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	resolved := make([]ResolvedEvent, 0, len(events))

	for _, ev := range events {
		start, ok := ResolveInstant(ev.StartDate, ev.StartTime, loc)
		if !ok {
			log.Warn().Str("component", "filter").
				Str("start_date", ev.StartDate).Str("start_time", ev.StartTime).
				Str("title", ev.TitlePrimary).
				Msg("dropping event with unparseable start date")
			continue
		}

		res := ResolvedEvent{RawEvent: ev, Start: start}

		if ev.EndDate != "" {
			if end, endOK := ResolveInstant(ev.EndDate, ev.EndTime, loc); endOK {
				res.End = end
				res.HasEnd = true
				res.MultiDay = !sameCalendarDay(start, end, loc)
			} else {
				log.Warn().Str("component", "filter").
					Str("end_date", ev.EndDate).Str("title", ev.TitlePrimary).
					Msg("ignoring unparseable end date")
			}
		}

		if effectiveEnd(res, loc).Before(todayStart) {
			continue
		}

		resolved = append(resolved, res)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Start.Before(resolved[j].Start)
	})

	return resolved
}

// effectiveEnd is the instant an event stops being relevant. With an end
// date the whole end day counts; without one only the start instant does.
func effectiveEnd(ev ResolvedEvent, loc *time.Location) time.Time {
	if !ev.HasEnd {
		return ev.Start
	}

	y, m, d := ev.End.In(loc).Date()

	return time.Date(y, m, d, 23, 59, 59, 0, loc)
}

func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	return ay == by && am == bm && ad == bd
}
