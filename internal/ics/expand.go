package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/klauern/calsift/internal/model"
)

// maxOccurrencesPerEvent caps recurrence expansion so a malformed or
// unbounded RRULE cannot blow up a comparison.
const maxOccurrencesPerEvent = 1000

// expandOccurrences turns one recurring event into concrete occurrences
// inside [windowStart, windowEnd]. Each occurrence keeps the base event's
// text properties, preserves its duration, and gets a per-instance UID
// derived from the base UID and the occurrence start, so two expansions of
// the same calendar diff cleanly against each other.
func expandOccurrences(ev model.CalendarEvent, rawRRule string, windowStart, windowEnd time.Time) ([]model.CalendarEvent, error) {
	if ev.Start == nil {
		return nil, fmt.Errorf("recurring event has no DTSTART")
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("expansion window end %v is before start %v", windowEnd, windowStart)
	}

	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE %q: %w", rawRRule, err)
	}
	r.DTStart(*ev.Start)

	// Align the window with the event's own location before querying the rule.
	loc := ev.Start.Location()
	starts := r.Between(windowStart.In(loc), windowEnd.In(loc), true)
	if len(starts) > maxOccurrencesPerEvent {
		starts = starts[:maxOccurrencesPerEvent]
	}

	var duration time.Duration
	var hasDuration bool
	if ev.End != nil {
		duration = ev.End.Sub(*ev.Start)
		hasDuration = true
	}

	occurrences := make([]model.CalendarEvent, 0, len(starts))
	for _, start := range starts {
		occ := ev
		s := start
		occ.Start = &s
		if hasDuration {
			e := start.Add(duration)
			occ.End = &e
		} else {
			occ.End = nil
		}
		if ev.HasUID() {
			occ.UID = occurrenceUID(ev.UID, start)
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}

// occurrenceUID derives a stable per-instance identifier from the base UID
// and the occurrence start instant.
func occurrenceUID(uid string, start time.Time) string {
	return fmt.Sprintf("%s/%s", uid, start.UTC().Format("20060102T150405Z"))
}
