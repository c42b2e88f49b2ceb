// Package ics converts between iCalendar files and the canonical event
// record. Parsing tolerates partially malformed input: a VEVENT that cannot
// be fully understood degrades to a record with nil dates and a warning
// rather than failing the whole file.
package ics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Options controls parsing behavior.
type Options struct {
	// WindowStart and WindowEnd bound recurrence expansion. Events with an
	// RRULE are expanded into individual occurrences inside the window;
	// a zero window disables expansion and keeps only the base event.
	WindowStart time.Time
	WindowEnd   time.Time
}

// ParseResult holds the canonical events extracted from one calendar file
// plus any validation findings. Events are sorted by start date, unknown
// starts first, matching the order the diff engine reports in.
type ParseResult struct {
	Events   []model.CalendarEvent
	Warnings []string
}

// Parse reads an iCalendar payload and extracts canonical events.
func Parse(r io.Reader, opts Options) (*ParseResult, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	result := &ParseResult{}
	result.Warnings = append(result.Warnings, validateCalendar(cal)...)

	seen := make(map[string]bool)
	for _, ve := range cal.Events() {
		ev, rawRRule, warnings := parseVEvent(ve)
		result.Warnings = append(result.Warnings, warnings...)

		if ev.HasUID() {
			if seen[ev.UID] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate UID %q", ev.UID))
			}
			seen[ev.UID] = true
		}

		if rawRRule != "" && !opts.WindowStart.IsZero() && !opts.WindowEnd.IsZero() {
			occurrences, eerr := expandOccurrences(ev, rawRRule, opts.WindowStart, opts.WindowEnd)
			if eerr != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("UID %q: %v", ev.UID, eerr))
				result.Events = append(result.Events, ev)
				continue
			}
			result.Events = append(result.Events, occurrences...)
			continue
		}

		result.Events = append(result.Events, ev)
	}

	sortEvents(result.Events)

	logging.Debug("parsed calendar",
		logging.Count(len(result.Events)),
		"warnings", len(result.Warnings),
	)

	return result, nil
}

// ParseFile reads and parses an iCalendar file from disk.
func ParseFile(path string, opts Options) (*ParseResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by the caller
	if err != nil {
		return nil, fmt.Errorf("opening calendar file: %w", err)
	}
	defer f.Close()

	result, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

func parseVEvent(ve *ical.VEvent) (model.CalendarEvent, string, []string) {
	var ev model.CalendarEvent
	var warnings []string

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.UID = p.Value
	} else {
		warnings = append(warnings, "event missing required UID")
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		ev.Categories = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if start, err := ve.GetStartAt(); err == nil {
			ev.Start = &start
		} else if t, perr := parseICSTime(p.Value); perr == nil {
			ev.Start = &t
		} else {
			warnings = append(warnings, fmt.Sprintf("UID %q: unparseable DTSTART %q", ev.UID, p.Value))
		}
	} else {
		warnings = append(warnings, fmt.Sprintf("UID %q: event missing DTSTART", ev.UID))
	}

	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		if end, err := ve.GetEndAt(); err == nil {
			ev.End = &end
		} else if t, perr := parseICSTime(p.Value); perr == nil {
			ev.End = &t
		}
	}

	var rawRRule string
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRRule = p.Value
	}

	return ev, rawRRule, warnings
}

// validateCalendar checks calendar-level required properties.
func validateCalendar(cal *ical.Calendar) []string {
	var warnings []string
	var hasProdID, hasVersion bool
	for _, p := range cal.CalendarProperties {
		switch strings.ToUpper(p.IANAToken) {
		case "PRODID":
			hasProdID = true
		case "VERSION":
			hasVersion = true
		}
	}
	if !hasProdID {
		warnings = append(warnings, "calendar missing required PRODID")
	}
	if !hasVersion {
		warnings = append(warnings, "calendar missing required VERSION")
	}
	return warnings
}

// parseICSTime handles the basic DATE and DATE-TIME forms directly for
// values the library helpers reject.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, fmt.Errorf("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	default:
		return time.ParseInLocation("20060102", v, time.UTC)
	}
}

// sortEvents orders events by start date ascending, unknown starts first.
func sortEvents(events []model.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SortDate().Before(events[j].SortDate())
	})
}
