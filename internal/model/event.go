package model

import "time"

// CalendarEvent is the canonical, source-independent representation of a
// calendar entry. Adapters in internal/ics and internal/source normalize
// foreign formats (ICS VEVENTs, change-calendar JSON, Google Calendar
// events) into this record before comparison.
//
// Start and End are nil when the source did not carry a usable date-time;
// the diff engine treats a nil date as "unknown" rather than an error.
type CalendarEvent struct {
	UID         string     `json:"uid,omitempty"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Categories  string     `json:"categories,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
}

// HasUID returns true if the event carries a non-empty UID.
func (e CalendarEvent) HasUID() bool {
	return e.UID != ""
}

// Duration returns the event duration and true when both Start and End are
// set. Events missing either bound have no defined duration.
func (e CalendarEvent) Duration() (time.Duration, bool) {
	if e.Start == nil || e.End == nil {
		return 0, false
	}
	return e.End.Sub(*e.Start), true
}

// SortDate returns the date used for chronological ordering: the event
// start, or the zero time as a minimum sentinel when the start is unknown.
func (e CalendarEvent) SortDate() time.Time {
	if e.Start == nil {
		return time.Time{}
	}
	return *e.Start
}

// StartISO returns the start serialized as RFC 3339, or "" when unset.
func (e CalendarEvent) StartISO() string {
	return formatISO(e.Start)
}

// EndISO returns the end serialized as RFC 3339, or "" when unset.
func (e CalendarEvent) EndISO() string {
	return formatISO(e.End)
}

// FallbackKey is the composite key used to match events that lack a UID.
// When the start is also unknown, the key degenerates to the summary alone
// and may over- or under-match.
type FallbackKey struct {
	Start   string
	Summary string
}

// Fallback returns the (start, summary) matching key for this event.
func (e CalendarEvent) Fallback() FallbackKey {
	return FallbackKey{Start: e.StartISO(), Summary: e.Summary}
}

// TimesEqual reports whether two optional date-times refer to the same
// instant, treating nil as equal only to nil.
func TimesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
