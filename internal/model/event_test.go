package model

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCalendarEvent_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   CalendarEvent
		want    time.Duration
		defined bool
	}{
		{
			name:    "both bounds set",
			event:   CalendarEvent{Start: timePtr(start), End: timePtr(end)},
			want:    24 * time.Hour,
			defined: true,
		},
		{
			name:    "missing end",
			event:   CalendarEvent{Start: timePtr(start)},
			defined: false,
		},
		{
			name:    "missing start",
			event:   CalendarEvent{End: timePtr(end)},
			defined: false,
		},
		{
			name:    "no bounds",
			event:   CalendarEvent{},
			defined: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.event.Duration()
			if ok != tt.defined {
				t.Fatalf("Duration() defined = %v, want %v", ok, tt.defined)
			}
			if ok && got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendarEvent_SortDate(t *testing.T) {
	start := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	ev := CalendarEvent{Start: timePtr(start)}
	if got := ev.SortDate(); !got.Equal(start) {
		t.Errorf("SortDate() = %v, want %v", got, start)
	}

	empty := CalendarEvent{}
	if got := empty.SortDate(); !got.IsZero() {
		t.Errorf("SortDate() for missing start = %v, want zero sentinel", got)
	}
}

func TestCalendarEvent_Fallback(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ev := CalendarEvent{Summary: "New Year", Start: timePtr(start)}
	key := ev.Fallback()
	if key.Summary != "New Year" {
		t.Errorf("Fallback().Summary = %q, want %q", key.Summary, "New Year")
	}
	if key.Start != "2024-01-01T00:00:00Z" {
		t.Errorf("Fallback().Start = %q, want %q", key.Start, "2024-01-01T00:00:00Z")
	}

	// Without a start the key degenerates to summary alone.
	noStart := CalendarEvent{Summary: "New Year"}
	if got := noStart.Fallback(); got.Start != "" {
		t.Errorf("Fallback().Start for missing start = %q, want empty", got.Start)
	}
}

func TestTimesEqual(t *testing.T) {
	utc := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*3600))
	other := utc.Add(time.Minute)

	tests := []struct {
		name string
		a, b *time.Time
		want bool
	}{
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "left nil", a: nil, b: &utc, want: false},
		{name: "right nil", a: &utc, b: nil, want: false},
		{name: "same instant", a: &utc, b: &utc, want: true},
		{name: "same instant different zone", a: &utc, b: &tokyo, want: true},
		{name: "different instant", a: &utc, b: &other, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("TimesEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}
