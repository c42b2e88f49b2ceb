package changecal

import (
	"strings"
	"testing"
	"time"
)

func TestNormalize_EventsFormat(t *testing.T) {
	data := []byte(`{
		"name": "prod-freeze",
		"events": [
			{
				"id": "freeze-2024-q1",
				"summary": "Q1 Release Freeze",
				"description": "No production deploys",
				"start": "2024-03-25T00:00:00Z",
				"end": "2024-04-01T00:00:00Z"
			},
			{
				"summary": "Ad-hoc freeze",
				"start": "2024-05-01",
				"end": "2024-05-02"
			}
		]
	}`)

	events, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.UID != "freeze-2024-q1" {
		t.Errorf("UID = %q, want the exported id", first.UID)
	}
	if first.Summary != "Q1 Release Freeze" || first.Categories != Category {
		t.Errorf("event = %+v, want tagged freeze event", first)
	}
	wantStart := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	if first.Start == nil || !first.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", first.Start, wantStart)
	}

	second := events[1]
	if !strings.HasPrefix(second.UID, "aws-change-calendar-") {
		t.Errorf("UID = %q, want generated placeholder", second.UID)
	}
	if second.Start == nil || second.Start.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("Start = %v, want date-only 2024-05-01", second.Start)
	}
}

func TestNormalize_PlaceholderUIDsAreDeterministic(t *testing.T) {
	data := []byte(`{"events": [{"summary": "Freeze", "start": "2024-05-01", "end": "2024-05-02"}]}`)

	first, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	second, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	// Two fetches of the same calendar must produce matchable UIDs.
	if first[0].UID != second[0].UID {
		t.Errorf("placeholder UIDs differ across runs: %q vs %q", first[0].UID, second[0].UID)
	}
}

func TestNormalize_LegacyScheduleFormat(t *testing.T) {
	data := []byte(`{
		"name": "maintenance-windows",
		"schedule": {
			"periods": [
				{"start": "2024-06-01T22:00:00Z", "end": "2024-06-02T02:00:00Z", "description": "DB upgrade"},
				{"start": "", "end": "2024-07-01T00:00:00Z"}
			]
		}
	}`)

	events, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	// The period missing a start is skipped.
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Summary != "AWS Change Calendar: maintenance-windows" {
		t.Errorf("Summary = %q", ev.Summary)
	}
	if ev.Description != "AWS Change Calendar period: DB upgrade" {
		t.Errorf("Description = %q", ev.Description)
	}
	if ev.Categories != Category {
		t.Errorf("Categories = %q, want %q", ev.Categories, Category)
	}
}

func TestNormalize_EmptyDocument(t *testing.T) {
	events, err := Normalize([]byte(`{}`))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	if _, err := Normalize([]byte(`{not json`)); err == nil {
		t.Error("Normalize() of invalid JSON returned nil error")
	}
}

func TestParseAWSTime(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"2024-03-25T00:00:00Z", "2024-03-25T00:00:00Z", true},
		{"2024-03-25T10:30:00.000000Z", "2024-03-25T10:30:00Z", true},
		{"2024-03-25", "2024-03-25T00:00:00Z", true},
		{"2024-03-25T10:30:00", "2024-03-25T10:30:00Z", true},
		{"2024/03/25 10:30:00", "2024-03-25T10:30:00Z", true},
		{"", "", false},
		{"next tuesday", "", false},
	}

	for _, tt := range tests {
		got := ParseAWSTime(tt.value)
		if tt.ok != (got != nil) {
			t.Errorf("ParseAWSTime(%q) = %v, want ok=%v", tt.value, got, tt.ok)
			continue
		}
		if tt.ok {
			if s := got.UTC().Format(time.RFC3339); s != tt.want {
				t.Errorf("ParseAWSTime(%q) = %s, want %s", tt.value, s, tt.want)
			}
		}
	}
}

func TestNormalize_UnparseableTimestampDegradesToNil(t *testing.T) {
	data := []byte(`{"events": [{"id": "e1", "summary": "Odd", "start": "someday", "end": ""}]}`)

	events, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Start != nil || events[0].End != nil {
		t.Errorf("dates = %v/%v, want nil for unparseable values", events[0].Start, events[0].End)
	}
}
