package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/klauern/calsift/internal/model"
)

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func holidayEvent(y int, m time.Month, d int, name string) model.CalendarEvent {
	return model.CalendarEvent{
		UID:         HolidayUID(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)),
		Summary:     name,
		Description: "日本の祝日: " + name,
		Categories:  "Japanese-Holiday",
		Start:       dayPtr(y, m, d),
		End:         dayPtr(y, m, d+1),
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	events := []model.CalendarEvent{
		holidayEvent(2024, 1, 1, "元日"),
		holidayEvent(2024, 2, 11, "建国記念の日"),
	}

	out := Generate(events, GenerateOptions{Name: "Japanese Holidays"})

	if !strings.Contains(out, "PRODID:"+defaultProdID) {
		t.Errorf("output missing default PRODID:\n%s", out)
	}
	if !strings.Contains(out, "X-WR-CALNAME:Japanese Holidays") {
		t.Errorf("output missing calendar name:\n%s", out)
	}

	result, err := Parse(strings.NewReader(out), Options{})
	if err != nil {
		t.Fatalf("Parse(generated) error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("generated calendar has warnings: %v", result.Warnings)
	}
	if len(result.Events) != len(events) {
		t.Fatalf("round-trip got %d events, want %d", len(result.Events), len(events))
	}

	got := result.Events[0]
	if got.UID != "jp-holiday-20240101@calsift" {
		t.Errorf("UID = %q, want jp-holiday-20240101@calsift", got.UID)
	}
	if got.Summary != "元日" || got.Categories != "Japanese-Holiday" {
		t.Errorf("event = %+v, want New Year's Day with holiday category", got)
	}
	if got.Start == nil || got.Start.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("Start = %v, want 2024-01-01", got.Start)
	}
}

func TestGenerate_ExcludeSundays(t *testing.T) {
	events := []model.CalendarEvent{
		holidayEvent(2024, 9, 22, "秋分の日"), // Sunday
		holidayEvent(2024, 9, 23, "休日"),   // substitute Monday
	}

	out := Generate(events, GenerateOptions{ExcludeSundays: true})

	result, err := Parse(strings.NewReader(out), Options{})
	if err != nil {
		t.Fatalf("Parse(generated) error = %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want only the substitute Monday", len(result.Events))
	}
	if result.Events[0].UID != "jp-holiday-20240923@calsift" {
		t.Errorf("kept event = %+v, want the Monday substitute", result.Events[0])
	}
}

func TestGenerate_TimedEvent(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	events := []model.CalendarEvent{{
		UID:     "maintenance-1",
		Summary: "Maintenance",
		Start:   &start,
		End:     &end,
	}}

	out := Generate(events, GenerateOptions{})

	result, err := Parse(strings.NewReader(out), Options{})
	if err != nil {
		t.Fatalf("Parse(generated) error = %v", err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	got := result.Events[0]
	if got.Start == nil || !got.Start.Equal(start) {
		t.Errorf("Start = %v, want %v", got.Start, start)
	}
	if got.End == nil || !got.End.Equal(end) {
		t.Errorf("End = %v, want %v", got.End, end)
	}
}

func TestGenerate_DerivesMissingUID(t *testing.T) {
	events := []model.CalendarEvent{{
		Summary: "海の日",
		Start:   dayPtr(2024, 7, 15),
		End:     dayPtr(2024, 7, 16),
	}}

	out := Generate(events, GenerateOptions{})
	if !strings.Contains(out, "UID:jp-holiday-20240715@calsift") {
		t.Errorf("output missing derived UID:\n%s", out)
	}
}

func TestHolidayUID(t *testing.T) {
	got := HolidayUID(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	if got != "jp-holiday-20251103@calsift" {
		t.Errorf("HolidayUID = %q", got)
	}
}
