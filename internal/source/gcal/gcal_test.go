package gcal

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func TestFromGoogleEvent(t *testing.T) {
	item := &calendar.Event{
		Id:          "abc123",
		Summary:     "Release freeze",
		Description: "No deploys this week",
		Status:      "confirmed",
		Start:       &calendar.EventDateTime{DateTime: "2024-03-25T09:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2024-03-25T10:00:00Z"},
	}

	ev, ok := FromGoogleEvent(item)
	if !ok {
		t.Fatal("FromGoogleEvent() ok = false, want true")
	}
	if ev.UID != "abc123" || ev.Summary != "Release freeze" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Categories != Category {
		t.Errorf("Categories = %q, want %q", ev.Categories, Category)
	}
	want := time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC)
	if ev.Start == nil || !ev.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", ev.Start, want)
	}
}

func TestFromGoogleEvent_AllDay(t *testing.T) {
	item := &calendar.Event{
		Id:      "holiday",
		Summary: "元日",
		Start:   &calendar.EventDateTime{Date: "2024-01-01"},
		End:     &calendar.EventDateTime{Date: "2024-01-02"},
	}

	ev, ok := FromGoogleEvent(item)
	if !ok {
		t.Fatal("FromGoogleEvent() ok = false, want true")
	}
	if ev.Start == nil || ev.Start.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("Start = %v, want date-only 2024-01-01", ev.Start)
	}
	if ev.End == nil || ev.End.Format("2006-01-02") != "2024-01-02" {
		t.Errorf("End = %v, want date-only 2024-01-02", ev.End)
	}
}

func TestFromGoogleEvent_SkipsCancelled(t *testing.T) {
	if _, ok := FromGoogleEvent(&calendar.Event{Id: "gone", Status: "cancelled"}); ok {
		t.Error("FromGoogleEvent() accepted a cancelled event")
	}
	if _, ok := FromGoogleEvent(nil); ok {
		t.Error("FromGoogleEvent() accepted nil")
	}
}

func TestFromGoogleEvent_MissingDates(t *testing.T) {
	ev, ok := FromGoogleEvent(&calendar.Event{Id: "undated", Summary: "No dates"})
	if !ok {
		t.Fatal("FromGoogleEvent() ok = false, want true")
	}
	if ev.Start != nil || ev.End != nil {
		t.Errorf("dates = %v/%v, want nil", ev.Start, ev.End)
	}
}

func TestEventTime_BadValues(t *testing.T) {
	if got := eventTime(&calendar.EventDateTime{DateTime: "not a time"}); got != nil {
		t.Errorf("eventTime(bad datetime) = %v, want nil", got)
	}
	if got := eventTime(&calendar.EventDateTime{}); got != nil {
		t.Errorf("eventTime(empty) = %v, want nil", got)
	}
}
