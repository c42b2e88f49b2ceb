package diff

import (
	"testing"

	"github.com/klauern/calsift/internal/model"
)

func TestDiffProperties_SummaryOnly(t *testing.T) {
	before := holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2))
	after := holiday("e1", "New Year's Day", datePtr(2024, 1, 1), datePtr(2024, 1, 2))

	changes := DiffProperties(before, after)

	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1: %+v", len(changes), changes)
	}
	pc := changes[0]
	if pc.Property != "summary" || pc.Kind != model.KindString {
		t.Errorf("change = %+v, want string change on summary", pc)
	}
	if pc.OldValue == nil || *pc.OldValue != "New Year" {
		t.Errorf("OldValue = %v, want %q", pc.OldValue, "New Year")
	}
	if pc.NewValue == nil || *pc.NewValue != "New Year's Day" {
		t.Errorf("NewValue = %v, want %q", pc.NewValue, "New Year's Day")
	}
}

func TestDiffProperties_FixedOrder(t *testing.T) {
	before := model.CalendarEvent{
		UID:         "e1",
		Summary:     "Old",
		Description: "old desc",
		Categories:  "old-cat",
		Start:       datePtr(2024, 1, 1),
		End:         datePtr(2024, 1, 2),
	}
	after := model.CalendarEvent{
		UID:         "e1",
		Summary:     "New",
		Description: "new desc",
		Categories:  "new-cat",
		Start:       datePtr(2024, 2, 1),
		End:         datePtr(2024, 2, 2),
	}

	changes := DiffProperties(before, after)

	wantOrder := []string{"summary", "description", "categories", "start", "end"}
	if len(changes) != len(wantOrder) {
		t.Fatalf("got %d changes, want %d", len(changes), len(wantOrder))
	}
	for i, want := range wantOrder {
		if changes[i].Property != want {
			t.Errorf("changes[%d].Property = %q, want %q", i, changes[i].Property, want)
		}
	}
}

func TestDiffProperties_DatetimeSerialization(t *testing.T) {
	before := holiday("e1", "Maintenance", timeAt(2024, 3, 1, 9), nil)
	after := holiday("e1", "Maintenance", timeAt(2024, 3, 2, 9), datePtr(2024, 3, 3))

	changes := DiffProperties(before, after)

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2 (start, end): %+v", len(changes), changes)
	}

	start := changes[0]
	if start.Property != "start" || start.Kind != model.KindDatetime {
		t.Fatalf("first change = %+v, want datetime change on start", start)
	}
	if start.OldValue == nil || *start.OldValue != "2024-03-01T09:00:00Z" {
		t.Errorf("start OldValue = %v, want 2024-03-01T09:00:00Z", start.OldValue)
	}
	if start.NewValue == nil || *start.NewValue != "2024-03-02T09:00:00Z" {
		t.Errorf("start NewValue = %v, want 2024-03-02T09:00:00Z", start.NewValue)
	}

	// An absent side serializes as nil, not as an empty string.
	end := changes[1]
	if end.Property != "end" || end.OldValue != nil {
		t.Errorf("end change = %+v, want nil OldValue for absent end", end)
	}
	if end.NewValue == nil || *end.NewValue != "2024-03-03T00:00:00Z" {
		t.Errorf("end NewValue = %v, want 2024-03-03T00:00:00Z", end.NewValue)
	}
}

func TestDiffProperties_EqualPairIsEmpty(t *testing.T) {
	ev := holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2))
	if changes := DiffProperties(ev, ev); len(changes) != 0 {
		t.Errorf("DiffProperties of identical events = %+v, want empty", changes)
	}
}
