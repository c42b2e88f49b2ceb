package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klauern/calsift/internal/diff"
	"github.com/klauern/calsift/internal/model"
)

func testDiffResult(t *testing.T) model.DiffResult {
	t.Helper()

	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	before := []model.CalendarEvent{
		{UID: "e1", Summary: "元日", Start: date(2024, 1, 1), End: date(2024, 1, 2)},
		{UID: "e2", Summary: "成人の日", Start: date(2024, 1, 8), End: date(2024, 1, 9)},
	}
	after := []model.CalendarEvent{
		{UID: "e1", Summary: "元日（休業）", Start: date(2024, 1, 1), End: date(2024, 1, 2)},
		{UID: "e3", Summary: "建国記念の日", Start: date(2024, 2, 11), End: date(2024, 2, 12)},
	}
	return diff.NewEngine().Compare(before, after)
}

func TestChangesModel_BuildContent(t *testing.T) {
	m := NewChangesModel("old.ics", "new.ics", testDiffResult(t))
	content := m.buildContent()

	for _, want := range []string{
		"Statistics",
		"+ added:            1",
		"- deleted:          1",
		"~ [MODIFIED] 2024-01-01 元日（休業）",
		"summary: 元日 → 元日（休業）",
		"- [DELETED] 2024-01-08 成人の日",
		"+ [ADDED] 2024-02-11 建国記念の日",
		"UID: e3",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in change browser content:\n%s", want, content)
		}
	}
}

func TestChangesModel_BuildContent_NoChanges(t *testing.T) {
	events := []model.CalendarEvent{{UID: "e1", Summary: "元日"}}
	result := diff.NewEngine().Compare(events, events)

	m := NewChangesModel("a.ics", "b.ics", result)
	if !strings.Contains(m.buildContent(), "No differences between the calendars") {
		t.Error("expected no-diff notice in content")
	}
}

func TestChangesModel_FilterCycling(t *testing.T) {
	m := NewChangesModel("old.ics", "new.ics", testDiffResult(t))

	if got := len(m.filteredRecords()); got != 3 {
		t.Fatalf("expected 3 records unfiltered, got %d", got)
	}

	// First f press filters to added only.
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	updated := newModel.(ChangesModel)

	records := updated.filteredRecords()
	if len(records) != 1 || records[0].Type != model.ChangeAdded {
		t.Errorf("expected 1 added record after filter, got %+v", records)
	}

	// Cycling through the remaining filters wraps back to all.
	for i := 0; i < len(changeFilters)-1; i++ {
		newModel, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
		updated = newModel.(ChangesModel)
	}
	if got := len(updated.filteredRecords()); got != 3 {
		t.Errorf("expected filter to wrap back to all records, got %d", got)
	}
}

func TestChangesModel_Update_Quit(t *testing.T) {
	m := NewChangesModel("old.ics", "new.ics", testDiffResult(t))

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	updated := newModel.(ChangesModel)

	if !updated.quitting {
		t.Error("expected model to be quitting after q")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}
