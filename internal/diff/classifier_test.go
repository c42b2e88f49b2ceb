package diff

import (
	"testing"

	"github.com/klauern/calsift/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		before model.CalendarEvent
		after  model.CalendarEvent
		want   model.ChangeType
	}{
		{
			name:   "identical events",
			before: holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			after:  holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			want:   model.ChangeUnchanged,
		},
		{
			name:   "summary edit only",
			before: holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			after:  holiday("e1", "New Year's Day", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			want:   model.ChangeModified,
		},
		{
			name: "description edit only",
			before: model.CalendarEvent{
				UID: "e1", Summary: "Maintenance", Description: "window A",
				Start: datePtr(2024, 3, 1), End: datePtr(2024, 3, 2),
			},
			after: model.CalendarEvent{
				UID: "e1", Summary: "Maintenance", Description: "window B",
				Start: datePtr(2024, 3, 1), End: datePtr(2024, 3, 2),
			},
			want: model.ChangeModified,
		},
		{
			name:   "categories edit only",
			before: model.CalendarEvent{UID: "e1", Summary: "X", Categories: "Japanese-Holiday"},
			after:  model.CalendarEvent{UID: "e1", Summary: "X", Categories: "AWS-Change-Calendar"},
			want:   model.ChangeModified,
		},
		{
			name:   "shifted one day with duration preserved",
			before: holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			after:  holiday("e1", "New Year", datePtr(2024, 1, 2), datePtr(2024, 1, 3)),
			want:   model.ChangeMoved,
		},
		{
			name:   "end extended by one day",
			before: holiday("e1", "Golden Week", datePtr(2024, 4, 29), datePtr(2024, 5, 3)),
			after:  holiday("e1", "Golden Week", datePtr(2024, 4, 29), datePtr(2024, 5, 4)),
			want:   model.ChangeDurationChanged,
		},
		{
			name:   "date change with missing end is moved not duration_changed",
			before: holiday("e1", "New Year", datePtr(2024, 1, 1), nil),
			after:  holiday("e1", "New Year", datePtr(2024, 1, 2), nil),
			want:   model.ChangeMoved,
		},
		{
			name:   "start gained where none existed",
			before: holiday("e1", "Floating", nil, nil),
			after:  holiday("e1", "Floating", datePtr(2024, 6, 1), nil),
			want:   model.ChangeMoved,
		},
		{
			name:   "date change takes priority over text change",
			before: holiday("e1", "New Year", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
			after:  holiday("e1", "New Year's Day", datePtr(2024, 1, 2), datePtr(2024, 1, 3)),
			want:   model.ChangeMoved,
		},
		{
			name:   "both events entirely empty",
			before: model.CalendarEvent{UID: "e1"},
			after:  model.CalendarEvent{UID: "e1"},
			want:   model.ChangeUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.before, tt.after); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Exactly one category is ever returned for a matched pair; this exercises a
// grid of date/text combinations and checks the result is always a pair
// category, never Added or Deleted.
func TestClassify_Exclusivity(t *testing.T) {
	variants := []model.CalendarEvent{
		holiday("e1", "A", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
		holiday("e1", "B", datePtr(2024, 1, 1), datePtr(2024, 1, 2)),
		holiday("e1", "A", datePtr(2024, 1, 3), datePtr(2024, 1, 4)),
		holiday("e1", "A", datePtr(2024, 1, 1), datePtr(2024, 1, 5)),
		holiday("e1", "A", nil, nil),
	}

	pairCategories := map[model.ChangeType]bool{
		model.ChangeModified:        true,
		model.ChangeMoved:           true,
		model.ChangeDurationChanged: true,
		model.ChangeUnchanged:       true,
	}

	for i, before := range variants {
		for j, after := range variants {
			got := Classify(before, after)
			if !pairCategories[got] {
				t.Errorf("Classify(variants[%d], variants[%d]) = %q, not a pair category", i, j, got)
			}
			if i == j && got != model.ChangeUnchanged {
				t.Errorf("Classify(variants[%d], variants[%d]) = %q, want unchanged for identical inputs", i, j, got)
			}
		}
	}
}
