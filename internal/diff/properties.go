package diff

import (
	"time"

	"github.com/klauern/calsift/internal/model"
)

// trackedProperties is the fixed comparison order for property-level diffs.
var trackedProperties = []string{"summary", "description", "categories", "start", "end"}

// DiffProperties computes the ordered list of per-property differences for a
// matched pair. Properties that are equal are omitted. Date-time values are
// serialized as RFC 3339 with nil for an absent side; text values are
// compared as strings with the empty string standing in for a missing value.
func DiffProperties(before, after model.CalendarEvent) []model.PropertyChange {
	var changes []model.PropertyChange

	for _, prop := range trackedProperties {
		switch prop {
		case "start":
			if !model.TimesEqual(before.Start, after.Start) {
				changes = append(changes, datetimeChange(prop, before.Start, after.Start))
			}
		case "end":
			if !model.TimesEqual(before.End, after.End) {
				changes = append(changes, datetimeChange(prop, before.End, after.End))
			}
		default:
			oldVal := textProperty(before, prop)
			newVal := textProperty(after, prop)
			if oldVal != newVal {
				changes = append(changes, model.PropertyChange{
					Property: prop,
					OldValue: &oldVal,
					NewValue: &newVal,
					Kind:     model.KindString,
				})
			}
		}
	}

	return changes
}

func textProperty(ev model.CalendarEvent, prop string) string {
	switch prop {
	case "summary":
		return ev.Summary
	case "description":
		return ev.Description
	case "categories":
		return ev.Categories
	default:
		return ""
	}
}

func datetimeChange(prop string, oldTime, newTime *time.Time) model.PropertyChange {
	return model.PropertyChange{
		Property: prop,
		OldValue: isoOrNil(oldTime),
		NewValue: isoOrNil(newTime),
		Kind:     model.KindDatetime,
	}
}

func isoOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
