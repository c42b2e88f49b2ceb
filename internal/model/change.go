package model

import "time"

// ChangeType classifies how an event differs between two calendar versions.
type ChangeType string

const (
	// ChangeAdded indicates the event exists only in the after calendar.
	ChangeAdded ChangeType = "added"

	// ChangeDeleted indicates the event exists only in the before calendar.
	ChangeDeleted ChangeType = "deleted"

	// ChangeModified indicates a text property (summary, description,
	// categories) changed while the dates stayed the same.
	ChangeModified ChangeType = "modified"

	// ChangeMoved indicates the event shifted in time with its duration
	// preserved (or with an unknown duration on either side).
	ChangeMoved ChangeType = "moved"

	// ChangeDurationChanged indicates the event's duration changed.
	ChangeDurationChanged ChangeType = "duration_changed"

	// ChangeUnchanged indicates the matched pair is identical.
	ChangeUnchanged ChangeType = "unchanged"
)

// AllChangeTypes returns every change type in report order.
func AllChangeTypes() []ChangeType {
	return []ChangeType{
		ChangeAdded,
		ChangeDeleted,
		ChangeModified,
		ChangeMoved,
		ChangeDurationChanged,
		ChangeUnchanged,
	}
}

// IsValid returns true if the change type is recognized.
func (ct ChangeType) IsValid() bool {
	switch ct {
	case ChangeAdded, ChangeDeleted, ChangeModified, ChangeMoved,
		ChangeDurationChanged, ChangeUnchanged:
		return true
	default:
		return false
	}
}

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	return string(ct)
}

// Symbol returns the one-character marker used in diff reports.
func (ct ChangeType) Symbol() string {
	switch ct {
	case ChangeAdded:
		return "+"
	case ChangeDeleted:
		return "-"
	case ChangeModified:
		return "~"
	case ChangeMoved:
		return "="
	case ChangeDurationChanged:
		return "Δ"
	default:
		return " "
	}
}

// ValueKind identifies how a property value is serialized in a change record.
type ValueKind string

const (
	// KindString marks a plain string property value.
	KindString ValueKind = "string"

	// KindDatetime marks a date-time property serialized as RFC 3339,
	// with nil for an absent value.
	KindDatetime ValueKind = "datetime"
)

// PropertyChange records a single property-level difference between the two
// sides of a matched pair. Date-time values are serialized so the record is
// representation-agnostic; a nil value means the property was absent.
type PropertyChange struct {
	Property string    `json:"property"`
	OldValue *string   `json:"old_value"`
	NewValue *string   `json:"new_value"`
	Kind     ValueKind `json:"value_kind"`
}

// ChangeRecord describes one detected change. Added and Deleted records
// carry the single event involved; the other types carry the before/after
// pair plus the ordered property-level differences.
type ChangeRecord struct {
	Type ChangeType `json:"change_type"`

	// Event is set for Added and Deleted records.
	Event *CalendarEvent `json:"event,omitempty"`

	// Before and After are set for records describing a matched pair.
	Before *CalendarEvent `json:"before,omitempty"`
	After  *CalendarEvent `json:"after,omitempty"`

	// Properties lists the per-property differences, in the fixed order
	// summary, description, categories, start, end.
	Properties []PropertyChange `json:"property_changes,omitempty"`
}

// SortDate returns the date used to order this record chronologically:
// the single event's start for Added/Deleted, the after-event's start
// otherwise, and the zero-time sentinel when no start is known.
func (r ChangeRecord) SortDate() time.Time {
	switch r.Type {
	case ChangeAdded, ChangeDeleted:
		if r.Event != nil {
			return r.Event.SortDate()
		}
	default:
		if r.After != nil {
			return r.After.SortDate()
		}
	}
	return time.Time{}
}

// Subject returns the most useful event for display: the single event for
// Added/Deleted, the after side for everything else.
func (r ChangeRecord) Subject() *CalendarEvent {
	if r.Event != nil {
		return r.Event
	}
	return r.After
}

// Statistics counts change records per type for one comparison.
type Statistics struct {
	Added           int `json:"added"`
	Deleted         int `json:"deleted"`
	Modified        int `json:"modified"`
	Moved           int `json:"moved"`
	DurationChanged int `json:"duration_changed"`
	Unchanged       int `json:"unchanged"`
}

// Count returns the count for the given change type.
func (s Statistics) Count(ct ChangeType) int {
	switch ct {
	case ChangeAdded:
		return s.Added
	case ChangeDeleted:
		return s.Deleted
	case ChangeModified:
		return s.Modified
	case ChangeMoved:
		return s.Moved
	case ChangeDurationChanged:
		return s.DurationChanged
	case ChangeUnchanged:
		return s.Unchanged
	default:
		return 0
	}
}

// TotalChanged returns the number of records describing an actual change.
func (s Statistics) TotalChanged() int {
	return s.Added + s.Deleted + s.Modified + s.Moved + s.DurationChanged
}

// DiffResult is the complete outcome of comparing two calendars. It is a
// plain value owned by the caller; the engine keeps no state between calls.
type DiffResult struct {
	// Statistics counts records per change type, including Unchanged.
	Statistics Statistics `json:"statistics"`

	// ChangesByType groups the detailed records per type. Unchanged pairs
	// are counted in Statistics but carry no detailed records.
	ChangesByType map[ChangeType][]ChangeRecord `json:"changes_by_type"`

	// Chronological merges every non-unchanged record into one sequence
	// ordered by SortDate ascending.
	Chronological []ChangeRecord `json:"chronological_sequence"`
}

// Added returns the added-event records.
func (r DiffResult) Added() []ChangeRecord { return r.ChangesByType[ChangeAdded] }

// Deleted returns the deleted-event records.
func (r DiffResult) Deleted() []ChangeRecord { return r.ChangesByType[ChangeDeleted] }

// Modified returns the modified-pair records.
func (r DiffResult) Modified() []ChangeRecord { return r.ChangesByType[ChangeModified] }

// Moved returns the moved-pair records.
func (r DiffResult) Moved() []ChangeRecord { return r.ChangesByType[ChangeMoved] }

// DurationChanged returns the duration-changed pair records.
func (r DiffResult) DurationChanged() []ChangeRecord {
	return r.ChangesByType[ChangeDurationChanged]
}

// HasChanges returns true if any record describes an actual change.
func (r DiffResult) HasChanges() bool {
	return r.Statistics.TotalChanged() > 0
}
