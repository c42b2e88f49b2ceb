package diff

import (
	"sort"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Engine is the calendar diff engine. It is stateless: Compare is a pure
// function from two event collections to a DiffResult and is safe to call
// concurrently as long as each call owns its inputs.
type Engine struct {
	matcher *Matcher
}

// NewEngine creates a diff engine.
func NewEngine() *Engine {
	return &Engine{matcher: NewMatcher()}
}

// chronoTieOrder fixes the ordering of records sharing the same sort date.
// The order is arbitrary but stable so repeated comparisons of the same
// inputs produce identical output.
var chronoTieOrder = []model.ChangeType{
	model.ChangeDeleted,
	model.ChangeModified,
	model.ChangeMoved,
	model.ChangeDurationChanged,
	model.ChangeAdded,
}

// Compare matches the two event collections, classifies every matched pair,
// computes property-level diffs for changed pairs, and aggregates everything
// into a DiffResult with per-type groups, summary statistics, and one
// chronologically ordered change sequence.
func (e *Engine) Compare(before, after []model.CalendarEvent) model.DiffResult {
	match := e.matcher.Match(before, after)

	byType := make(map[model.ChangeType][]model.ChangeRecord)

	for i := range match.Added {
		ev := match.Added[i]
		byType[model.ChangeAdded] = append(byType[model.ChangeAdded], model.ChangeRecord{
			Type:  model.ChangeAdded,
			Event: &ev,
		})
	}
	for i := range match.Deleted {
		ev := match.Deleted[i]
		byType[model.ChangeDeleted] = append(byType[model.ChangeDeleted], model.ChangeRecord{
			Type:  model.ChangeDeleted,
			Event: &ev,
		})
	}

	unchanged := 0
	for _, pair := range match.Pairs {
		ct := Classify(pair.Before, pair.After)
		if ct == model.ChangeUnchanged {
			unchanged++
			continue
		}
		beforeEv, afterEv := pair.Before, pair.After
		byType[ct] = append(byType[ct], model.ChangeRecord{
			Type:       ct,
			Before:     &beforeEv,
			After:      &afterEv,
			Properties: DiffProperties(pair.Before, pair.After),
		})
	}

	stats := model.Statistics{
		Added:           len(byType[model.ChangeAdded]),
		Deleted:         len(byType[model.ChangeDeleted]),
		Modified:        len(byType[model.ChangeModified]),
		Moved:           len(byType[model.ChangeMoved]),
		DurationChanged: len(byType[model.ChangeDurationChanged]),
		Unchanged:       unchanged,
	}

	// Merge per-type groups in tie order, then stable-sort by sort date so
	// same-date records keep that order.
	var chrono []model.ChangeRecord
	for _, ct := range chronoTieOrder {
		chrono = append(chrono, byType[ct]...)
	}
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].SortDate().Before(chrono[j].SortDate())
	})

	logging.Debug("comparison complete",
		"added", stats.Added,
		"deleted", stats.Deleted,
		"modified", stats.Modified,
		"moved", stats.Moved,
		"duration_changed", stats.DurationChanged,
		"unchanged", stats.Unchanged,
	)

	return model.DiffResult{
		Statistics:    stats,
		ChangesByType: byType,
		Chronological: chrono,
	}
}
