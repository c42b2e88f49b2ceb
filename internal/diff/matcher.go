// Package diff implements the calendar diff engine: matching events between
// two calendar versions, classifying how each matched pair changed, computing
// property-level differences, and aggregating everything into a
// chronologically ordered result.
package diff

import (
	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Pair is a (before, after) event pair matched by UID.
type Pair struct {
	Before model.CalendarEvent
	After  model.CalendarEvent
}

// MatchResult partitions two event collections into added events, deleted
// events, and matched pairs.
//
// Every keyed event from the before side appears exactly once across Deleted
// and Pairs, and every keyed event from the after side exactly once across
// Added and Pairs. Unkeyed events present on both sides under the same
// fallback key are treated as unchanged and appear nowhere in the result.
type MatchResult struct {
	Added   []model.CalendarEvent
	Deleted []model.CalendarEvent
	Pairs   []Pair
}

// Matcher builds UID and fallback-key indices over two event collections and
// partitions them for classification.
//
// Duplicate UIDs within one side are resolved last-occurrence-wins, matching
// the behavior of map insertion in the sources this tool compares. Events
// without a UID are matched on (start, summary) only for existence: such
// events never enter the classifier, so a description-only edit on an
// unkeyed event is not detected.
type Matcher struct{}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match partitions the two event lists. Output order is deterministic: it
// follows the input order of the respective list.
func (m *Matcher) Match(before, after []model.CalendarEvent) MatchResult {
	beforeKeyed, beforeFallback := index(before)
	afterKeyed, afterFallback := index(after)

	var result MatchResult

	// After-side pass: keyed events missing from before are additions,
	// keyed events present on both sides become pairs.
	seen := make(map[string]bool, len(afterKeyed))
	for _, ev := range after {
		if !ev.HasUID() || seen[ev.UID] {
			continue
		}
		seen[ev.UID] = true
		afterEv := afterKeyed[ev.UID]
		if beforeEv, ok := beforeKeyed[ev.UID]; ok {
			result.Pairs = append(result.Pairs, Pair{Before: beforeEv, After: afterEv})
		} else {
			result.Added = append(result.Added, afterEv)
		}
	}

	// Before-side pass: keyed events missing from after are deletions.
	seen = make(map[string]bool, len(beforeKeyed))
	for _, ev := range before {
		if !ev.HasUID() || seen[ev.UID] {
			continue
		}
		seen[ev.UID] = true
		if _, ok := afterKeyed[ev.UID]; !ok {
			result.Deleted = append(result.Deleted, beforeKeyed[ev.UID])
		}
	}

	// Fallback passes for unkeyed events. Only existence is checked; a
	// fallback key present on both sides produces no output at all.
	seenFallback := make(map[model.FallbackKey]bool, len(afterFallback))
	for _, ev := range after {
		if ev.HasUID() {
			continue
		}
		key := ev.Fallback()
		if seenFallback[key] {
			continue
		}
		seenFallback[key] = true
		if _, ok := beforeFallback[key]; !ok {
			result.Added = append(result.Added, afterFallback[key])
		}
	}

	seenFallback = make(map[model.FallbackKey]bool, len(beforeFallback))
	for _, ev := range before {
		if ev.HasUID() {
			continue
		}
		key := ev.Fallback()
		if seenFallback[key] {
			continue
		}
		seenFallback[key] = true
		if _, ok := afterFallback[key]; !ok {
			result.Deleted = append(result.Deleted, beforeFallback[key])
		}
	}

	logging.Debug("matched event collections",
		logging.Count(len(result.Pairs)),
		"added", len(result.Added),
		"deleted", len(result.Deleted),
	)

	return result
}

// index builds the UID and fallback indices for one side. Later occurrences
// overwrite earlier ones.
func index(events []model.CalendarEvent) (map[string]model.CalendarEvent, map[model.FallbackKey]model.CalendarEvent) {
	keyed := make(map[string]model.CalendarEvent)
	fallback := make(map[model.FallbackKey]model.CalendarEvent)
	for _, ev := range events {
		if ev.HasUID() {
			keyed[ev.UID] = ev
		} else {
			fallback[ev.Fallback()] = ev
		}
	}
	return keyed, fallback
}
