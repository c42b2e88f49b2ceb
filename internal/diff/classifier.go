package diff

import "github.com/klauern/calsift/internal/model"

// Classify decides the change category for a matched pair using a fixed
// decision order: date changes are checked first, then text properties.
//
// A date change where both sides have a defined duration and the durations
// differ is DurationChanged; any other date change is Moved. A pair whose
// dates are identical but whose summary, description, or categories differ
// is Modified. Exactly one category is returned; a pair can never be both
// Moved and Modified — callers needing text-field detail for a Moved pair
// run DiffProperties, which reports every differing property regardless of
// classification.
func Classify(before, after model.CalendarEvent) model.ChangeType {
	startChanged := !model.TimesEqual(before.Start, after.Start)
	endChanged := !model.TimesEqual(before.End, after.End)

	if startChanged || endChanged {
		beforeDur, beforeOK := before.Duration()
		afterDur, afterOK := after.Duration()
		if beforeOK && afterOK && beforeDur != afterDur {
			return model.ChangeDurationChanged
		}
		return model.ChangeMoved
	}

	if before.Summary != after.Summary ||
		before.Description != after.Description ||
		before.Categories != after.Categories {
		return model.ChangeModified
	}

	return model.ChangeUnchanged
}
