package diff

import (
	"time"

	"github.com/klauern/calsift/internal/model"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func timeAt(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func holiday(uid, summary string, start, end *time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		UID:        uid,
		Summary:    summary,
		Categories: "Japanese-Holiday",
		Start:      start,
		End:        end,
	}
}
