// Package analyze builds summary statistics over a single calendar's
// events: totals, date coverage, and category, yearly, and monthly
// distributions.
package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Event kind labels used in the type breakdown.
const (
	TypeNationalHoliday = "国民の祝日"
	TypeSubstitute      = "振替休日"
	TypeCitizens        = "国民の休日"
	TypeOther           = "その他"
)

// DateRange describes the span covered by events with known start dates.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	SpanDays int       `json:"span_days"`
}

// Report holds the statistics for one calendar.
type Report struct {
	TotalEvents         int            `json:"total_events"`
	DateRange           *DateRange     `json:"date_range,omitempty"`
	EventTypes          map[string]int `json:"event_types"`
	YearlyDistribution  map[int]int    `json:"yearly_distribution"`
	MonthlyDistribution map[int]int    `json:"monthly_distribution"`
	UndatedEvents       int            `json:"undated_events"`
}

// Analyze computes a report over the given events. Events without a start
// date still count toward totals and type breakdowns but not toward the
// date range or distributions.
func Analyze(events []model.CalendarEvent) *Report {
	report := &Report{
		TotalEvents:         len(events),
		EventTypes:          make(map[string]int),
		YearlyDistribution:  make(map[int]int),
		MonthlyDistribution: make(map[int]int),
	}

	var first, last time.Time
	for _, ev := range events {
		report.EventTypes[classify(ev)]++

		if ev.Start == nil {
			report.UndatedEvents++
			continue
		}
		start := *ev.Start
		report.YearlyDistribution[start.Year()]++
		report.MonthlyDistribution[int(start.Month())]++

		if first.IsZero() || start.Before(first) {
			first = start
		}
		if last.IsZero() || start.After(last) {
			last = start
		}
	}

	if !first.IsZero() {
		report.DateRange = &DateRange{
			Start:    first,
			End:      last,
			SpanDays: int(last.Sub(first).Hours() / 24),
		}
	}

	logging.Debug("analyzed calendar",
		logging.Count(report.TotalEvents),
		"undated", report.UndatedEvents,
	)
	return report
}

// classify buckets an event by its categories and summary. Substitute and
// citizens' holidays carry the holiday category too, so the summary checks
// run first.
func classify(ev model.CalendarEvent) string {
	switch {
	case strings.Contains(ev.Summary, TypeSubstitute):
		return TypeSubstitute
	case strings.Contains(ev.Summary, TypeCitizens):
		return TypeCitizens
	case strings.Contains(ev.Categories, "Japanese-Holiday"):
		return TypeNationalHoliday
	case ev.Categories != "":
		return ev.Categories
	default:
		return TypeOther
	}
}

// UpcomingEvent is one event starting within the lookahead window.
type UpcomingEvent struct {
	Event    model.CalendarEvent `json:"event"`
	DaysAway int                 `json:"days_away"`
}

// Upcoming returns events starting in (now, now+days], ordered by start.
func Upcoming(events []model.CalendarEvent, now time.Time, days int) []UpcomingEvent {
	cutoff := now.AddDate(0, 0, days)

	var out []UpcomingEvent
	for _, ev := range events {
		if ev.Start == nil {
			continue
		}
		start := *ev.Start
		if !start.After(now) || start.After(cutoff) {
			continue
		}
		out = append(out, UpcomingEvent{
			Event:    ev,
			DaysAway: int(start.Sub(now).Hours() / 24),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Event.Start.Before(*out[j].Event.Start)
	})
	return out
}

// minHolidaysPerYear is the rough floor of official Japanese holidays in a
// full year; fewer suggests an incomplete calendar.
const minHolidaysPerYear = 15

// Recommendations derives maintenance advice from a report.
func Recommendations(report *Report) []string {
	if report.TotalEvents == 0 {
		return []string{"Calendar has no events. Consider adding holidays or recurring maintenance windows."}
	}

	var recs []string

	holidays := report.EventTypes[TypeNationalHoliday] +
		report.EventTypes[TypeSubstitute] +
		report.EventTypes[TypeCitizens]
	years := len(report.YearlyDistribution)
	switch {
	case holidays == 0:
		recs = append(recs, "No Japanese holidays found. Add them to avoid scheduling work on closed days.")
	case years > 0 && holidays < minHolidaysPerYear*years:
		recs = append(recs, "Holiday coverage looks incomplete. Check that every official holiday for the covered years is present.")
	}

	if report.DateRange != nil && report.DateRange.SpanDays < 365 {
		recs = append(recs, "Calendar covers less than a full year. Consider extending it for year-round coverage.")
	}

	if report.UndatedEvents > 0 {
		recs = append(recs, fmt.Sprintf("%d event(s) have no start date and will not appear in chronological output.", report.UndatedEvents))
	}

	return recs
}
