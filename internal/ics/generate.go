package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// defaultProdID identifies generated calendars. AWS SSM Change Calendar
// requires a PRODID on import, so generation always writes one.
const defaultProdID = "-//calsift//JP Holiday Calendar//EN"

// GenerateOptions controls iCalendar generation.
type GenerateOptions struct {
	// ProdID overrides the default PRODID.
	ProdID string
	// Name, when set, is written as X-WR-CALNAME.
	Name string
	// ExcludeSundays drops events that fall on a Sunday. Japanese holiday
	// law moves a Sunday holiday to the following Monday, and the substitute
	// day is published as its own entry, so the Sunday original is redundant
	// in a closed-days calendar.
	ExcludeSundays bool
}

// Generate builds a serialized iCalendar document from canonical events.
// Events without a UID get a deterministic date-derived one so repeated
// generations of the same data produce identical output.
func Generate(events []model.CalendarEvent, opts GenerateOptions) string {
	prodID := opts.ProdID
	if prodID == "" {
		prodID = defaultProdID
	}

	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	var skipped int
	for _, ev := range events {
		if opts.ExcludeSundays && ev.Start != nil && ev.Start.Weekday() == time.Sunday {
			skipped++
			continue
		}
		addVEvent(cal, ev)
	}

	if skipped > 0 {
		logging.Debug("excluded Sunday events from generated calendar", logging.Count(skipped))
	}

	return cal.Serialize()
}

func addVEvent(cal *ical.Calendar, ev model.CalendarEvent) {
	uid := ev.UID
	if uid == "" && ev.Start != nil {
		uid = HolidayUID(*ev.Start)
	}

	ve := cal.AddEvent(uid)
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetSummary(ev.Summary)
	if ev.Description != "" {
		ve.SetDescription(ev.Description)
	}
	if ev.Categories != "" {
		ve.SetProperty(ical.ComponentPropertyCategories, ev.Categories)
	}
	ve.SetStatus(ical.ObjectStatusConfirmed)
	ve.SetTimeTransparency(ical.TransparencyTransparent)

	if ev.Start != nil {
		if isMidnight(*ev.Start) {
			ve.SetAllDayStartAt(*ev.Start)
		} else {
			ve.SetStartAt(*ev.Start)
		}
	}
	if ev.End != nil {
		if isMidnight(*ev.End) {
			ve.SetAllDayEndAt(*ev.End)
		} else {
			ve.SetEndAt(*ev.End)
		}
	}
}

// HolidayUID returns the stable identifier used for generated holiday
// events, derived from the holiday date alone.
func HolidayUID(day time.Time) string {
	return fmt.Sprintf("jp-holiday-%s@calsift", day.Format("20060102"))
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
