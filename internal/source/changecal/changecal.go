// Package changecal normalizes AWS SSM Change Calendar JSON exports into
// canonical events. Two document shapes exist in the wild: the current
// events[] form and a legacy schedule.periods form; both are handled.
package changecal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Category tags every normalized event so reports can tell change-calendar
// entries apart from holiday or local events.
const Category = "AWS-Change-Calendar"

// uidNamespace seeds deterministic placeholder UIDs for events the export
// did not assign an id. Deriving the placeholder from event content keeps
// repeated fetches of the same calendar diffable against each other.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("calsift/aws-change-calendar"))

// Document is the JSON shape of an exported change calendar.
type Document struct {
	Name     string    `json:"name"`
	Events   []Event   `json:"events"`
	Schedule *Schedule `json:"schedule,omitempty"`
}

// Event is one entry in the current export format.
type Event struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// Schedule holds the legacy period-based format.
type Schedule struct {
	Periods []Period `json:"periods"`
}

// Period is one closed window in the legacy format.
type Period struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

// Normalize parses an exported change-calendar JSON payload and converts it
// to canonical events. Unparseable timestamps degrade to nil dates rather
// than failing the document.
func Normalize(data []byte) ([]model.CalendarEvent, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing change calendar JSON: %w", err)
	}

	var events []model.CalendarEvent
	if len(doc.Events) > 0 {
		for _, e := range doc.Events {
			events = append(events, normalizeEvent(e))
		}
	} else if doc.Schedule != nil {
		events = append(events, normalizePeriods(doc)...)
	}

	logging.Debug("normalized change calendar",
		logging.Calendar(doc.Name),
		logging.Count(len(events)),
	)
	return events, nil
}

// NormalizeFile reads and normalizes a change-calendar JSON file from disk.
func NormalizeFile(path string) ([]model.CalendarEvent, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the caller
	if err != nil {
		return nil, fmt.Errorf("reading change calendar file: %w", err)
	}
	events, err := Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

func normalizeEvent(e Event) model.CalendarEvent {
	summary := e.Summary
	if summary == "" {
		summary = "AWS Change Calendar Event"
	}
	uid := e.ID
	if uid == "" {
		uid = placeholderUID(summary, e.Start, e.End)
	}
	return model.CalendarEvent{
		UID:         uid,
		Summary:     summary,
		Description: e.Description,
		Categories:  Category,
		Start:       ParseAWSTime(e.Start),
		End:         ParseAWSTime(e.End),
	}
}

func normalizePeriods(doc Document) []model.CalendarEvent {
	name := doc.Name
	if name == "" {
		name = "Unknown"
	}

	var events []model.CalendarEvent
	for _, p := range doc.Schedule.Periods {
		if p.Start == "" || p.End == "" {
			continue
		}
		summary := fmt.Sprintf("AWS Change Calendar: %s", name)
		events = append(events, model.CalendarEvent{
			UID:         placeholderUID(summary, p.Start, p.End),
			Summary:     summary,
			Description: fmt.Sprintf("AWS Change Calendar period: %s", p.Description),
			Categories:  Category,
			Start:       ParseAWSTime(p.Start),
			End:         ParseAWSTime(p.End),
		})
	}
	return events
}

// placeholderUID builds a deterministic identifier from event content.
func placeholderUID(summary, start, end string) string {
	key := fmt.Sprintf("%s|%s|%s", summary, start, end)
	return fmt.Sprintf("aws-change-calendar-%s", uuid.NewSHA1(uidNamespace, []byte(key)))
}

// awsTimeFormats lists the timestamp shapes SSM exports have been observed
// to use. Formats without a zone are taken as UTC.
var awsTimeFormats = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
}

// ParseAWSTime parses one timestamp against the known formats, falling back
// to RFC3339. A value that matches nothing yields nil and a warning.
func ParseAWSTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, format := range awsTimeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return &t
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	logging.Warn("unparseable AWS timestamp", "value", s)
	return nil
}
