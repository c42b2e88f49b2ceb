package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/calsift/internal/model"
)

// Events renders a flat event listing to the writer.
func (r *Renderer) Events(events []model.CalendarEvent, w io.Writer) error {
	switch r.opts.Format {
	case FormatText:
		return r.eventsText(events, w)
	case FormatJSON:
		return r.eventsJSON(events, w)
	case FormatYAML:
		return r.eventsYAML(events, w)
	case FormatCSV:
		return r.eventsCSV(events, w)
	default:
		return fmt.Errorf("unsupported format: %s", r.opts.Format)
	}
}

func (r *Renderer) eventsText(events []model.CalendarEvent, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(r.header(fmt.Sprintf("%-12s %-30s %-20s %s", "DATE", "SUMMARY", "CATEGORIES", "UID")) + "\n")
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%-12s %-30s %-20s %s\n",
			formatDate(ev.SortDate()), truncate(ev.Summary, 30), truncate(ev.Categories, 20), ev.UID))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %d event(s)\n", len(events)))

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) eventsJSON(events []model.CalendarEvent, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if r.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(events)
}

func (r *Renderer) eventsYAML(events []model.CalendarEvent, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if r.opts.Pretty {
		encoder.SetIndent(2)
	}
	if err := encoder.Encode(events); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (r *Renderer) eventsCSV(events []model.CalendarEvent, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "summary", "description", "categories", "uid"}); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			formatDate(ev.SortDate()),
			ev.Summary,
			ev.Description,
			ev.Categories,
			ev.UID,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-2]) + ".."
}
