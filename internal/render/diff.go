package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// DiffReport wraps a diff result with the names of the compared inputs.
type DiffReport struct {
	Before string           `json:"before" yaml:"before"`
	After  string           `json:"after" yaml:"after"`
	Result model.DiffResult `json:"result" yaml:"result"`
}

// Diff renders a comparison result to the writer.
func (r *Renderer) Diff(report DiffReport, w io.Writer) error {
	logging.Debug("rendering diff",
		"format", string(r.opts.Format),
		logging.Operation("render"),
	)

	switch r.opts.Format {
	case FormatText:
		return r.diffText(report, w)
	case FormatJSON:
		return r.diffJSON(report, w)
	case FormatYAML:
		return r.diffYAML(report, w)
	case FormatCSV:
		return r.diffCSV(report, w)
	default:
		return fmt.Errorf("unsupported format: %s", r.opts.Format)
	}
}

func (r *Renderer) diffText(report DiffReport, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(r.header("=== Calendar Diff ===") + "\n")
	if report.Before != "" || report.After != "" {
		sb.WriteString(fmt.Sprintf("before: %s\n", report.Before))
		sb.WriteString(fmt.Sprintf("after:  %s\n", report.After))
	}

	stats := report.Result.Statistics
	sb.WriteString("\n" + r.header("=== Statistics ===") + "\n")
	sb.WriteString(r.style(model.ChangeAdded, fmt.Sprintf("+ added:            %d", stats.Added)) + "\n")
	sb.WriteString(r.style(model.ChangeDeleted, fmt.Sprintf("- deleted:          %d", stats.Deleted)) + "\n")
	sb.WriteString(r.style(model.ChangeModified, fmt.Sprintf("~ modified:         %d", stats.Modified)) + "\n")
	sb.WriteString(r.style(model.ChangeMoved, fmt.Sprintf("= moved:            %d", stats.Moved)) + "\n")
	sb.WriteString(r.style(model.ChangeDurationChanged, fmt.Sprintf("Δ duration changed: %d", stats.DurationChanged)) + "\n")
	sb.WriteString(fmt.Sprintf("  unchanged:        %d\n", stats.Unchanged))

	if len(report.Result.Chronological) == 0 {
		sb.WriteString("\n" + r.header("No differences between the calendars.") + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("\n" + r.header("=== Changes (chronological) ===") + "\n")
	for _, change := range report.Result.Chronological {
		sb.WriteString("\n")
		sb.WriteString(r.formatChange(change))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) formatChange(change model.ChangeRecord) string {
	var sb strings.Builder

	subject := change.Subject()
	summary := "Unknown Event"
	uid := "No UID"
	if subject != nil {
		if subject.Summary != "" {
			summary = subject.Summary
		}
		if subject.UID != "" {
			uid = subject.UID
		}
	}

	head := fmt.Sprintf("%s [%s] %s %s",
		change.Type.Symbol(),
		strings.ToUpper(string(change.Type)),
		formatDate(change.SortDate()),
		summary,
	)
	sb.WriteString(r.style(change.Type, head) + "\n")
	sb.WriteString(fmt.Sprintf("  UID: %s\n", uid))

	switch change.Type {
	case model.ChangeAdded, model.ChangeDeleted:
		if subject != nil {
			sb.WriteString(fmt.Sprintf("  period: %s\n", formatPeriod(subject)))
			if subject.Description != "" {
				sb.WriteString(fmt.Sprintf("  description: %s\n", subject.Description))
			}
		}
	default:
		for _, pc := range change.Properties {
			sb.WriteString(fmt.Sprintf("  - %s: %s → %s\n",
				pc.Property, valueOrNone(pc.OldValue), valueOrNone(pc.NewValue)))
		}
	}
	return sb.String()
}

func (r *Renderer) diffJSON(report DiffReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if r.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

func (r *Renderer) diffYAML(report DiffReport, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	if r.opts.Pretty {
		encoder.SetIndent(2)
	}
	if err := encoder.Encode(report); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (r *Renderer) diffCSV(report DiffReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"change_type", "date", "uid", "summary", "property", "old_value", "new_value"}); err != nil {
		return err
	}

	for _, change := range report.Result.Chronological {
		subject := change.Subject()
		var uid, summary string
		if subject != nil {
			uid = subject.UID
			summary = subject.Summary
		}
		base := []string{string(change.Type), formatDate(change.SortDate()), uid, summary}

		if len(change.Properties) == 0 {
			if err := writer.Write(append(base, "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, pc := range change.Properties {
			row := append(base, pc.Property, stringValue(pc.OldValue), stringValue(pc.NewValue))
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// DiffBatch renders a series of diff reports, one per compared pair. Text
// output separates the reports with blank lines; JSON and YAML encode the
// whole slice. CSV has no room for the pair names and is rejected.
func (r *Renderer) DiffBatch(reports []DiffReport, w io.Writer) error {
	switch r.opts.Format {
	case FormatText:
		for i, report := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := r.diffText(report, w); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if r.opts.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(reports)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		if r.opts.Pretty {
			encoder.SetIndent(2)
		}
		if err := encoder.Encode(reports); err != nil {
			_ = encoder.Close()
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format for batch diff: %s", r.opts.Format)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

func formatPeriod(ev *model.CalendarEvent) string {
	if ev.Start == nil {
		return "N/A"
	}
	start := ev.Start.Format("2006-01-02 15:04")
	if ev.End == nil {
		return start
	}
	return fmt.Sprintf("%s - %s", start, ev.End.Format("2006-01-02 15:04"))
}

func valueOrNone(v *string) string {
	if v == nil {
		return "(none)"
	}
	return *v
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
