package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/calsift/internal/analyze"
)

// Report renders an analysis report to the writer. CSV is not meaningful
// for the nested report shape and is rejected.
func (r *Renderer) Report(report *analyze.Report, w io.Writer) error {
	switch r.opts.Format {
	case FormatText:
		return r.reportText(report, w)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if r.opts.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(report)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		if r.opts.Pretty {
			encoder.SetIndent(2)
		}
		if err := encoder.Encode(report); err != nil {
			_ = encoder.Close()
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format for analysis report: %s", r.opts.Format)
	}
}

func (r *Renderer) reportText(report *analyze.Report, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(r.header("=== Calendar Analysis ===") + "\n")
	sb.WriteString(fmt.Sprintf("total events: %d\n", report.TotalEvents))
	if report.UndatedEvents > 0 {
		sb.WriteString(fmt.Sprintf("undated events: %d\n", report.UndatedEvents))
	}

	if report.DateRange != nil {
		sb.WriteString("\n" + r.header("=== Date Range ===") + "\n")
		sb.WriteString(fmt.Sprintf("from: %s\n", report.DateRange.Start.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("to:   %s\n", report.DateRange.End.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("span: %d day(s)\n", report.DateRange.SpanDays))
	}

	if len(report.EventTypes) > 0 {
		sb.WriteString("\n" + r.header("=== Event Types ===") + "\n")
		for _, key := range sortedKeys(report.EventTypes) {
			sb.WriteString(fmt.Sprintf("%-20s %d\n", key, report.EventTypes[key]))
		}
	}

	if len(report.YearlyDistribution) > 0 {
		sb.WriteString("\n" + r.header("=== Yearly Distribution ===") + "\n")
		for _, year := range sortedIntKeys(report.YearlyDistribution) {
			sb.WriteString(fmt.Sprintf("%d: %d event(s)\n", year, report.YearlyDistribution[year]))
		}
	}

	if recs := analyze.Recommendations(report); len(recs) > 0 {
		sb.WriteString("\n" + r.header("=== Recommendations ===") + "\n")
		for _, rec := range recs {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
