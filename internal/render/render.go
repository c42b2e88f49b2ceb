// Package render formats diff results, event listings, and analysis
// reports for terminal and file output.
package render

import (
	"fmt"
	"strings"

	"github.com/klauern/calsift/internal/model"
	"github.com/klauern/calsift/internal/ui"
)

// Format represents the output format for rendered results.
type Format string

const (
	// FormatText renders a human-readable report.
	FormatText Format = "text"
	// FormatJSON renders machine-readable JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatCSV renders flat CSV rows.
	FormatCSV Format = "csv"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported output formats.
func AllFormats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: text, json, yaml, csv)", s)
	}
	return format, nil
}

// Options configures rendering behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// Pretty enables pretty-printing for JSON/YAML.
	Pretty bool
	// Color enables ANSI colors in text output.
	Color bool
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		Format: FormatText,
		Pretty: true,
	}
}

// Renderer formats results in the configured format.
type Renderer struct {
	opts Options
}

// New creates a new Renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// style colors s by change type when colors are on.
func (r *Renderer) style(ct model.ChangeType, s string) string {
	if !r.opts.Color {
		return s
	}
	return ui.ChangeColor(ct)(s)
}

// header emphasizes a section heading when colors are on.
func (r *Renderer) header(s string) string {
	if !r.opts.Color {
		return s
	}
	return ui.Bold(s)
}
