package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/config"
	"github.com/klauern/calsift/internal/holiday"
	"github.com/klauern/calsift/internal/ics"
	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
	"github.com/klauern/calsift/internal/render"
	"github.com/klauern/calsift/internal/source/changecal"
	"github.com/klauern/calsift/internal/ui"
)

const dayFormat = "2006-01-02"

// parseDay parses a YYYY-MM-DD argument into a UTC date.
func parseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(dayFormat, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return day, nil
}

// resolveFormat picks the output format from the --format flag, falling
// back to the configured default.
func resolveFormat(cmd *cli.Command, cfg *config.Config) (render.Format, error) {
	name := cmd.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	return render.ParseFormat(name)
}

// newRenderer builds a renderer for the resolved format. Color is only
// applied to text output going to a terminal-bound stdout.
func newRenderer(format render.Format, outputPath string) *render.Renderer {
	return render.New(render.Options{
		Format: format,
		Pretty: true,
		Color:  format == render.FormatText && outputPath == "" && ui.IsColorEnabled(),
	})
}

// outputWriter resolves the --output flag into a writer. An empty path
// means stdout; the returned closer is a no-op in that case.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	// #nosec G304 - path is provided by the user on the command line
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// loadCalendar reads calendar events from a file. AWS Change Calendar
// JSON documents are detected by extension; everything else is parsed as
// iCalendar, expanding recurrences within the given window.
func loadCalendar(path string, windowStart, windowEnd time.Time) ([]model.CalendarEvent, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return changecal.NormalizeFile(path)
	}

	result, err := ics.ParseFile(path, ics.Options{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})
	if err != nil {
		return nil, err
	}
	for _, warning := range result.Warnings {
		logging.Warn(warning, logging.Path(path))
	}
	return result.Events, nil
}

// expandWindow returns the recurrence expansion window centered on now.
func expandWindow(days int) (time.Time, time.Time) {
	if days <= 0 {
		return time.Time{}, time.Time{}
	}
	now := time.Now().UTC()
	return now.AddDate(0, 0, -days), now.AddDate(0, 0, days)
}

// newHolidayProvider opens the holiday cache and loads holiday data,
// refreshing from the Cabinet Office when stale.
func newHolidayProvider(ctx context.Context, cfg *config.Config) (*holiday.Provider, *holiday.Store, error) {
	store, err := holiday.OpenStore(cfg.Holiday.CacheLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("opening holiday cache: %w", err)
	}

	provider := holiday.NewProvider(store, holiday.ProviderOptions{
		URL: cfg.Holiday.URL,
		TTL: cfg.Holiday.RefreshTTL,
	})
	if err := provider.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("loading holiday data: %w", err)
	}
	return provider, store, nil
}
