package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/config"
	"github.com/klauern/calsift/internal/diff"
	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/progress"
	"github.com/klauern/calsift/internal/render"
	"github.com/klauern/calsift/internal/ui/tui"
)

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"diff"},
		Usage:     "Compare two calendars and report the changes",
		ArgsUsage: "BEFORE AFTER",
		UsageText: `calsift compare old.ics new.ics
   calsift compare --format json -o diff.json old.ics new.ics
   calsift compare --tui old.ics new.ics
   calsift compare snapshots/2023/ snapshots/2024/
   calsift compare change-calendar.json team.ics`,
		Description: `Compare two calendar snapshots and report every added, deleted,
   modified, moved, and duration-changed event, in chronological order.

   Inputs are iCalendar files; AWS Change Calendar JSON documents are
   detected by their .json extension and normalized before comparison.
   Recurring events are expanded to individual occurrences within a
   window around today.

   When both arguments are directories, every file present in both is
   compared pairwise by name.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, csv (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Browse the changes interactively",
			},
			&cli.IntFlag{
				Name:  "expand-window-days",
				Usage: "Recurrence expansion window around today, in days (default from config)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent comparisons in directory mode (default from config)",
			},
			&cli.Float64Flag{
				Name:  "rate-limit",
				Usage: "Max comparisons per second in directory mode (0 = unlimited)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCompare(ctx, cmd)
		},
	}
}

// compareConfig holds parsed configuration for the compare command.
type compareConfig struct {
	format     render.Format
	output     string
	tui        bool
	windowDays int
	workers    int
	rateLimit  float64
}

func parseCompareConfig(cmd *cli.Command, appConfig *config.Config) (*compareConfig, error) {
	format, err := resolveFormat(cmd, appConfig)
	if err != nil {
		return nil, err
	}

	cfg := &compareConfig{
		format:     format,
		output:     cmd.String("output"),
		tui:        cmd.Bool("tui"),
		windowDays: int(cmd.Int("expand-window-days")),
		workers:    int(cmd.Int("workers")),
		rateLimit:  cmd.Float64("rate-limit"),
	}

	// Zero means "use config value".
	if cfg.windowDays == 0 {
		cfg.windowDays = appConfig.Compare.ExpandWindowDays
	}
	if cfg.workers == 0 {
		cfg.workers = appConfig.Compare.Workers
	}
	if cfg.rateLimit == 0 {
		cfg.rateLimit = appConfig.Compare.RateLimit
	}

	if cfg.tui && cfg.output != "" {
		return nil, errors.New("cannot combine --tui with --output")
	}

	return cfg, nil
}

func runCompare(ctx context.Context, cmd *cli.Command) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := parseCompareConfig(cmd, appConfig)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) != 2 {
		return errors.New("compare requires exactly two arguments: BEFORE and AFTER")
	}
	beforePath, afterPath := args[0], args[1]

	beforeInfo, err := os.Stat(beforePath)
	if err != nil {
		return err
	}
	afterInfo, err := os.Stat(afterPath)
	if err != nil {
		return err
	}

	if beforeInfo.IsDir() != afterInfo.IsDir() {
		return errors.New("compare needs two files or two directories, not a mix")
	}
	if beforeInfo.IsDir() {
		if cfg.tui {
			return errors.New("--tui is not available in directory mode")
		}
		return runCompareDirs(ctx, cfg, beforePath, afterPath)
	}
	return runComparePair(cfg, beforePath, afterPath)
}

func runComparePair(cfg *compareConfig, beforePath, afterPath string) error {
	windowStart, windowEnd := expandWindow(cfg.windowDays)

	before, err := loadCalendar(beforePath, windowStart, windowEnd)
	if err != nil {
		return fmt.Errorf("loading %s: %w", beforePath, err)
	}
	after, err := loadCalendar(afterPath, windowStart, windowEnd)
	if err != nil {
		return fmt.Errorf("loading %s: %w", afterPath, err)
	}

	result := diff.NewEngine().Compare(before, after)

	if cfg.tui {
		return tui.RunChanges(filepath.Base(beforePath), filepath.Base(afterPath), result)
	}

	w, closeOutput, err := outputWriter(cfg.output)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	report := render.DiffReport{
		Before: beforePath,
		After:  afterPath,
		Result: result,
	}
	if err := newRenderer(cfg.format, cfg.output).Diff(report, w); err != nil {
		return err
	}
	return closeOutput()
}

func runCompareDirs(ctx context.Context, cfg *compareConfig, beforeDir, afterDir string) error {
	pairs, err := matchCalendarPairs(beforeDir, afterDir)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Println("No matching calendar files found in the two directories.")
		return nil
	}

	windowStart, windowEnd := expandWindow(cfg.windowDays)

	inputs := make([]diff.BatchInput, 0, len(pairs))
	for _, name := range pairs {
		before, err := loadCalendar(filepath.Join(beforeDir, name), windowStart, windowEnd)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Join(beforeDir, name), err)
		}
		after, err := loadCalendar(filepath.Join(afterDir, name), windowStart, windowEnd)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Join(afterDir, name), err)
		}
		inputs = append(inputs, diff.BatchInput{Name: name, Before: before, After: after})
	}

	bar := progress.Simple(int64(len(inputs)), "Comparing calendars")
	results, err := diff.NewEngine().CompareAll(ctx, inputs, diff.BatchOptions{
		Workers:   cfg.workers,
		RateLimit: cfg.rateLimit,
		OnProgress: func(done, total int) {
			_ = bar.Set(done)
		},
	})
	finishErr := bar.Finish()
	if err != nil {
		return err
	}
	if finishErr != nil {
		logging.Warn("progress bar finish failed", logging.Err(finishErr))
	}

	w, closeOutput, err := outputWriter(cfg.output)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	reports := make([]render.DiffReport, len(results))
	for i, res := range results {
		reports[i] = render.DiffReport{
			Before: filepath.Join(beforeDir, res.Name),
			After:  filepath.Join(afterDir, res.Name),
			Result: res.Result,
		}
	}
	if err := newRenderer(cfg.format, cfg.output).DiffBatch(reports, w); err != nil {
		return err
	}
	return closeOutput()
}

// matchCalendarPairs lists calendar files present in both directories,
// sorted by name. Files only on one side are logged and skipped.
func matchCalendarPairs(beforeDir, afterDir string) ([]string, error) {
	beforeNames, err := listCalendarFiles(beforeDir)
	if err != nil {
		return nil, err
	}
	afterNames, err := listCalendarFiles(afterDir)
	if err != nil {
		return nil, err
	}

	var pairs []string
	for name := range beforeNames {
		if afterNames[name] {
			pairs = append(pairs, name)
		} else {
			logging.Warn("calendar only present in before directory", logging.Path(name))
		}
	}
	for name := range afterNames {
		if !beforeNames[name] {
			logging.Warn("calendar only present in after directory", logging.Path(name))
		}
	}
	sort.Strings(pairs)
	return pairs, nil
}

func listCalendarFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".ics", ".json":
			names[entry.Name()] = true
		}
	}
	return names, nil
}
