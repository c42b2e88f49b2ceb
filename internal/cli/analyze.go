package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/analyze"
	"github.com/klauern/calsift/internal/model"
	"github.com/klauern/calsift/internal/render"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize the contents of a calendar",
		ArgsUsage: "FILE",
		UsageText: `calsift analyze holidays.ics
   calsift analyze --format json team.ics
   calsift analyze --upcoming 30 holidays.ics`,
		Description: `Analyze a calendar and report event counts, the covered date range,
   a breakdown by event type, and the yearly distribution. Japanese
   holiday calendars additionally get completeness recommendations.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to a file instead of stdout",
			},
			&cli.IntFlag{
				Name:    "upcoming",
				Aliases: []string{"u"},
				Usage:   "Also list events in the next N days (text format only)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAnalyze(cmd)
		},
	}
}

func runAnalyze(cmd *cli.Command) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, appConfig)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()
	if len(args) != 1 {
		return errors.New("analyze requires exactly one FILE argument")
	}

	windowStart, windowEnd := expandWindow(appConfig.Compare.ExpandWindowDays)
	events, err := loadCalendar(args[0], windowStart, windowEnd)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	outputPath := cmd.String("output")
	w, closeOutput, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	report := analyze.Analyze(events)
	if err := newRenderer(format, outputPath).Report(report, w); err != nil {
		return err
	}

	if days := int(cmd.Int("upcoming")); days > 0 && format == render.FormatText {
		if err := writeUpcoming(w, events, days); err != nil {
			return err
		}
	}
	return closeOutput()
}

func writeUpcoming(w io.Writer, events []model.CalendarEvent, days int) error {
	upcoming := analyze.Upcoming(events, time.Now(), days)

	if _, err := fmt.Fprintf(w, "\n=== Upcoming (next %d days) ===\n", days); err != nil {
		return err
	}
	if len(upcoming) == 0 {
		_, err := fmt.Fprintln(w, "no upcoming events")
		return err
	}
	for _, u := range upcoming {
		if _, err := fmt.Fprintf(w, "%s %s (in %d day(s))\n",
			u.Event.Start.Format("2006-01-02"), u.Event.Summary, u.DaysAway); err != nil {
			return err
		}
	}
	return nil
}
