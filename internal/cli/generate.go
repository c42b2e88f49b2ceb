package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/holiday"
	"github.com/klauern/calsift/internal/ics"
	"github.com/klauern/calsift/internal/logging"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a Japanese holiday iCalendar file",
		UsageText: `calsift generate -o holidays.ics
   calsift generate --year 2026 -o holidays-2026.ics
   calsift generate --from 2025-01-01 --to 2026-12-31 --exclude-sundays`,
		Description: `Generate an iCalendar file of official Japanese holidays as all-day
   transparent events. Sundays can be excluded for calendars that
   already mark them as non-working days.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "year",
				Aliases: []string{"y"},
				Usage:   "Calendar year to generate (default: current year)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Range start (YYYY-MM-DD, overrides --year)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Range end (YYYY-MM-DD, overrides --year)",
			},
			&cli.BoolFlag{
				Name:  "exclude-sundays",
				Usage: "Skip holidays that fall on a Sunday",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Calendar display name",
				Value: "日本の祝日",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the calendar to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runGenerate(ctx, cmd)
		},
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	provider, store, err := newHolidayProvider(ctx, appConfig)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	var holidays []holiday.Holiday
	from, to := cmd.String("from"), cmd.String("to")
	switch {
	case from != "" || to != "":
		if from == "" || to == "" {
			return errors.New("--from and --to must be given together")
		}
		fromDay, err := parseDay(from)
		if err != nil {
			return err
		}
		toDay, err := parseDay(to)
		if err != nil {
			return err
		}
		holidays = provider.Range(fromDay, toDay)
	default:
		year := int(cmd.Int("year"))
		if year == 0 {
			year = time.Now().Year()
		}
		holidays = provider.Year(year)
	}

	if len(holidays) == 0 {
		return errors.New("no holidays found for the requested period")
	}

	excludeSundays := cmd.Bool("exclude-sundays") || appConfig.Holiday.ExcludeSundays
	payload := ics.Generate(holiday.Events(holidays), ics.GenerateOptions{
		Name:           cmd.String("name"),
		ExcludeSundays: excludeSundays,
	})

	outputPath := cmd.String("output")
	w, closeOutput, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	if _, err := io.WriteString(w, payload); err != nil {
		return err
	}
	if err := closeOutput(); err != nil {
		return err
	}

	if outputPath != "" {
		logging.Info("generated holiday calendar",
			logging.Path(outputPath),
			logging.Count(len(holidays)),
		)
		fmt.Printf("Wrote %d holiday(s) to %s\n", len(holidays), outputPath)
	}
	return nil
}
