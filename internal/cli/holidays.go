package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/holiday"
	"github.com/klauern/calsift/internal/ui"
)

func holidaysCommand() *cli.Command {
	return &cli.Command{
		Name:    "holidays",
		Aliases: []string{"jp"},
		Usage:   "Query official Japanese holidays",
		Description: `Query the Cabinet Office's official Japanese holiday data. The data
   is cached locally and refreshed when stale.`,
		Commands: []*cli.Command{
			holidaysListCommand(),
			holidaysCheckCommand(),
			holidaysNextCommand(),
			holidaysRefreshCommand(),
		},
	}
}

func holidaysListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List holidays for a year or date range",
		UsageText: `calsift holidays list
   calsift holidays list --year 2025
   calsift holidays list --from 2025-01-01 --to 2025-03-31
   calsift holidays list --format json`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "year",
				Aliases: []string{"y"},
				Usage:   "Calendar year to list (default: current year)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Range start (YYYY-MM-DD, overrides --year)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Range end (YYYY-MM-DD, overrides --year)",
			},
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHolidaysList(ctx, cmd)
		},
	}
}

func runHolidaysList(ctx context.Context, cmd *cli.Command) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, appConfig)
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

	outputPath := cmd.String("output")
	w, closeOutput, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	if err := newRenderer(format, outputPath).Events(holiday.Events(holidays), w); err != nil {
		return err
	}
	return closeOutput()
}

func holidaysCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check whether a date is an official holiday",
		ArgsUsage: "DATE",
		UsageText: "calsift holidays check 2025-01-01",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return errors.New("check requires exactly one DATE argument")
			}
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}

			appConfig, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, store, err := newHolidayProvider(ctx, appConfig)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			if name := provider.Name(day); name != "" {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s is %s", day.Format(dayFormat), name)))
			} else {
				fmt.Printf("%s is not an official holiday\n", day.Format(dayFormat))
			}
			return nil
		},
	}
}

func holidaysNextCommand() *cli.Command {
	return &cli.Command{
		Name:      "next",
		Usage:     "Show the next holiday after a date",
		ArgsUsage: "[DATE]",
		UsageText: `calsift holidays next
   calsift holidays next 2025-04-01`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			after := time.Now().UTC().Truncate(24 * time.Hour)
			if args := cmd.Args().Slice(); len(args) == 1 {
				day, err := parseDay(args[0])
				if err != nil {
					return err
				}
				after = day
			}

			appConfig, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			provider, store, err := newHolidayProvider(ctx, appConfig)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			next, ok := provider.Next(after)
			if !ok {
				fmt.Printf("No holiday on record after %s\n", after.Format(dayFormat))
				return nil
			}
			days := int(next.Date.Sub(after).Hours() / 24)
			fmt.Printf("%s %s (in %d day(s))\n", next.Date.Format(dayFormat), next.Name, days)
			return nil
		},
	}
}

func holidaysRefreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Force a refresh of the cached holiday data",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appConfig, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := holiday.OpenStore(appConfig.Holiday.CacheLocation)
			if err != nil {
				return fmt.Errorf("opening holiday cache: %w", err)
			}
			defer store.Close() //nolint:errcheck

			provider := holiday.NewProvider(store, holiday.ProviderOptions{
				URL: appConfig.Holiday.URL,
				TTL: appConfig.Holiday.RefreshTTL,
			})
			if err := provider.Refresh(ctx); err != nil {
				return err
			}

			year := time.Now().Year()
			fmt.Println(ui.StatusSuccess(fmt.Sprintf(
				"holiday data refreshed (%d holidays in %d)", len(provider.Year(year)), year)))
			return nil
		},
	}
}
