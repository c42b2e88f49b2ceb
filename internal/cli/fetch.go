package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/calsift/internal/source/changecal"
	"github.com/klauern/calsift/internal/source/gcal"
	"github.com/klauern/calsift/internal/ui"
)

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch events from external calendar sources",
		Description: `Fetch events from an external source and emit them in a canonical
   form that compare and analyze understand. Supported sources are
   Google Calendar and AWS Change Calendar export documents.`,
		Commands: []*cli.Command{
			fetchAWSCommand(),
			fetchGoogleCommand(),
			fetchLoginCommand(),
		},
	}
}

func fetchAWSCommand() *cli.Command {
	return &cli.Command{
		Name:      "aws",
		Usage:     "Normalize an AWS Change Calendar JSON export",
		ArgsUsage: "FILE",
		UsageText: `calsift fetch aws change-calendar.json
   calsift fetch aws --format json -o events.json change-calendar.json`,
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
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
				return errors.New("fetch aws requires exactly one FILE argument")
			}
			events, err := changecal.NormalizeFile(args[0])
			if err != nil {
				return fmt.Errorf("normalizing %s: %w", args[0], err)
			}

			outputPath := cmd.String("output")
			w, closeOutput, err := outputWriter(outputPath)
			if err != nil {
				return err
			}
			defer closeOutput() //nolint:errcheck

			if err := newRenderer(format, outputPath).Events(events, w); err != nil {
				return err
			}
			return closeOutput()
		},
	}
}

func fetchGoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "google",
		Usage: "Fetch events from Google Calendar",
		UsageText: `calsift fetch google
   calsift fetch google --calendar team@example.com --days 90
   calsift fetch google --from 2025-01-01 --to 2025-12-31 --format json`,
		Description: `Fetch events from Google Calendar using the credentials and token
   configured under the google section. Run "calsift fetch login"
   first to authorize access.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "calendar",
				Usage: "Calendar ID to read (default from config)",
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Fetch events from today through N days ahead",
				Value: 90,
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Range start (YYYY-MM-DD, overrides --days)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Range end (YYYY-MM-DD, overrides --days)",
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
			return runFetchGoogle(ctx, cmd)
		},
	}
}

func runFetchGoogle(ctx context.Context, cmd *cli.Command) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, appConfig)
	if err != nil {
		return err
	}

	client, err := googleClient(appConfig.Google.CredentialsFile)
	if err != nil {
		return err
	}
	// #nosec G304 - token path comes from the user's own configuration
	tokenJSON, err := os.ReadFile(appConfig.Google.TokenFile)
	if err != nil {
		return fmt.Errorf("reading Google token (run \"calsift fetch login\" first): %w", err)
	}

	timeMin, timeMax, err := googleWindow(cmd)
	if err != nil {
		return err
	}

	calendarID := cmd.String("calendar")
	if calendarID == "" {
		calendarID = appConfig.Google.CalendarID
	}

	events, err := client.Events(ctx, tokenJSON, gcal.FetchOptions{
		CalendarID: calendarID,
		TimeMin:    timeMin,
		TimeMax:    timeMax,
	})
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	w, closeOutput, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	if err := newRenderer(format, outputPath).Events(events, w); err != nil {
		return err
	}
	return closeOutput()
}

// googleWindow resolves the fetch time bounds from --from/--to or --days.
func googleWindow(cmd *cli.Command) (time.Time, time.Time, error) {
	from, to := cmd.String("from"), cmd.String("to")
	if from != "" || to != "" {
		if from == "" || to == "" {
			return time.Time{}, time.Time{}, errors.New("--from and --to must be given together")
		}
		timeMin, err := parseDay(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		timeMax, err := parseDay(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timeMin, timeMax.AddDate(0, 0, 1), nil
	}

	now := time.Now().UTC()
	return now, now.AddDate(0, 0, int(cmd.Int("days"))), nil
}

func fetchLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authorize read access to Google Calendar",
		Description: `Run the OAuth authorization flow for Google Calendar and store the
   resulting token at the configured token path.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			appConfig, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			client, err := googleClient(appConfig.Google.CredentialsFile)
			if err != nil {
				return err
			}
			tokenJSON, err := client.Login(ctx)
			if err != nil {
				return err
			}

			if err := os.WriteFile(appConfig.Google.TokenFile, tokenJSON, 0o600); err != nil {
				return fmt.Errorf("storing Google token: %w", err)
			}
			fmt.Println(ui.StatusSuccess("Google Calendar access authorized"))
			return nil
		},
	}
}

func googleClient(credentialsFile string) (*gcal.Client, error) {
	// #nosec G304 - credentials path comes from the user's own configuration
	credJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading Google credentials at %s: %w", credentialsFile, err)
	}
	return gcal.NewClient(credJSON)
}
