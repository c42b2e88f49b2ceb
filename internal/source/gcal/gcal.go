// Package gcal fetches Google Calendar events and normalizes them into
// canonical records for comparison against local or AWS calendars.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// Category tags every normalized event with its origin.
const Category = "Google-Calendar"

const retrySleep = 5 * time.Second

// Client wraps the Calendar API behind OAuth credentials.
type Client struct {
	oauthCfg *oauth2.Config
}

// NewClient builds a client from a Google OAuth credentials JSON blob.
func NewClient(credJSON []byte) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing Google credentials: %w", err)
	}
	return &Client{oauthCfg: oauthCfg}, nil
}

// FetchOptions bounds an event listing.
type FetchOptions struct {
	// CalendarID is the calendar to read; "primary" when empty.
	CalendarID string
	// TimeMin / TimeMax bound the listing when non-zero.
	TimeMin time.Time
	TimeMax time.Time
}

// Events lists a calendar and converts each entry to a canonical event.
// Recurring events come back pre-expanded into single instances; cancelled
// instances are dropped.
func (c *Client) Events(ctx context.Context, tokenJSON []byte, opts FetchOptions) ([]model.CalendarEvent, error) {
	svc, err := c.service(ctx, tokenJSON)
	if err != nil {
		return nil, err
	}

	calendarID := opts.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	call := svc.Events.List(calendarID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime")
	if !opts.TimeMin.IsZero() {
		call = call.TimeMin(opts.TimeMin.Format(time.RFC3339))
	}
	if !opts.TimeMax.IsZero() {
		call = call.TimeMax(opts.TimeMax.Format(time.RFC3339))
	}

	var (
		events        []model.CalendarEvent
		nextPageToken string
		skipped       int
	)
	for {
		page, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(retrySleep):
				}
				continue
			}
			return nil, fmt.Errorf("listing events: %w", err)
		}

		for _, item := range page.Items {
			ev, ok := FromGoogleEvent(item)
			if !ok {
				skipped++
				continue
			}
			events = append(events, ev)
		}

		nextPageToken = page.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	logging.Debug("fetched Google Calendar events",
		logging.Calendar(calendarID),
		logging.Count(len(events)),
		"skipped", skipped,
	)
	return events, nil
}

// FromGoogleEvent converts one API event into the canonical form. The
// second return is false for entries that should not participate in a
// comparison, currently just cancelled instances.
func FromGoogleEvent(item *calendar.Event) (model.CalendarEvent, bool) {
	if item == nil || item.Status == "cancelled" {
		return model.CalendarEvent{}, false
	}
	return model.CalendarEvent{
		UID:         item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Categories:  Category,
		Start:       eventTime(item.Start),
		End:         eventTime(item.End),
	}, true
}

// eventTime resolves the dual DateTime/Date shape of the API's timestamps.
func eventTime(edt *calendar.EventDateTime) *time.Time {
	if edt == nil {
		return nil
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return &t
		}
		return nil
	}
	if edt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", edt.Date, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// Login walks the OAuth flow on a loopback server and returns the token as
// JSON for the config store.
func (c *Client) Login(ctx context.Context) ([]byte, error) {
	state := fmt.Sprintf("calsift-%d", time.Now().UTC().Nanosecond())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(os.Stdout, "\nGo to the following link in your browser\n%s\n", authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:              ":8080",
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var (
		token   *oauth2.Token
		authErr error
	)
	mux.HandleFunc("/calsift", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()
	<-serverCh

	if svrErr != nil && !errors.Is(svrErr, http.ErrServerClosed) {
		return nil, svrErr
	}
	if authErr != nil {
		return nil, authErr
	}
	return json.Marshal(token)
}

func (c *Client) service(ctx context.Context, tokenJSON []byte) (*calendar.Service, error) {
	var tok *oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("parsing stored token: %w", err)
	}
	httpClient := c.oauthCfg.Client(ctx, tok)
	return calendar.NewService(ctx, option.WithHTTPClient(httpClient))
}

func shouldRetry(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	for _, e := range gErr.Errors {
		if e.Reason == "rateLimitExceeded" {
			return true
		}
	}
	return false
}
