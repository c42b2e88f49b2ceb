// Package holiday fetches the Cabinet Office's official Japanese holiday
// CSV and answers date queries against a locally cached copy.
package holiday

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"

	"github.com/klauern/calsift/internal/ics"
	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// CabinetOfficeURL is the official holiday CSV published by the Japanese
// Cabinet Office. The file is Shift_JIS encoded.
const CabinetOfficeURL = "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv"

// CacheTTL is how long a fetched holiday set stays fresh.
const CacheTTL = 30 * 24 * time.Hour

// holidayLawYear is when the Public Holiday Law took effect; rows before
// it indicate corrupt data.
const holidayLawYear = 1948

const dayFormat = "2006-01-02"

// Holiday is one official holiday.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// Provider answers holiday queries, refreshing its sqlite-backed cache
// from the Cabinet Office when the cached copy is stale.
type Provider struct {
	store   *Store
	client  *http.Client
	limiter *rate.Limiter
	url     string
	ttl     time.Duration
	now     func() time.Time

	holidays map[string]string
	loaded   bool
}

// ProviderOptions tunes the provider; the zero value is usable.
type ProviderOptions struct {
	// URL overrides the Cabinet Office endpoint, mostly for tests.
	URL string
	// Client overrides the HTTP client.
	Client *http.Client
	// TTL overrides how long cached data stays fresh (default CacheTTL).
	TTL time.Duration
	// Now overrides the clock, for TTL tests.
	Now func() time.Time
}

// NewProvider builds a provider over the given cache store.
func NewProvider(store *Store, opts ProviderOptions) *Provider {
	url := opts.URL
	if url == "" {
		url = CabinetOfficeURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = CacheTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		store:  store,
		client: client,
		// One request per 10s is plenty for a file that changes yearly.
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
		url:     url,
		ttl:     ttl,
		now:     now,
	}
}

// Load makes sure holiday data is in memory, refreshing from the network
// when the cache is empty or older than the TTL.
func (p *Provider) Load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	fetchedAt, err := p.store.FetchedAt(ctx)
	if err != nil {
		return err
	}
	if fetchedAt.IsZero() || p.now().Sub(fetchedAt) > p.ttl {
		if err := p.Refresh(ctx); err != nil {
			// A stale cache is still better than nothing when the
			// network is down.
			if fetchedAt.IsZero() {
				return err
			}
			logging.Warn("holiday refresh failed, using stale cache",
				logging.Err(err),
				"fetched_at", fetchedAt.Format(time.RFC3339),
			)
		}
	}

	holidays, err := p.store.All(ctx)
	if err != nil {
		return err
	}
	p.index(holidays)
	return nil
}

// Refresh fetches the official CSV and replaces the cache regardless of TTL.
func (p *Provider) Refresh(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching holiday CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching holiday CSV: unexpected status %s", resp.Status)
	}

	holidays, err := ParseCSV(resp.Body)
	if err != nil {
		return err
	}
	if err := validate(holidays); err != nil {
		return err
	}

	if err := p.store.Replace(ctx, holidays, p.now()); err != nil {
		return err
	}
	p.index(holidays)

	logging.Info("refreshed holiday data",
		logging.Source(p.url),
		logging.Count(len(holidays)),
	)
	return nil
}

func (p *Provider) index(holidays []Holiday) {
	p.holidays = make(map[string]string, len(holidays))
	for _, h := range holidays {
		p.holidays[h.Date.Format(dayFormat)] = h.Name
	}
	p.loaded = true
}

// IsHoliday reports whether the given date is an official holiday.
func (p *Provider) IsHoliday(day time.Time) bool {
	_, ok := p.holidays[day.Format(dayFormat)]
	return ok
}

// Name returns the holiday name for a date, or "" when it is not one.
func (p *Provider) Name(day time.Time) string {
	return p.holidays[day.Format(dayFormat)]
}

// Range returns holidays within [from, to], sorted by date.
func (p *Provider) Range(from, to time.Time) []Holiday {
	var out []Holiday
	for key, name := range p.holidays {
		day, err := time.ParseInLocation(dayFormat, key, time.UTC)
		if err != nil {
			continue
		}
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, Holiday{Date: day, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Year returns every holiday in the given calendar year.
func (p *Provider) Year(year int) []Holiday {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	return p.Range(from, to)
}

// Next returns the first holiday strictly after the given date, or false
// when none is known.
func (p *Provider) Next(after time.Time) (Holiday, bool) {
	var best Holiday
	var found bool
	for key, name := range p.holidays {
		day, err := time.ParseInLocation(dayFormat, key, time.UTC)
		if err != nil {
			continue
		}
		if !day.After(after) {
			continue
		}
		if !found || day.Before(best.Date) {
			best = Holiday{Date: day, Name: name}
			found = true
		}
	}
	return best, found
}

// Events converts holidays into canonical all-day events suitable for
// calendar generation and diffing.
func Events(holidays []Holiday) []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, len(holidays))
	for _, h := range holidays {
		start := h.Date
		end := h.Date.AddDate(0, 0, 1)
		events = append(events, model.CalendarEvent{
			UID:         ics.HolidayUID(h.Date),
			Summary:     h.Name,
			Description: fmt.Sprintf("日本の祝日: %s", h.Name),
			Categories:  "Japanese-Holiday",
			Start:       &start,
			End:         &end,
		})
	}
	return events
}

// ParseCSV decodes the Cabinet Office CSV. The official file is Shift_JIS;
// a payload that is already valid UTF-8 is accepted as-is.
func ParseCSV(r io.Reader) ([]Holiday, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading holiday CSV: %w", err)
	}
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("decoding Shift_JIS holiday CSV: %w", err)
		}
	}

	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing holiday CSV: %w", err)
	}

	var holidays []Holiday
	for i, record := range records {
		if i == 0 {
			// Header row.
			continue
		}
		if len(record) < 2 {
			continue
		}
		day, err := time.ParseInLocation("2006/1/2", strings.TrimSpace(record[0]), time.UTC)
		if err != nil {
			logging.Warn("skipping unparseable holiday row", "row", i+1, logging.Err(err))
			continue
		}
		name := strings.TrimSpace(record[1])
		holidays = append(holidays, Holiday{Date: day, Name: name})
	}
	return holidays, nil
}

func validate(holidays []Holiday) error {
	if len(holidays) == 0 {
		return fmt.Errorf("holiday data is empty")
	}
	for _, h := range holidays {
		if h.Name == "" {
			return fmt.Errorf("holiday %s has an empty name", h.Date.Format(dayFormat))
		}
		if h.Date.Year() < holidayLawYear {
			return fmt.Errorf("holiday %s predates the Public Holiday Law", h.Date.Format(dayFormat))
		}
	}
	return nil
}
