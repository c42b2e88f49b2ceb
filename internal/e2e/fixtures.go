package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture provides helpers for creating calendar fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base
// directory, creating parent directories as needed. It returns the full
// path.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteCalendar writes an iCalendar file wrapping the given VEVENT blocks.
func (f *Fixture) WriteCalendar(relPath string, vevents ...string) string {
	f.t.Helper()

	lines := []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//calsift e2e//test//EN",
		"VERSION:2.0",
	}
	for _, ve := range vevents {
		lines = append(lines, strings.Split(strings.TrimSpace(ve), "\n")...)
	}
	lines = append(lines, "END:VCALENDAR")

	return f.WriteFile(relPath, strings.Join(lines, "\r\n")+"\r\n")
}

// AllDayEvent builds a VEVENT block for a single all-day event.
func AllDayEvent(uid, summary, day string) string {
	return strings.Join([]string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"SUMMARY:" + summary,
		"DTSTART;VALUE=DATE:" + day,
		"END:VEVENT",
	}, "\n")
}

// HolidayCSV builds a Cabinet Office style holiday CSV payload from
// date/name pairs in the order given.
func HolidayCSV(rows ...[2]string) string {
	var b strings.Builder
	b.WriteString("国民の祝日・休日月日,国民の祝日・休日名称\n")
	for _, row := range rows {
		b.WriteString(row[0] + "," + row[1] + "\n")
	}
	return b.String()
}
