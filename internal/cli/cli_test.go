package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauern/calsift/internal/render"
	"github.com/klauern/calsift/internal/util"
)

func icsFixture(lines ...string) string {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"PRODID:-//test//test//EN",
		"VERSION:2.0",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func holidayVEvent(uid, summary, day string) []string {
	return []string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"SUMMARY:" + summary,
		"DTSTART;VALUE=DATE:" + day,
		"END:VEVENT",
	}
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2025-01-01")
	util.AssertNoError(t, err)
	if day.Year() != 2025 || day.Month() != time.January || day.Day() != 1 {
		t.Errorf("parseDay = %v", day)
	}

	if _, err := parseDay("01/01/2025"); err == nil {
		t.Error("parseDay accepted a slash-formatted date")
	}
}

func TestExpandWindow(t *testing.T) {
	start, end := expandWindow(0)
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("expandWindow(0) = %v, %v, want zero window", start, end)
	}

	start, end = expandWindow(30)
	if !start.Before(end) {
		t.Errorf("expandWindow(30) start %v not before end %v", start, end)
	}
	if got := end.Sub(start); got != 60*24*time.Hour {
		t.Errorf("window span = %v, want 60 days", got)
	}
}

func TestLoadCalendar_ICS(t *testing.T) {
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "holidays.ics")
	util.WriteFile(t, path, icsFixture(holidayVEvent("e1", "元日", "20250101")...))

	events, err := loadCalendar(path, time.Time{}, time.Time{})
	util.AssertNoError(t, err)
	if len(events) != 1 || events[0].Summary != "元日" {
		t.Errorf("events = %+v", events)
	}
}

func TestLoadCalendar_AWSJSON(t *testing.T) {
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "change-calendar.json")
	util.WriteFile(t, path, `{
  "name": "prod-freeze",
  "events": [
    {"id": "evt-1", "summary": "Freeze", "start": "2025-12-24T00:00:00Z", "end": "2025-12-26T00:00:00Z"}
  ]
}`)

	events, err := loadCalendar(path, time.Time{}, time.Time{})
	util.AssertNoError(t, err)
	if len(events) != 1 || events[0].Summary != "Freeze" {
		t.Errorf("events = %+v", events)
	}
	if events[0].Categories != "AWS-Change-Calendar" {
		t.Errorf("Categories = %q", events[0].Categories)
	}
}

func TestMatchCalendarPairs(t *testing.T) {
	beforeDir := util.CreateTempDir(t)
	afterDir := util.CreateTempDir(t)

	util.WriteFile(t, filepath.Join(beforeDir, "a.ics"), "x")
	util.WriteFile(t, filepath.Join(beforeDir, "b.ics"), "x")
	util.WriteFile(t, filepath.Join(beforeDir, "notes.txt"), "x")
	util.WriteFile(t, filepath.Join(afterDir, "b.ics"), "x")
	util.WriteFile(t, filepath.Join(afterDir, "c.json"), "x")

	pairs, err := matchCalendarPairs(beforeDir, afterDir)
	util.AssertNoError(t, err)
	if len(pairs) != 1 || pairs[0] != "b.ics" {
		t.Errorf("pairs = %v, want [b.ics]", pairs)
	}
}

func TestRun_CompareFiles(t *testing.T) {
	dir := util.CreateTempDir(t)
	beforePath := filepath.Join(dir, "before.ics")
	afterPath := filepath.Join(dir, "after.ics")
	outPath := filepath.Join(dir, "diff.json")

	util.WriteFile(t, beforePath, icsFixture(holidayVEvent("e1", "元日", "20250101")...))
	util.WriteFile(t, afterPath, icsFixture(append(
		holidayVEvent("e1", "元日", "20250101"),
		holidayVEvent("e2", "成人の日", "20250113")...)...))

	err := Run(context.Background(), []string{
		"calsift", "compare", "--format", "json", "-o", outPath, beforePath, afterPath,
	})
	util.AssertNoError(t, err)

	data, err := os.ReadFile(outPath)
	util.AssertNoError(t, err)

	var report render.DiffReport
	util.AssertNoError(t, json.Unmarshal(data, &report))
	if report.Result.Statistics.Added != 1 {
		t.Errorf("Added = %d, want 1", report.Result.Statistics.Added)
	}
	if report.Result.Statistics.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", report.Result.Statistics.Unchanged)
	}
}

func TestRun_CompareDirs(t *testing.T) {
	dir := util.CreateTempDir(t)
	beforeDir := filepath.Join(dir, "before")
	afterDir := filepath.Join(dir, "after")
	util.AssertNoError(t, os.MkdirAll(beforeDir, 0o750))
	util.AssertNoError(t, os.MkdirAll(afterDir, 0o750))

	util.WriteFile(t, filepath.Join(beforeDir, "team.ics"),
		icsFixture(holidayVEvent("e1", "元日", "20250101")...))
	util.WriteFile(t, filepath.Join(afterDir, "team.ics"),
		icsFixture(holidayVEvent("e1", "元日（振替）", "20250101")...))

	outPath := filepath.Join(dir, "batch.json")
	err := Run(context.Background(), []string{
		"calsift", "compare", "--format", "json", "-o", outPath, beforeDir, afterDir,
	})
	util.AssertNoError(t, err)

	data, err := os.ReadFile(outPath)
	util.AssertNoError(t, err)

	var reports []render.DiffReport
	util.AssertNoError(t, json.Unmarshal(data, &reports))
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if reports[0].Result.Statistics.Modified != 1 {
		t.Errorf("Modified = %d, want 1", reports[0].Result.Statistics.Modified)
	}
}

func TestRun_CompareMixedArgsRejected(t *testing.T) {
	dir := util.CreateTempDir(t)
	filePath := filepath.Join(dir, "a.ics")
	util.WriteFile(t, filePath, icsFixture())

	err := Run(context.Background(), []string{"calsift", "compare", filePath, dir})
	if err == nil {
		t.Error("expected error for file/directory mix")
	}
}

func TestRun_Analyze(t *testing.T) {
	dir := util.CreateTempDir(t)
	path := filepath.Join(dir, "holidays.ics")
	util.WriteFile(t, path, icsFixture(holidayVEvent("e1", "元日", "20250101")...))

	outPath := filepath.Join(dir, "report.json")
	err := Run(context.Background(), []string{
		"calsift", "analyze", "--format", "json", "-o", outPath, path,
	})
	util.AssertNoError(t, err)

	data, err := os.ReadFile(outPath)
	util.AssertNoError(t, err)
	var decoded map[string]any
	util.AssertNoError(t, json.Unmarshal(data, &decoded))
	if decoded["total_events"] != float64(1) {
		t.Errorf("total_events = %v, want 1", decoded["total_events"])
	}
}

func TestRun_Version(t *testing.T) {
	err := Run(context.Background(), []string{"calsift", "version"})
	util.AssertNoError(t, err)
}
