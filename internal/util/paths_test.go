package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}

	// Verify it's an absolute path
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()

	expected := filepath.Join(HomeDir(), ".calsift")
	if path != expected {
		t.Errorf("ConfigPath() = %q, want %q", path, expected)
	}
}

func TestHolidayCachePath(t *testing.T) {
	path := HolidayCachePath()

	expected := filepath.Join(HomeDir(), ".calsift", "cache", "holidays.db")
	if path != expected {
		t.Errorf("HolidayCachePath() = %q, want %q", path, expected)
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{
			name: "empty path",
			path: "",
			want: "",
		},
		{
			name: "tilde only",
			path: "~",
			want: HomeDir(),
		},
		{
			name: "tilde prefix",
			path: "~/.calsift/config.yaml",
			want: filepath.Join(HomeDir(), ".calsift", "config.yaml"),
		},
		{
			name:    "relative with base",
			path:    "calendars/before.ics",
			baseDir: "/srv/data",
			want:    "/srv/data/calendars/before.ics",
		},
		{
			name:    "absolute unchanged",
			path:    "/etc/calsift/config.yaml",
			baseDir: "/srv/data",
			want:    "/etc/calsift/config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ExpandPath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}
