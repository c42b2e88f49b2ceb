package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigPath returns the calsift configuration directory (~/.calsift)
func ConfigPath() string {
	return filepath.Join(HomeDir(), ".calsift")
}

// CachePath returns the calsift cache directory (~/.calsift/cache)
func CachePath() string {
	return filepath.Join(ConfigPath(), "cache")
}

// HolidayCachePath returns the default holiday database path
func HolidayCachePath() string {
	return filepath.Join(CachePath(), "holidays.db")
}

// ExpandPath expands a leading ~ to the home directory and resolves
// relative paths against baseDir. Returns "" for an empty input.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}
