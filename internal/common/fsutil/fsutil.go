// Package fsutil holds the small filesystem helpers shared by the CLI and
// the run-output registry.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome resolves a leading "~" against the current user's home
// directory, so output locations like ~/chains work from config files and
// flags. Paths without the prefix pass through untouched.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists reports whether path refers to anything on disk. Errors other
// than non-existence (for example permission failures on a parent) count as
// existing, so callers never mistake an unreadable file for a missing one.
func PathExists(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return true
}
