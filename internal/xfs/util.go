package xfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading tilde (~) with the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}

// EnsureParentDir creates the directory holding path if it does not exist yet.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(ExpandTilde(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("xfs: failed to create directory %s: %w", dir, err)
	}

	return nil
}
