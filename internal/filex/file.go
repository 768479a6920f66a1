package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold path. Relative paths
// resolve against the working directory. In-memory SQLite names such as
// ":memory:" or "file::memory:?cache=shared" are left alone.
func EnsureParentDir(path string) (string, error) {
	if path == "" || strings.Contains(path, ":memory:") {
		return "", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
