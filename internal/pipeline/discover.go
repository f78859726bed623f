package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoScripts indicates the source directory holds no query scripts
var ErrNoScripts = errors.New("no query script files found")

// DiscoverScripts lists the query scripts in dir with the given extension.
// The scan is flat (no subdirectories) and the result is sorted by name so
// runs are reproducible regardless of directory-listing order.
func DiscoverScripts(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read script directory %s: %w", dir, err)
	}

	var scripts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(scripts)

	if len(scripts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoScripts, dir)
	}
	return scripts, nil
}
