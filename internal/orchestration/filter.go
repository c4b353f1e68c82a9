package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/spboyer/ipsbench/internal/entry"
)

// FilterEntries returns the subset of entries whose label matches at least
// one of the given glob patterns. An empty patterns slice returns all
// entries unchanged.
func FilterEntries(entries []*entry.Entry, patterns []string) ([]*entry.Entry, error) {
	if len(patterns) == 0 {
		return entries, nil
	}

	var matched []*entry.Entry
	for _, e := range entries {
		ok, err := matchesAny(e.Label(), patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// matchesAny reports whether label matches any pattern.
func matchesAny(label string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, label)
		if err != nil {
			return false, fmt.Errorf("invalid entry filter pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
