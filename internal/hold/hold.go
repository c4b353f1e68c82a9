// Package hold persists completed report entries between process
// invocations so a long benchmark can be measured one entry per run.
package hold

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spboyer/ipsbench/internal/models"
)

// Key identifies one held result.
type Key struct {
	Label string
	Pass  int
}

func keyOf(e models.ReportEntry) Key {
	return Key{Label: e.Label, Pass: e.Pass}
}

// Store is a file-backed map from (label, pass) to a ReportEntry. The file
// holds one JSON entry per line. A Store with an empty path holds nothing
// and never touches the filesystem.
type Store struct {
	path    string
	mu      sync.Mutex
	entries map[Key]models.ReportEntry
	order   []Key
}

// Open reads the hold file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[Key]models.ReportEntry)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hold file: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e models.ReportEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("parsing hold file %s line %d: %w", path, line, err)
		}
		s.put(e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading hold file: %w", err)
	}

	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Enabled reports whether the store is backed by a file.
func (s *Store) Enabled() bool {
	return s.path != ""
}

// Get returns the held result for label in the given pass.
func (s *Store) Get(label string, pass int) (models.ReportEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[Key{Label: label, Pass: pass}]
	return e, ok
}

// Put adds or replaces the entry and rewrites the hold file.
func (s *Store) Put(e models.ReportEntry) error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(e)
	return s.flush()
}

// Entries returns held entries in the order they were first stored.
func (s *Store) Entries() []models.ReportEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ReportEntry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// Len returns the number of held entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Clear forgets every entry and removes the hold file.
func (s *Store) Clear() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.reset()
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking hold file: %w", err)
	}
	// Safety check: never remove a directory
	if info.IsDir() {
		return fmt.Errorf("hold path %s is a directory - refusing to delete for safety", s.path)
	}

	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("removing hold file: %w", err)
	}
	s.reset()
	return nil
}

func (s *Store) put(e models.ReportEntry) {
	k := keyOf(e)
	if _, ok := s.entries[k]; !ok {
		s.order = append(s.order, k)
	}
	s.entries[k] = e
}

func (s *Store) reset() {
	s.entries = make(map[Key]models.ReportEntry)
	s.order = nil
}

// flush writes all entries to a temp file and renames it over the hold file.
func (s *Store) flush() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, k := range s.order {
		if err := enc.Encode(s.entries[k]); err != nil {
			return fmt.Errorf("marshaling held entry %q: %w", k.Label, err)
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating hold directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating hold file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing hold file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing hold file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing hold file: %w", err)
	}
	return nil
}
