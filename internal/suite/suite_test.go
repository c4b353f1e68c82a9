package suite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scriptSuite = `name: arithmetic
options:
  warmup: 0
  time: 0.5
  compare: true
entries:
  - label: add
    script: "expr {1 + 2}"
  - label: multiply
    script: "expr {6 * 7}"
`

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSuite(t, scriptSuite)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", s.Name)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, filepath.Dir(path), s.Dir())
	require.Len(t, s.Entries, 2)
	assert.Equal(t, "add", s.Entries[0].Label)
	assert.Equal(t, "expr {6 * 7}", s.Entries[1].Script)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_SchemaViolation(t *testing.T) {
	_, err := Parse("bad.yaml", []byte("name: x\nentries:\n  - label: nothing\n"))
	require.ErrorIs(t, err, ErrInvalidSuite)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bad.yaml", ve.Path)
	assert.NotEmpty(t, ve.Issues)
	assert.Contains(t, err.Error(), "/entries/0")
}

func TestParse_DuplicateLabels(t *testing.T) {
	_, err := Parse("dup.yaml", []byte(`name: x
entries:
  - label: a
    script: "set x 1"
  - label: a
    script: "set x 2"
`))
	require.ErrorIs(t, err, ErrInvalidSuite)
	assert.Contains(t, err.Error(), `duplicate entry label "a"`)
}

func TestBuild_Scripts(t *testing.T) {
	s, err := Parse("s.yaml", []byte(scriptSuite))
	require.NoError(t, err)

	entries, err := s.Build()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	t.Cleanup(func() {
		for _, e := range entries {
			_ = e.Close()
		}
	})

	assert.Equal(t, "add", entries[0].Label())
	_, ok := entries[0].Action().(*entry.ScriptAction)
	assert.True(t, ok)
	require.NoError(t, entries[0].CallTimes(3))
}

func TestBuild_Command(t *testing.T) {
	s := &Suite{
		Name: "cmd",
		Path: filepath.Join(t.TempDir(), "suite.yaml"),
		Entries: []EntrySpec{
			{Label: "true", Command: []string{"true"}, Dir: "."},
		},
	}

	entries, err := s.Build()
	if errors.Is(err, entry.ErrEmptyCommand) {
		t.Fatal(err)
	}
	if err != nil {
		t.Skipf("true not available: %v", err)
	}
	require.Len(t, entries, 1)
	_, ok := entries[0].Action().(*entry.CommandAction)
	assert.True(t, ok)
	require.NoError(t, entries[0].CallTimes(1))
}

func TestBuild_AmbiguousEntry(t *testing.T) {
	s := &Suite{Entries: []EntrySpec{{Label: "x", Script: "set a 1", Command: []string{"true"}}}}
	_, err := s.Build()
	require.ErrorIs(t, err, entry.ErrAmbiguousAction)
}

func TestBuild_EmptyEntry(t *testing.T) {
	s := &Suite{Entries: []EntrySpec{{Label: "ok", Script: "set a 1"}, {Label: "empty"}}}
	_, err := s.Build()
	require.ErrorIs(t, err, entry.ErrNoAction)
}

func TestParse_Hooks(t *testing.T) {
	s, err := Parse("/suites/hooked.yaml", []byte(`name: hooked
hooks:
  before_run:
    - command: make fixtures
      dir: data
      error_on_fail: true
  after_run:
    - command: rm -f fixtures.db
      exit_codes: [0, 1]
entries:
  - label: a
    script: "expr {1 + 1}"
`))
	require.NoError(t, err)
	require.Len(t, s.Hooks.BeforeRun, 1)
	assert.Equal(t, "make fixtures", s.Hooks.BeforeRun[0].Command)
	assert.Equal(t, "data", s.Hooks.BeforeRun[0].Dir)
	assert.True(t, s.Hooks.BeforeRun[0].ErrorOnFail)
	require.Len(t, s.Hooks.AfterRun, 1)
	assert.Equal(t, []int{0, 1}, s.Hooks.AfterRun[0].ExitCodes)
	assert.Equal(t, "/suites", s.HookRunner().BaseDir)
}

func TestParse_HookWithoutCommand(t *testing.T) {
	_, err := Parse("bad.yaml", []byte(`name: bad
hooks:
  before_run:
    - dir: data
entries:
  - label: a
    script: "expr {1 + 1}"
`))
	require.ErrorIs(t, err, ErrInvalidSuite)
}

func TestBuild_CommandDirRelativeToSuite(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "work"), 0o755))
	s := &Suite{
		Name: "cmd",
		Path: filepath.Join(root, "suite.yaml"),
		Entries: []EntrySpec{
			{Label: "touch", Command: []string{"touch", "ran"}, Dir: "work"},
		},
	}

	entries, err := s.Build()
	if err != nil {
		t.Skipf("touch not available: %v", err)
	}
	require.Len(t, entries, 1)
	require.NoError(t, entries[0].CallTimes(1))
	assert.FileExists(t, filepath.Join(root, "work", "ran"))
}
