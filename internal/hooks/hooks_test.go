package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		hook      Hook
		wantErr   bool
		errSubstr string
	}{
		{name: "success", hook: Hook{Command: "true"}},
		{name: "failure ignored", hook: Hook{Command: "false"}},
		{name: "failure fails", hook: Hook{Command: "false", ErrorOnFail: true}, wantErr: true, errSubstr: "exited with code 1"},
		{name: "allowed exit code", hook: Hook{Command: "false", ExitCodes: []int{0, 1}, ErrorOnFail: true}},
		{name: "success not in allowed codes", hook: Hook{Command: "true", ExitCodes: []int{1}, ErrorOnFail: true}, wantErr: true, errSubstr: "exited with code 0"},
		{name: "empty command", hook: Hook{Command: "   "}, wantErr: true, errSubstr: "empty command"},
		{name: "missing binary ignored", hook: Hook{Command: "ipsbench-no-such-binary"}},
		{name: "missing binary fails", hook: Hook{Command: "ipsbench-no-such-binary", ErrorOnFail: true}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Runner{}
			err := r.run(context.Background(), BeforeRun, 0, tc.hook)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSubstr)
		})
	}
}

func TestExecute_RelativeDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "work"), 0o755))

	r := &Runner{BaseDir: base}
	err := r.Execute(context.Background(), BeforeRun, []Hook{
		{Command: "touch marker", Dir: "work", ErrorOnFail: true},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(base, "work", "marker"))
}

func TestExecute_StopsOnFailure(t *testing.T) {
	base := t.TempDir()
	r := &Runner{BaseDir: base}
	err := r.Execute(context.Background(), AfterRun, []Hook{
		{Command: "false", ErrorOnFail: true},
		{Command: "touch marker"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after_run[0]")
	assert.NoFileExists(t, filepath.Join(base, "marker"))
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	err := r.Execute(ctx, BeforeRun, []Hook{{Command: "true"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDir(t *testing.T) {
	r := &Runner{BaseDir: "/suites"}
	assert.Equal(t, "/suites", r.dir(""))
	assert.Equal(t, "/suites/setup", r.dir("setup"))
	assert.Equal(t, "/tmp", r.dir("/tmp"))
	assert.Equal(t, "setup", (&Runner{}).dir("setup"))
}
