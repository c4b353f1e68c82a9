package entry

import (
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAction struct {
	batches []int
}

func (c *countingAction) CallTimes(n int) error {
	c.batches = append(c.batches, n)
	return nil
}

func TestNew_RequiresExactlyOneAction(t *testing.T) {
	_, err := New("none", "", nil)
	require.ErrorIs(t, err, ErrNoAction)

	_, err = New("both", "set x 1", func() {})
	require.ErrorIs(t, err, ErrAmbiguousAction)

	_, err = New("whitespace", "   \n", nil)
	require.ErrorIs(t, err, ErrNoAction)
}

func TestNew_RejectsUnsupportedCallable(t *testing.T) {
	_, err := New("bad", "", func(s string) {})
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestNew_LoopCallsFunctionNTimes(t *testing.T) {
	calls := 0
	e, err := New("loop", "", func() { calls++ })
	require.NoError(t, err)

	require.NoError(t, e.CallTimes(7))
	assert.Equal(t, 7, calls)
	assert.Equal(t, "loop", e.Label())
}

func TestNew_CallableReceivesBatchSize(t *testing.T) {
	var got []int
	e, err := New("callable", "", func(n int) { got = append(got, n) })
	require.NoError(t, err)

	require.NoError(t, e.CallTimes(3))
	require.NoError(t, e.CallTimes(100))
	assert.Equal(t, []int{3, 100}, got)
}

func TestNew_AcceptsAction(t *testing.T) {
	a := &countingAction{}
	e, err := New("action", "", a)
	require.NoError(t, err)

	require.NoError(t, e.CallTimes(5))
	assert.Equal(t, []int{5}, a.batches)
	assert.Same(t, a, e.Action())
}

func TestFromAction_Nil(t *testing.T) {
	_, err := FromAction("nil", nil)
	require.ErrorIs(t, err, ErrNoAction)
}

func TestLoop_ZeroTimes(t *testing.T) {
	calls := 0
	require.NoError(t, Loop(func() { calls++ }).CallTimes(0))
	assert.Zero(t, calls)
}

func TestClose_NoopForFunctions(t *testing.T) {
	e, err := New("loop", "", func() {})
	require.NoError(t, err)
	assert.NoError(t, e.Close())
}

func TestNewCommand_Empty(t *testing.T) {
	_, err := NewCommand(nil, "")
	require.ErrorIs(t, err, ErrEmptyCommand)
}

func TestNewCommand_UnknownProgram(t *testing.T) {
	_, err := NewCommand([]string{"ipsbench-definitely-not-a-program"}, "")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestCommandAction_RunsProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the true utility")
	}
	a, err := NewCommand([]string{"true"}, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, a.CallTimes(2))
}

func TestCommandAction_ReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the false utility")
	}
	a, err := NewCommand([]string{"false"}, "")
	require.NoError(t, err)
	require.Error(t, a.CallTimes(1))
}
