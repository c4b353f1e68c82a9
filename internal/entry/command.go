package entry

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrEmptyCommand is returned when a command action has no program.
var ErrEmptyCommand = errors.New("command has no program")

// CommandAction runs an external program once per iteration. The program
// path is resolved when the action is built, not on every call.
type CommandAction struct {
	path string
	args []string
	dir  string
}

// NewCommand resolves argv[0] on PATH and returns an action running argv in
// dir. An empty dir means the current working directory.
func NewCommand(argv []string, dir string) (*CommandAction, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", argv[0], err)
	}
	return &CommandAction{path: path, args: argv[1:], dir: dir}, nil
}

// CallTimes implements Action.
func (c *CommandAction) CallTimes(n int) error {
	for i := 0; i < n; i++ {
		cmd := exec.Command(c.path, c.args...)
		cmd.Dir = c.dir
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %s: %w: %s", c.path, err, bytes.TrimSpace(stderr.Bytes()))
		}
	}
	return nil
}
