package entry

import (
	"fmt"
	"strconv"

	"github.com/feather-lang/feather"
)

// scriptProc is the name of the procedure a script body is compiled into.
const scriptProc = "__ipsbench_call_times"

// ScriptAction runs a TCL body inside a counted loop. The body is wrapped in a
// procedure once at compile time so each batch is a single procedure call.
type ScriptAction struct {
	interp *feather.Interp
	source string
}

// CompileScript defines the looping procedure for source in a fresh
// interpreter. Errors inside the body surface on the first CallTimes.
func CompileScript(source string) (*ScriptAction, error) {
	interp := feather.New()

	def := fmt.Sprintf(
		"proc %s {__total} {\n  set __i 0\n  while {$__i < $__total} {\n%s\n    incr __i\n  }\n}",
		scriptProc, source)
	if _, err := interp.Eval(def); err != nil {
		interp.Close()
		return nil, fmt.Errorf("compiling script: %w", err)
	}

	return &ScriptAction{interp: interp, source: source}, nil
}

// Source returns the original script body.
func (s *ScriptAction) Source() string {
	return s.source
}

// CallTimes implements Action.
func (s *ScriptAction) CallTimes(n int) error {
	if _, err := s.interp.Eval(scriptProc + " " + strconv.Itoa(n)); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// Close releases the interpreter.
func (s *ScriptAction) Close() error {
	if s.interp != nil {
		s.interp.Close()
		s.interp = nil
	}
	return nil
}
