// Package entry defines the named units of work a benchmark job measures.
package entry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAction is returned when an entry is registered with neither a
	// source body nor a callable.
	ErrNoAction = errors.New("no source or callable given")

	// ErrAmbiguousAction is returned when an entry is registered with both a
	// source body and a callable.
	ErrAmbiguousAction = errors.New("specify a source or a callable, but not both")

	// ErrInvalidAction is returned when the callable has an unsupported shape.
	ErrInvalidAction = errors.New("invalid action, must be func(), func(int) or an Action")
)

// Action runs a unit of work a given number of times in one tight batch.
type Action interface {
	CallTimes(n int) error
}

// Callable is invoked once per batch with the batch size and is expected to
// loop internally.
type Callable func(n int)

// CallTimes implements Action.
func (c Callable) CallTimes(n int) error {
	c(n)
	return nil
}

// Loop wraps a no-argument function so it is called n times per batch.
type Loop func()

// CallTimes implements Action.
func (l Loop) CallTimes(n int) error {
	for i := 0; i < n; i++ {
		l()
	}
	return nil
}

// Entry is a labeled action. It is immutable once created.
type Entry struct {
	label  string
	action Action
}

// New creates an entry from exactly one of source or fn. A non-empty source
// is compiled once into a ScriptAction; fn may be a func(), a func(int) or an
// Action.
func New(label, source string, fn any) (*Entry, error) {
	hasSource := strings.TrimSpace(source) != ""
	hasFn := fn != nil

	switch {
	case hasSource && hasFn:
		return nil, fmt.Errorf("entry %q: %w", label, ErrAmbiguousAction)
	case !hasSource && !hasFn:
		return nil, fmt.Errorf("entry %q: %w", label, ErrNoAction)
	}

	if hasSource {
		script, err := CompileScript(source)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", label, err)
		}
		return &Entry{label: label, action: script}, nil
	}

	action, err := asAction(fn)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", label, err)
	}
	return &Entry{label: label, action: action}, nil
}

// FromAction creates an entry around an already-built action.
func FromAction(label string, action Action) (*Entry, error) {
	if action == nil {
		return nil, fmt.Errorf("entry %q: %w", label, ErrNoAction)
	}
	return &Entry{label: label, action: action}, nil
}

func asAction(fn any) (Action, error) {
	switch f := fn.(type) {
	case Action:
		return f, nil
	case func(int):
		return Callable(f), nil
	case func():
		return Loop(f), nil
	default:
		return nil, ErrInvalidAction
	}
}

// Label returns the entry's label.
func (e *Entry) Label() string {
	return e.label
}

// Action returns the underlying action.
func (e *Entry) Action() Action {
	return e.action
}

// CallTimes runs the entry's action n times.
func (e *Entry) CallTimes(n int) error {
	return e.action.CallTimes(n)
}

// Close releases resources held by the action, such as a script interpreter.
func (e *Entry) Close() error {
	if c, ok := e.action.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
