package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/ipsbench/internal/config"
	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/spboyer/ipsbench/internal/orchestration"
	"github.com/spboyer/ipsbench/internal/statistics"
	"github.com/spboyer/ipsbench/internal/suite"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Benchmark finished or was held for the next run
	ExitFailed  = 1 // Runtime error while measuring or delivering results
	ExitConfig  = 2 // Configuration error; nothing was timed
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if isConfigError(err) {
		return ExitConfig
	}
	return ExitFailed
}

func isConfigError(err error) bool {
	var cfgErr *orchestration.ConfigError
	switch {
	case errors.As(err, &cfgErr),
		errors.Is(err, config.ErrInvalidOption),
		errors.Is(err, statistics.ErrUnknownMode),
		errors.Is(err, statistics.ErrBootstrapUnavailable),
		errors.Is(err, suite.ErrInvalidSuite),
		errors.Is(err, entry.ErrNoAction),
		errors.Is(err, entry.ErrAmbiguousAction),
		errors.Is(err, entry.ErrInvalidAction),
		errors.Is(err, entry.ErrEmptyCommand):
		return true
	}
	return false
}
