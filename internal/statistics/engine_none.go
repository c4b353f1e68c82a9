//go:build nobootstrap

package statistics

// Built with -tags nobootstrap: no resampling engine, so bootstrap models
// fail with ErrBootstrapUnavailable.
var engine resampler
