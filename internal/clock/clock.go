// Package clock provides the monotonic microsecond time source used by the
// calibration and measurement loops.
package clock

import "time"

// MicrosecondsPerSecond is the number of microseconds in one second.
const MicrosecondsPerSecond = 1_000_000

// Clock returns monotonic readings in microseconds from an arbitrary origin.
// Only differences between two readings are meaningful.
type Clock interface {
	NowMicros() float64
}

// Monotonic reads Go's monotonic clock relative to the moment it was created.
type Monotonic struct {
	origin time.Time
}

// New returns a Monotonic clock anchored at the current instant.
func New() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// NowMicros implements Clock.
func (m *Monotonic) NowMicros() float64 {
	// time.Since uses the monotonic reading carried by origin.
	return float64(time.Since(m.origin).Nanoseconds()) / 1e3
}

// Micros converts a duration to fractional microseconds.
func Micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// Seconds converts fractional microseconds to seconds.
func Seconds(us float64) float64 {
	return us / MicrosecondsPerSecond
}
