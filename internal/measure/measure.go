// Package measure implements warm-up calibration and the timed measurement
// loop. Both block the caller for their full configured duration and must
// never run concurrently with another measurement.
package measure

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/spboyer/ipsbench/internal/clock"
	"github.com/spboyer/ipsbench/internal/entry"
)

const (
	// MicrosecondsPer100ms is the batch length calibration aims for.
	MicrosecondsPer100ms = 100_000

	// MaxTimeSkew is the fraction of the requested duration the actual
	// measurement window may differ by before it is flagged as skewed.
	MaxTimeSkew = 0.05
)

// Quiesce stabilizes allocator and collector state before a timing phase.
type Quiesce func()

// CollectGarbage is the default Quiesce: a full, blocking GC cycle.
func CollectGarbage() {
	runtime.GC()
}

// NoQuiesce skips environment stabilization.
func NoQuiesce() {}

// Measurer runs calibration and measurement loops against a clock.
type Measurer struct {
	clock   clock.Clock
	quiesce Quiesce
}

// Option configures a Measurer.
type Option func(*Measurer)

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(m *Measurer) {
		m.clock = c
	}
}

// WithQuiesce replaces the GC hook run before each phase. A nil hook
// disables it.
func WithQuiesce(q Quiesce) Option {
	return func(m *Measurer) {
		if q == nil {
			q = NoQuiesce
		}
		m.quiesce = q
	}
}

// New creates a Measurer using the monotonic clock and CollectGarbage.
func New(opts ...Option) *Measurer {
	m := &Measurer{
		clock:   clock.New(),
		quiesce: CollectGarbage,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Calibration is the outcome of the warm-up phase for one entry.
type Calibration struct {
	CyclesPerBatch     int
	WarmupMicroseconds float64
	WarmupIterations   int
}

// Calibrate calls the entry one iteration at a time until warmup has elapsed
// and derives how many iterations fit in roughly 100ms. A non-positive warmup
// skips the loop and yields a batch size of 1.
func (m *Measurer) Calibrate(e *entry.Entry, warmup time.Duration) (Calibration, error) {
	if warmup <= 0 {
		return Calibration{CyclesPerBatch: 1}, nil
	}

	m.quiesce()

	before := m.clock.NowMicros()
	target := before + clock.Micros(warmup)

	iters := 0
	for m.clock.NowMicros() < target {
		if err := e.CallTimes(1); err != nil {
			return Calibration{}, fmt.Errorf("warming up %q: %w", e.Label(), err)
		}
		iters++
	}

	elapsed := m.clock.NowMicros() - before
	cal := Calibration{
		CyclesPerBatch:     CyclesPer100ms(elapsed, iters),
		WarmupMicroseconds: elapsed,
		WarmupIterations:   iters,
	}

	slog.Debug("Calibrated entry",
		"label", e.Label(),
		"warmup_us", elapsed,
		"warmup_iterations", iters,
		"cycles_per_batch", cal.CyclesPerBatch)

	return cal, nil
}

// CyclesPer100ms returns floor((100000 / elapsedUS) * iters), clamped to at
// least 1. A non-positive elapsed time yields 1.
func CyclesPer100ms(elapsedUS float64, iters int) int {
	if elapsedUS <= 0 {
		return 1
	}
	cycles := math.Floor((MicrosecondsPer100ms / elapsedUS) * float64(iters))
	if cycles < 1 || math.IsNaN(cycles) {
		return 1
	}
	if cycles > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(cycles)
}

// Sample is one timed batch.
type Sample struct {
	ElapsedMicroseconds float64
	Cycles              int
}

// IterationsPerSecond returns the batch throughput.
func (s Sample) IterationsPerSecond() float64 {
	return float64(s.Cycles) / (s.ElapsedMicroseconds / clock.MicrosecondsPerSecond)
}

// Measurement is the outcome of the timed phase for one entry.
type Measurement struct {
	TotalIterations   int64
	TotalMicroseconds float64
	Samples           []Sample
	// Discarded counts batches dropped for a non-positive elapsed time.
	Discarded int
	// Skewed is set when the loop stopped more than MaxTimeSkew of the
	// requested duration away from its deadline.
	Skewed bool
}

// Throughputs returns the per-batch iterations-per-second samples.
func (m Measurement) Throughputs() []float64 {
	out := make([]float64, len(m.Samples))
	for i, s := range m.Samples {
		out[i] = s.IterationsPerSecond()
	}
	return out
}

// Measure runs batches of cycles iterations until duration has elapsed.
// Batches whose elapsed time is not positive are discarded entirely.
func (m *Measurer) Measure(e *entry.Entry, cycles int, duration time.Duration) (Measurement, error) {
	if cycles < 1 {
		cycles = 1
	}

	m.quiesce()

	var res Measurement
	deadline := m.clock.NowMicros() + clock.Micros(duration)

	for m.clock.NowMicros() < deadline {
		before := m.clock.NowMicros()
		if err := e.CallTimes(cycles); err != nil {
			return Measurement{}, fmt.Errorf("measuring %q: %w", e.Label(), err)
		}
		after := m.clock.NowMicros()

		dt := after - before
		if dt <= 0 {
			res.Discarded++
			continue
		}

		res.TotalIterations += int64(cycles)
		res.TotalMicroseconds += dt
		res.Samples = append(res.Samples, Sample{ElapsedMicroseconds: dt, Cycles: cycles})
	}

	stop := m.clock.NowMicros()
	res.Skewed = math.Abs(stop-deadline) > clock.Micros(duration)*MaxTimeSkew

	if res.Discarded > 0 {
		slog.Debug("Discarded non-positive batches", "label", e.Label(), "count", res.Discarded)
	}
	if res.Skewed {
		slog.Debug("Measurement window skewed",
			"label", e.Label(),
			"requested_us", clock.Micros(duration),
			"overrun_us", stop-deadline)
	}

	return res, nil
}
