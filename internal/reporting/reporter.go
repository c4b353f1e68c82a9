// Package reporting prints benchmark progress and delivers finished results
// to post-run sinks such as a JSON file, a share server or a Prometheus
// textfile.
package reporting

import (
	"context"
	"time"

	"github.com/spboyer/ipsbench/internal/models"
)

//go:generate go tool mockgen -source=reporter.go -destination=mock_reporter.go -package=reporting

// Reporter receives progress as a job runs. Calls arrive in order: for the
// warmup phase StartWarming, then Warming and WarmupStats per entry; for the
// measurement phase StartRunning, then Running and AddReport per entry; and
// Footer once at the end.
type Reporter interface {
	StartWarming()
	Warming(label string, warmup time.Duration)
	WarmupStats(warmupMicros float64, cyclesPerBatch int)
	StartRunning()
	Running(label string, duration time.Duration)
	AddReport(entry models.ReportEntry)
	Footer()
}

// Sink consumes the final records after every measurement has finished.
type Sink interface {
	PostRun(ctx context.Context, records []models.Record) error
}

// Multi fans every call out to several reporters in order.
type Multi []Reporter

func (m Multi) StartWarming() {
	for _, r := range m {
		r.StartWarming()
	}
}

func (m Multi) Warming(label string, warmup time.Duration) {
	for _, r := range m {
		r.Warming(label, warmup)
	}
}

func (m Multi) WarmupStats(warmupMicros float64, cyclesPerBatch int) {
	for _, r := range m {
		r.WarmupStats(warmupMicros, cyclesPerBatch)
	}
}

func (m Multi) StartRunning() {
	for _, r := range m {
		r.StartRunning()
	}
}

func (m Multi) Running(label string, duration time.Duration) {
	for _, r := range m {
		r.Running(label, duration)
	}
}

func (m Multi) AddReport(entry models.ReportEntry) {
	for _, r := range m {
		r.AddReport(entry)
	}
}

func (m Multi) Footer() {
	for _, r := range m {
		r.Footer()
	}
}

// Discard is a Reporter that prints nothing.
type Discard struct{}

func (Discard) StartWarming() {}
func (Discard) Warming(string, time.Duration) {}
func (Discard) WarmupStats(float64, int) {}
func (Discard) StartRunning() {}
func (Discard) Running(string, time.Duration) {}
func (Discard) AddReport(models.ReportEntry) {}
func (Discard) Footer() {}
