package reporting

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/ipsbench/internal/models"
)

// LabelWidth is the column labels are right-justified to.
const LabelWidth = 20

// Stream prints human-readable progress to a writer.
type Stream struct {
	out   io.Writer
	human bool
	last  *models.ReportEntry
	err   error
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithHumanFormat scales numbers with k/M/B/T suffixes.
func WithHumanFormat(human bool) StreamOption {
	return func(s *Stream) {
		s.human = human
	}
}

// NewStream returns a Stream writing to out.
func NewStream(out io.Writer, opts ...StreamOption) *Stream {
	s := &Stream{out: out}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Err returns the first write error, if any.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) StartWarming() {
	s.printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	s.printf("Warming up --------------------------------------\n")
}

func (s *Stream) Warming(label string, _ time.Duration) {
	s.printf("%s", rjust(label))
}

func (s *Stream) WarmupStats(_ float64, cyclesPerBatch int) {
	if s.human {
		s.printf("%s i/100ms\n", Scale(float64(cyclesPerBatch)))
		return
	}
	s.printf("%10d i/100ms\n", cyclesPerBatch)
}

func (s *Stream) StartRunning() {
	s.printf("Calculating -------------------------------------\n")
}

func (s *Stream) Running(label string, _ time.Duration) {
	s.printf("%s", rjust(label))
}

func (s *Stream) AddReport(entry models.ReportEntry) {
	s.printf(" %s\n", Body(entry, s.human))
	s.last = &entry
}

func (s *Stream) Footer() {
	if s.last == nil {
		return
	}
	if footer := s.last.Stats.Footer; footer != "" {
		s.printf("%40s\n", footer)
	}
}

func (s *Stream) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.out, format, args...)
}

// Body renders the throughput line printed after an entry's label.
func Body(e models.ReportEntry, human bool) string {
	if human {
		left := fmt.Sprintf("%s (±%4.1f%%) i/s", Scale(e.IPS()), e.ErrorPercentage())
		return ljust(left, LabelWidth) + fmt.Sprintf(" - %s in %10.6fs", Scale(float64(e.TotalIterations)), e.Seconds())
	}
	left := fmt.Sprintf("%10.1f (±%.1f%%) i/s", e.IPS(), e.ErrorPercentage())
	return ljust(left, LabelWidth) + fmt.Sprintf(" - %10d in %10.6fs", e.TotalIterations, e.Seconds())
}

// rjust right-justifies label to LabelWidth display columns. Longer labels
// are printed on their own line and the value column starts on the next.
func rjust(label string) string {
	if runewidth.StringWidth(label) > LabelWidth {
		return label + "\n" + strings.Repeat(" ", LabelWidth)
	}
	return runewidth.FillLeft(label, LabelWidth)
}

func ljust(s string, width int) string {
	return runewidth.FillRight(s, width)
}
