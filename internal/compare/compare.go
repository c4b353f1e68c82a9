// Package compare ranks measured entries against the fastest one and decides
// whether each difference is real or within error.
package compare

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spboyer/ipsbench/internal/statistics"
)

// Result is one entry's summarized throughput.
type Result struct {
	Label string
	Model statistics.Model
}

// Kind classifies a ranked result.
type Kind int

// Kind constants
const (
	Best Kind = iota
	Indistinguishable
	SlowerBy
)

func (k Kind) String() string {
	switch k {
	case Best:
		return "best"
	case Indistinguishable:
		return "same-ish"
	case SlowerBy:
		return "slower"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Verdict is the comparator's decision for one result. Factor and Error are
// set only for SlowerBy; Error is nil when the model's slowdown is exact.
type Verdict struct {
	Kind   Kind
	Factor float64
	Error  *float64
}

// Ranked pairs a result with its verdict.
type Ranked struct {
	Result
	Verdict Verdict
}

// Outcome is the ordered comparison, fastest first.
type Outcome struct {
	Ranked []Ranked
}

// Compare sorts results by central tendency, fastest first, keeping
// registration order on ties. Fewer than two results yield an empty Outcome.
func Compare(results []Result) Outcome {
	if len(results) < 2 {
		return Outcome{}
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b Result) int {
		return cmp.Compare(b.Model.CentralTendency(), a.Model.CentralTendency())
	})

	best := sorted[0]
	ranked := make([]Ranked, 0, len(sorted))
	ranked = append(ranked, Ranked{Result: best, Verdict: Verdict{Kind: Best}})

	for _, r := range sorted[1:] {
		if r.Model.Overlaps(best.Model) {
			ranked = append(ranked, Ranked{Result: r, Verdict: Verdict{Kind: Indistinguishable}})
			continue
		}
		factor, e := r.Model.Slowdown(best.Model)
		ranked = append(ranked, Ranked{
			Result:  r,
			Verdict: Verdict{Kind: SlowerBy, Factor: factor, Error: e},
		})
	}

	return Outcome{Ranked: ranked}
}

// Empty reports whether nothing was compared.
func (o Outcome) Empty() bool {
	return len(o.Ranked) == 0
}

// Best returns the fastest result.
func (o Outcome) Best() (Result, bool) {
	if o.Empty() {
		return Result{}, false
	}
	return o.Ranked[0].Result, true
}

// AnyIndistinguishable reports whether at least one result fell within the
// best result's error.
func (o Outcome) AnyIndistinguishable() bool {
	for _, r := range o.Ranked {
		if r.Verdict.Kind == Indistinguishable {
			return true
		}
	}
	return false
}

// Format writes the comparison block.
func (o Outcome) Format(w io.Writer) error {
	if o.Empty() {
		return nil
	}

	pw := &printer{w: w}
	pw.printf("\nComparison:\n")
	for _, r := range o.Ranked {
		pw.printf("%20s: %10.1f i/s", r.Label, r.Model.CentralTendency())
		switch r.Verdict.Kind {
		case Indistinguishable:
			pw.printf(" - same-ish: difference falls within error")
		case SlowerBy:
			pw.printf(" - %.2fx ", r.Verdict.Factor)
			if r.Verdict.Error != nil {
				pw.printf(" (± %.2f)", *r.Verdict.Error)
			}
			pw.printf(" slower")
		}
		pw.printf("\n")
	}

	if footer := o.Ranked[0].Model.Footer(); footer != "" {
		pw.printf("%40s\n", footer)
	}
	pw.printf("\n")
	return pw.err
}

// printer keeps the first write error so Format can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// BatchDuration is the per-batch sample length the calibrator targets.
const BatchDuration = 100 * time.Millisecond

// minSuggestedRatio keeps suggested time at more than this many batches.
const minSuggestedRatio = 20

// Suggestion is a stricter configuration for a future run. It is advisory
// only and never applied automatically.
type Suggestion struct {
	Time          time.Duration
	BatchDuration time.Duration
}

func (s Suggestion) String() string {
	return fmt.Sprintf("Some results are within error of the best; for a stricter run try time %s with %s batches",
		s.Time, s.BatchDuration)
}

// Suggest proposes doubling the measurement time and quadrupling the batch
// duration when a result was indistinguishable from the best. No suggestion
// is made when the proposed time would cover 20 batches or fewer.
func Suggest(o Outcome, measureTime, batch time.Duration) (Suggestion, bool) {
	if !o.AnyIndistinguishable() || batch <= 0 {
		return Suggestion{}, false
	}
	s := Suggestion{Time: measureTime * 2, BatchDuration: batch * 4}
	if float64(s.Time)/float64(s.BatchDuration) <= minSuggestedRatio {
		return Suggestion{}, false
	}
	return s, true
}
