//go:build !nobootstrap

package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapCI_EmptyScores(t *testing.T) {
	ci := BootstrapCI(nil, 0.95)
	if ci.Median != 0.0 || ci.Lower != 0.0 || ci.Upper != 0.0 {
		t.Errorf("expected zero CI for empty input, got %+v", ci)
	}
	if ci.NumBootstraps != 0 {
		t.Errorf("expected 0 bootstraps for empty input, got %d", ci.NumBootstraps)
	}
}

func TestBootstrapCI_SingleValue(t *testing.T) {
	ci := BootstrapCI([]float64{750}, 0.95)
	if ci.Median != 750 || ci.Lower != 750 || ci.Upper != 750 {
		t.Errorf("expected degenerate CI for single value, got %+v", ci)
	}
}

func TestBootstrapCI_IdenticalValues(t *testing.T) {
	ci := BootstrapCIWithSeed([]float64{500, 500, 500, 500}, 0.95, 42)
	if math.Abs(ci.Lower-500) > 1e-9 || math.Abs(ci.Upper-500) > 1e-9 {
		t.Errorf("expected CI [500, 500] for identical values, got [%f, %f]", ci.Lower, ci.Upper)
	}
	if ci.HalfWidth() > 1e-9 {
		t.Errorf("expected zero half-width, got %f", ci.HalfWidth())
	}
}

func TestBootstrapCI_KnownDistribution(t *testing.T) {
	scores := []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	ci := BootstrapCIWithSeed(scores, 0.95, 42)

	if ci.Median < 520 || ci.Median > 580 {
		t.Errorf("expected median ~550, got %f", ci.Median)
	}
	if ci.Lower >= ci.Median {
		t.Errorf("lower bound %f should be < median %f", ci.Lower, ci.Median)
	}
	if ci.Upper <= ci.Median {
		t.Errorf("upper bound %f should be > median %f", ci.Upper, ci.Median)
	}
	if ci.Lower < 100 || ci.Upper > 1000 {
		t.Errorf("CI should be within the sample range, got [%f, %f]", ci.Lower, ci.Upper)
	}
	if ci.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("expected %d bootstraps, got %d", DefaultBootstrapIterations, ci.NumBootstraps)
	}
	if ci.ConfidenceLevel != 0.95 {
		t.Errorf("expected confidence level 0.95, got %f", ci.ConfidenceLevel)
	}
}

func TestBootstrapCI_NarrowerAtHigherN(t *testing.T) {
	small := []float64{300, 500, 700}
	large := []float64{300, 400, 500, 600, 700, 300, 400, 500, 600, 700,
		300, 400, 500, 600, 700, 300, 400, 500, 600, 700}

	ciSmall := BootstrapCIWithSeed(small, 0.95, 42)
	ciLarge := BootstrapCIWithSeed(large, 0.95, 42)

	if ciLarge.HalfWidth() >= ciSmall.HalfWidth() {
		t.Errorf("larger sample should yield narrower CI: small=%f, large=%f",
			ciSmall.HalfWidth(), ciLarge.HalfWidth())
	}
}

func TestBootstrapCI_WiderAtHigherConfidence(t *testing.T) {
	scores := []float64{90, 110, 95, 105, 100, 98, 102, 97, 103, 99}

	ci90 := BootstrapCIWithSeed(scores, 0.90, 7)
	ci99 := BootstrapCIWithSeed(scores, 0.99, 7)

	assert.Greater(t, ci99.HalfWidth(), ci90.HalfWidth())
}

func TestNewBootstrap_TightSamplesMatchMean(t *testing.T) {
	samples := []float64{1000, 1002, 998, 1001, 999, 1000, 1003, 997, 1000, 1000}

	b, err := NewBootstrap(samples, 95, 1)
	require.NoError(t, err)
	sd, err := NewSD(samples)
	require.NoError(t, err)

	assert.InEpsilon(t, sd.CentralTendency(), b.CentralTendency(), 0.001)
	assert.Greater(t, b.Error(), 0.0)
	assert.Less(t, b.Error(), 5.0)
}

func TestNewBootstrap_SeedIsDeterministic(t *testing.T) {
	samples := []float64{10, 12, 9, 14, 11, 13, 8}

	a, err := NewBootstrap(samples, 95, 99)
	require.NoError(t, err)
	b, err := NewBootstrap(samples, 95, 99)
	require.NoError(t, err)

	assert.Equal(t, a.Interval(), b.Interval())
}

func TestNewBootstrap_RejectsBadConfidence(t *testing.T) {
	for _, c := range []float64{0, -5, 100, 150} {
		_, err := NewBootstrap([]float64{1, 2}, c, 1)
		assert.Error(t, err, "confidence %v", c)
	}
}

func TestNewBootstrap_DoesNotAliasSamples(t *testing.T) {
	samples := []float64{1, 2, 3}
	b, err := NewBootstrap(samples, 95, 1)
	require.NoError(t, err)

	samples[0] = 1e9
	assert.Equal(t, 1.0, b.samples[0])
}

func TestBootstrap_Footer(t *testing.T) {
	b, err := NewBootstrap([]float64{1, 2, 3}, 95, 1)
	require.NoError(t, err)
	assert.Equal(t, "with 95.0% confidence", b.Footer())

	b, err = NewBootstrap([]float64{1, 2, 3}, 99.5, 1)
	require.NoError(t, err)
	assert.Equal(t, "with 99.5% confidence", b.Footer())
}

func TestBootstrap_SlowdownAgainstBootstrap(t *testing.T) {
	fast, err := NewBootstrap([]float64{200, 202, 198, 201, 199, 200}, 95, 3)
	require.NoError(t, err)
	slow, err := NewBootstrap([]float64{100, 101, 99, 100, 100, 100}, 95, 3)
	require.NoError(t, err)

	factor, e := slow.Slowdown(fast)
	assert.InDelta(t, 2.0, factor, 0.02)
	require.NotNil(t, e)
	assert.Greater(t, *e, 0.0)
	assert.Less(t, *e, 0.05)
}

func TestBootstrap_SlowdownAgainstOtherModel(t *testing.T) {
	slow, err := NewBootstrap([]float64{100, 100, 100}, 95, 3)
	require.NoError(t, err)

	factor, e := slow.Slowdown(NewSDSummary(300, 0))
	assert.InDelta(t, 3.0, factor, 1e-9)
	assert.Nil(t, e)
}

func TestQuotientWithSeed_IdenticalInputs(t *testing.T) {
	q := QuotientWithSeed([]float64{50, 50}, []float64{25, 25}, 0.95, 5)
	assert.InDelta(t, 2.0, q.Median, 1e-12)
	assert.InDelta(t, 2.0, q.Lower, 1e-12)
	assert.InDelta(t, 2.0, q.Upper, 1e-12)
}

func TestNew_Bootstrap(t *testing.T) {
	m, err := New(ModeBootstrap, []float64{5, 5, 5}, WithConfidence(90), WithSeed(1))
	require.NoError(t, err)

	b, ok := m.(*Bootstrap)
	require.True(t, ok)
	assert.Equal(t, 5.0, b.CentralTendency())
	assert.Equal(t, "with 90.0% confidence", b.Footer())
	assert.NoError(t, Check(ModeBootstrap))
}
