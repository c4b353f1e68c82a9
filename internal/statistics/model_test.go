package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"sd", ModeSD, false},
		{"bootstrap", ModeBootstrap, false},
		{" Bootstrap ", ModeBootstrap, false},
		{"", ModeSD, false},
		{"median", "", true},
		{"sd2", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_UnknownMode(t *testing.T) {
	require.ErrorIs(t, Check(Mode("kalibera")), ErrUnknownMode)
	require.NoError(t, Check(ModeSD))
}

func TestNew_RejectsEmptySamples(t *testing.T) {
	_, err := New(ModeSD, nil)
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = NewSD([]float64{})
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestNew_UnknownModeBeforeSamples(t *testing.T) {
	_, err := New(Mode("nope"), nil)
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestSD_MeanAndPopulationDeviation(t *testing.T) {
	m, err := New(ModeSD, []float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	assert.Equal(t, 5.0, m.CentralTendency())
	assert.Equal(t, 2.0, m.Error())
	assert.Empty(t, m.Footer())
}

func TestSD_DividesByN(t *testing.T) {
	// Population SD of {10, 20} is 5; the sample SD would round to 7.
	m, err := NewSD([]float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 5.0, m.Error())
}

func TestSD_RoundsErrorToWholeUnit(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"rounds half away from zero", []float64{1, 2}, 1},
		{"rounds down", []float64{1.0, 1.6}, 0},
		{"rounds up", []float64{100, 103.4}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSD(tt.samples)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Error())
		})
	}
}

func TestSD_SlowdownIsExactRatio(t *testing.T) {
	best := NewSDSummary(100, 3)
	slow := NewSDSummary(40, 2)

	factor, e := slow.Slowdown(best)
	assert.Equal(t, 2.5, factor)
	assert.Nil(t, e)
}

func TestSD_Overlaps(t *testing.T) {
	best := NewSDSummary(100, 5) // low = 95

	tests := []struct {
		name  string
		model *SD
		want  bool
	}{
		{"upper bound above best low", NewSDSummary(90, 6), true},
		{"upper bound equals best low", NewSDSummary(90, 5), false},
		{"upper bound below best low", NewSDSummary(90, 4), false},
		{"zero errors equal values", NewSDSummary(100, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.Overlaps(best))
		})
	}
}

func TestSD_OverlapsIsOneSided(t *testing.T) {
	a := NewSDSummary(100, 1)
	b := NewSDSummary(50, 1)

	assert.True(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}
