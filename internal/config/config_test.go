package config

import (
	"testing"
	"time"

	"github.com/spboyer/ipsbench/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := Defaults()

	assert.Equal(t, 2*time.Second, o.WarmupDuration())
	assert.Equal(t, 5*time.Second, o.TimeDuration())
	assert.Equal(t, 1, o.Iterations)
	assert.Equal(t, "sd", o.Stats)
	assert.Equal(t, 95.0, o.Confidence)
	assert.Equal(t, int64(-1), o.Seed)
	assert.Equal(t, "https://benchmark.fyi", o.ShareURL)
	assert.False(t, o.Quiet)
	assert.False(t, o.Compare)
	assert.False(t, o.Human())
	require.NoError(t, o.Validate())
}

func TestDecode(t *testing.T) {
	o, err := Decode(map[string]any{
		"warmup":     0,
		"time":       "1.5",
		"iterations": 3,
		"stats":      "bootstrap",
		"confidence": 99,
		"compare":    true,
		"hold_path":  "hold.jsonl",
		"json_path":  "out.json.gz",
		"format":     "human",
		"seed":       "42",
	}, Defaults())
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), o.WarmupDuration())
	assert.Equal(t, 1500*time.Millisecond, o.TimeDuration())
	assert.Equal(t, 3, o.Iterations)
	assert.Equal(t, 99.0, o.Confidence)
	assert.True(t, o.Compare)
	assert.Equal(t, "hold.jsonl", o.HoldPath)
	assert.Equal(t, "out.json.gz", o.JSONPath)
	assert.True(t, o.Human())
	assert.Equal(t, int64(42), o.Seed)

	mode, err := o.StatsMode()
	require.NoError(t, err)
	assert.Equal(t, statistics.ModeBootstrap, mode)
}

func TestDecode_KeepsBaseForMissingKeys(t *testing.T) {
	base := Defaults()
	base.Time = 9

	o, err := Decode(map[string]any{"quiet": true}, base)
	require.NoError(t, err)
	assert.Equal(t, 9.0, o.Time)
	assert.True(t, o.Quiet)
	assert.Equal(t, 2.0, o.Warmup)
}

func TestDecode_RejectsUnknownKey(t *testing.T) {
	_, err := Decode(map[string]any{"wramup": 1}, Defaults())
	require.ErrorIs(t, err, ErrInvalidOption)
	assert.Contains(t, err.Error(), "wramup")
}

func TestDecode_RejectsBadType(t *testing.T) {
	_, err := Decode(map[string]any{"iterations": "many"}, Defaults())
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"negative warmup", func(o *Options) { o.Warmup = -1 }, ErrInvalidOption},
		{"negative time", func(o *Options) { o.Time = -0.5 }, ErrInvalidOption},
		{"zero iterations", func(o *Options) { o.Iterations = 0 }, ErrInvalidOption},
		{"unknown stats", func(o *Options) { o.Stats = "median" }, statistics.ErrUnknownMode},
		{"bootstrap confidence 100", func(o *Options) { o.Stats = "bootstrap"; o.Confidence = 100 }, ErrInvalidOption},
		{"bootstrap confidence 0", func(o *Options) { o.Stats = "bootstrap"; o.Confidence = 0 }, ErrInvalidOption},
		{"unknown format", func(o *Options) { o.Format = "fancy" }, ErrInvalidOption},
		{"share with relative url", func(o *Options) { o.Share = true; o.ShareURL = "reports" }, ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Defaults()
			tt.mutate(&o)
			require.ErrorIs(t, o.Validate(), tt.wantErr)
		})
	}
}

func TestValidate_AllowsZeroDurations(t *testing.T) {
	o := Defaults()
	o.Warmup = 0
	o.Time = 0
	assert.NoError(t, o.Validate())
}

func TestValidate_ConfidenceIgnoredForSD(t *testing.T) {
	o := Defaults()
	o.Confidence = 0
	assert.NoError(t, o.Validate())
}

func TestConfigure(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Configure(map[string]any{"warmup": 1, "time": 2}))
	assert.Equal(t, 1.0, o.Warmup)
	assert.Equal(t, 2.0, o.Time)

	err := o.Configure(map[string]any{"time": -1})
	require.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, 2.0, o.Time, "failed Configure leaves options unchanged")
}

func TestFromViper_Layers(t *testing.T) {
	t.Setenv("IPSBENCH_TIME", "0.25")
	t.Setenv("SHARE_URL", "http://localhost:8080")

	v := NewViper(map[string]any{"warmup": 0.5, "time": 3.0, "compare": true})
	v.Set("iterations", 2)

	o, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 0.5, o.Warmup, "project default")
	assert.Equal(t, 0.25, o.Time, "environment beats project default")
	assert.Equal(t, 2, o.Iterations, "explicit set beats everything")
	assert.True(t, o.Compare)
	assert.Equal(t, "http://localhost:8080", o.ShareURL)
	assert.Equal(t, "sd", o.Stats, "hard default")
}

func TestFromViper_Invalid(t *testing.T) {
	v := NewViper(nil)
	v.Set("stats", "nope")
	_, err := FromViper(v)
	require.ErrorIs(t, err, statistics.ErrUnknownMode)
}

func TestMap_CoversKeys(t *testing.T) {
	m := Defaults().Map()
	for _, k := range Keys {
		_, ok := m[k]
		assert.True(t, ok, "missing key %s", k)
	}
	assert.Len(t, m, len(Keys))
}
