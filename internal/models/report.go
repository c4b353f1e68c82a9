// Package models holds the records a benchmark run produces: the full
// per-entry report kept in memory and in the hold file, and the flattened
// export record written to JSON and uploaded by share.
package models

import "github.com/spboyer/ipsbench/internal/clock"

// StatsResult is the summarized throughput of one entry.
type StatsResult struct {
	CentralTendency float64  `json:"central_tendency"`
	Error           *float64 `json:"error,omitempty"`
	Footer          string   `json:"footer,omitempty"`
}

// ErrorOrZero returns the error bound, or 0 when none was computed.
func (s StatsResult) ErrorOrZero() float64 {
	if s.Error == nil {
		return 0
	}
	return *s.Error
}

// ReportEntry is the result of measuring one entry in one pass. It is created
// once and never mutated.
type ReportEntry struct {
	Label             string      `json:"label"`
	Pass              int         `json:"pass"`
	TotalMicroseconds float64     `json:"total_microseconds"`
	TotalIterations   int64       `json:"total_iterations"`
	CyclesPerBatch    int         `json:"cycles_per_batch"`
	Stats             StatsResult `json:"stats"`
	TimingSkewed      bool        `json:"timing_skewed,omitempty"`
	Samples           []float64   `json:"samples,omitempty"`
}

// IPS returns the central iterations-per-second value.
func (e ReportEntry) IPS() float64 {
	return e.Stats.CentralTendency
}

// Seconds returns the measured time in seconds.
func (e ReportEntry) Seconds() float64 {
	return clock.Seconds(e.TotalMicroseconds)
}

// ErrorPercentage returns the error bound as a percentage of IPS.
func (e ReportEntry) ErrorPercentage() float64 {
	if e.IPS() == 0 {
		return 0
	}
	return 100 * e.Stats.ErrorOrZero() / e.IPS()
}

// Record is the flattened export form of a ReportEntry.
type Record struct {
	Name         string  `json:"name"`
	IPS          float64 `json:"ips"`
	Stddev       float64 `json:"stddev"`
	Iterations   int64   `json:"iterations"`
	Microseconds float64 `json:"microseconds"`
	Cycles       int     `json:"cycles"`
	Skewed       bool    `json:"skewed,omitempty"`
}

// Record flattens the entry for export.
func (e ReportEntry) Record() Record {
	return Record{
		Name:         e.Label,
		IPS:          e.IPS(),
		Stddev:       e.Stats.ErrorOrZero(),
		Iterations:   e.TotalIterations,
		Microseconds: e.TotalMicroseconds,
		Cycles:       e.CyclesPerBatch,
		Skewed:       e.TimingSkewed,
	}
}

// ToRecords flattens entries, preserving order.
func ToRecords(entries []ReportEntry) []Record {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record())
	}
	return records
}
