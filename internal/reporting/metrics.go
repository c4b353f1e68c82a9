package reporting

import (
	"context"
	"log/slog"

	"github.com/spboyer/ipsbench/internal/metrics"
	"github.com/spboyer/ipsbench/internal/models"
)

// MetricsSink writes the records as a Prometheus textfile for the node
// exporter's textfile collector.
type MetricsSink struct {
	Path string
}

// PostRun implements Sink.
func (m MetricsSink) PostRun(_ context.Context, records []models.Record) error {
	c := metrics.NewCollector()
	c.Observe(records)
	if err := c.WriteTextfile(m.Path); err != nil {
		return err
	}
	slog.Debug("wrote metrics textfile", "path", m.Path, "entries", len(records))
	return nil
}
