package reporting

import (
	"context"
	"log/slog"

	"github.com/spboyer/ipsbench/internal/models"
)

// JSONSink writes the records to a file, gzip-compressed when the path ends
// in .gz.
type JSONSink struct {
	Path string
}

// PostRun implements Sink.
func (j JSONSink) PostRun(_ context.Context, records []models.Record) error {
	if err := models.WriteRecordsFile(j.Path, records); err != nil {
		return err
	}
	slog.Debug("wrote JSON report", "path", j.Path, "entries", len(records))
	return nil
}
