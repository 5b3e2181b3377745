// Package store exports analysis reports for downstream tools.
package store

import (
	"context"
	"database/sql"
	"math"

	"news-sentiment/internal/analysis"
)

// ReportExporter writes a finished report somewhere outside the process.
// Exporters are sinks: nothing in the analysis reads an export back.
type ReportExporter interface {
	// Export writes report and returns the identifier of the stored run.
	Export(ctx context.Context, report *analysis.Report) (string, error)
	Close() error
}

// nullFloat maps undefined (NaN or infinite) values to SQL NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
