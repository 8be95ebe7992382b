package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"salesanalyzer/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes the report as UTF-8 CSV with a byte order mark so
// spreadsheet tools detect the encoding. Sums keep full precision,
// percentages are written with one decimal.
type CSVExporter struct {
	locale string
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter(opts Options) *CSVExporter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{locale: opts.Locale, logger: logger}
}

// ContentType implements Exporter
func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Export implements Exporter
func (e *CSVExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	return export(ctx, e.logger, e, report, path)
}

// Write implements Exporter
func (e *CSVExporter) Write(ctx context.Context, w io.Writer, report *domain.Report) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Headers(e.locale)); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range report.Rows() {
		if err := writer.Write(e.record(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *CSVExporter) record(row domain.ReportRow) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		switch c.kind {
		case kindText:
			out[i] = localizeText(c, c.text(row), e.locale)
		case kindAmount:
			out[i] = formatAmount(c.number(row))
		case kindPercent:
			out[i] = formatPercent(c.number(row))
		}
	}
	return out
}
