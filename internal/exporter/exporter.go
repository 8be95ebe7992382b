package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/pkg/contracts/domain"
)

// Output formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Exporter writes an assembled report
type Exporter interface {
	// Write encodes the report to w
	Write(ctx context.Context, w io.Writer, report *domain.Report) error
	// Export writes the report to path atomically
	Export(ctx context.Context, report *domain.Report, path string) error
	// ContentType is the MIME type of the encoded report
	ContentType() string
}

// Options configures an exporter
type Options struct {
	Locale    string
	SheetName string
	Logger    *slog.Logger
}

// New returns the exporter for format
func New(format string, opts Options) (Exporter, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With(slog.String("component", "exporter"), slog.String("format", format))

	switch format {
	case FormatXLSX:
		return NewXLSXExporter(opts), nil
	case FormatCSV:
		return NewCSVExporter(opts), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

// export is the shared Export implementation of both formats
func export(ctx context.Context, logger *slog.Logger, e Exporter, report *domain.Report, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(path, func(w io.Writer) error {
		return e.Write(ctx, w, report)
	}); err != nil {
		logger.ErrorContext(ctx, "report export failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	logger.InfoContext(ctx, "report exported",
		slog.String("path", path),
		slog.Int("sections", len(report.Sections)),
		slog.Int("rows", len(report.Rows())))
	return nil
}
