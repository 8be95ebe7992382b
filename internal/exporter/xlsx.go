package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salesanalyzer/pkg/contracts/domain"
)

// DefaultSheetName is used when no sheet name is configured
const DefaultSheetName = "Analysis"

// percentFormat shows one decimal while the cell keeps full precision
const percentFormat = "0.0"

// XLSXExporter writes the report as a single sheet workbook with a frozen
// header row. Numbers are numeric cells; unset values are empty cells.
type XLSXExporter struct {
	locale string
	sheet  string
	logger *slog.Logger
}

// NewXLSXExporter creates a workbook exporter
func NewXLSXExporter(opts Options) *XLSXExporter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &XLSXExporter{locale: opts.Locale, sheet: sheet, logger: logger}
}

// ContentType implements Exporter
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export implements Exporter
func (e *XLSXExporter) Export(ctx context.Context, report *domain.Report, path string) error {
	return export(ctx, e.logger, e, report, path)
}

// Write implements Exporter
func (e *XLSXExporter) Write(ctx context.Context, w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), e.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	pctFmt := percentFormat
	pctStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	sw, err := f.NewStreamWriter(e.sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	if err := sw.SetColWidth(1, 3, 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := sw.SetColWidth(6, 7, 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	headers := Headers(e.locale)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range report.Rows() {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, e.cells(row, pctStyle)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func (e *XLSXExporter) cells(row domain.ReportRow, pctStyle int) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		switch c.kind {
		case kindText:
			if v := c.text(row); v != "" {
				out[i] = localizeText(c, v, e.locale)
			}
		case kindAmount:
			out[i] = cellValue(c.number(row))
		case kindPercent:
			if v := cellValue(c.number(row)); v != nil {
				out[i] = excelize.Cell{StyleID: pctStyle, Value: v}
			}
		}
	}
	return out
}
