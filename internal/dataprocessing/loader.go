package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/pkg/contracts/domain"
)

// Supported input extensions
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// cancellation is checked every checkEvery rows
const checkEvery = 1000

// Loader reads sales export files into records
type Loader struct {
	logger *slog.Logger
	sheet  string
}

// NewLoader creates a loader. sheet selects the workbook sheet to read; an
// empty sheet means the first one.
func NewLoader(logger *slog.Logger, sheet string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader")), sheet: sheet}
}

// LoadRecords reads path with a default loader
func LoadRecords(ctx context.Context, path string) (*domain.RecordSet, error) {
	return NewLoader(nil, "").LoadRecords(ctx, path)
}

// LoadRecords reads an .xlsx or .csv file, choosing the parser by extension.
func (l *Loader) LoadRecords(ctx context.Context, path string) (*domain.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("cannot open input file", err).
			WithContext("path", path)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtXLSX:
		return l.ParseWorkbook(ctx, f, path)
	case ExtCSV:
		return l.ParseCSV(ctx, f, path)
	default:
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("unsupported input format %q", ext), nil).WithContext("path", path)
	}
}

// ParseWorkbook reads the configured sheet of an .xlsx workbook
func (l *Loader) ParseWorkbook(ctx context.Context, r io.Reader, source string) (*domain.RecordSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("cannot read workbook", err).
			WithContext("source", source)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewInvalidInputError("workbook has no sheets", nil).
				WithContext("source", source)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("cannot read sheet %q", sheet), err).
			WithContext("source", source)
	}

	records, err := l.parseRows(ctx, source, rows)
	if err != nil {
		return nil, err
	}
	return &domain.RecordSet{Source: source, Sheet: sheet, Records: records}, nil
}

// ParseCSV reads a comma separated export. A leading UTF-8 BOM is ignored.
func (l *Loader) ParseCSV(ctx context.Context, r io.Reader, source string) (*domain.RecordSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewInvalidInputError("cannot read csv", err).
			WithContext("source", source)
	}

	records, err := l.parseRows(ctx, source, rows)
	if err != nil {
		return nil, err
	}
	return &domain.RecordSet{Source: source, Records: records}, nil
}

// parseRows treats the first non-blank row as the header and every later
// non-blank row as one record. Row numbers in errors are 1-based as shown in
// a spreadsheet.
func (l *Loader) parseRows(ctx context.Context, source string, rows [][]string) ([]domain.Record, error) {
	headerRow := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.NewInvalidInputError("input has no header row", nil).
			WithContext("source", source)
	}

	cols := mapHeader(rows[headerRow])
	if missing := cols.missing(); len(missing) > 0 {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("source", source).
			WithContext("missing", missing)
	}

	records := make([]domain.Record, 0, len(rows)-headerRow-1)
	skipped := 0
	for i := headerRow + 1; i < len(rows); i++ {
		if (i-headerRow)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := rows[i]
		if isBlank(row) {
			skipped++
			continue
		}
		rec, err := parseRecord(cols, row)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok {
				appErr.WithContext("source", source).WithContext("row", i+1)
			}
			return nil, err
		}
		records = append(records, rec)
	}

	l.logger.InfoContext(ctx, "records loaded",
		slog.String("source", source),
		slog.Int("header_row", headerRow+1),
		slog.Int("records", len(records)),
		slog.Int("blank_rows", skipped))
	return records, nil
}

func parseRecord(cols columnMap, row []string) (domain.Record, error) {
	rec := domain.Record{
		Time:  cols.cell(row, ColumnTime),
		Title: cols.cell(row, ColumnTitle),
		Link:  cols.cell(row, ColumnLink),
		Brand: cols.cell(row, ColumnBrand),
	}

	var err error
	if rec.SalesAmount, err = parseAmount(cols.cell(row, ColumnSales), ColumnSales); err != nil {
		return rec, err
	}
	if rec.Volume, err = parseAmount(cols.cell(row, ColumnVolume), ColumnVolume); err != nil {
		return rec, err
	}
	if !rec.Volume.Equal(rec.Volume.Truncate(0)) {
		return rec, apperrors.NewInvalidInputError(
			fmt.Sprintf("volume %s is not a whole number", rec.Volume), nil).
			WithContext("column", string(ColumnVolume))
	}
	if rec.Price, err = parseAmount(cols.cell(row, ColumnPrice), ColumnPrice); err != nil {
		return rec, err
	}
	return rec, nil
}

// parseAmount parses a non-negative decimal cell. Thousands separators and
// surrounding spaces are ignored.
func parseAmount(raw string, col Column) (decimal.Decimal, error) {
	s := strings.NewReplacer(",", "", "，", "", " ", "").Replace(raw)
	if s == "" {
		return decimal.Zero, apperrors.NewInvalidInputError(
			fmt.Sprintf("empty %s", col), nil).WithContext("column", string(col))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperrors.NewInvalidInputError(
			fmt.Sprintf("%s %q is not a number", col, raw), err).WithContext("column", string(col))
	}
	if d.IsNegative() {
		return decimal.Zero, apperrors.NewInvalidInputError(
			fmt.Sprintf("negative %s %s", col, d), nil).WithContext("column", string(col))
	}
	return d, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
