package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesanalyzer/internal/analysis"
	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/internal/shared/testutil"
	"salesanalyzer/pkg/contracts/domain"
)

func lamp(brand string, price, sales, volume int64) domain.Record {
	return domain.Record{
		Title:       brand + " lamp",
		Link:        "https://example.com/" + brand,
		Brand:       brand,
		Price:       decimal.NewFromInt(price),
		SalesAmount: decimal.NewFromInt(sales),
		Volume:      decimal.NewFromInt(volume),
	}
}

func buildReport(t *testing.T, records ...domain.Record) *domain.Report {
	t.Helper()
	bucketed, err := analysis.DefaultBucketer().BucketAll(records)
	require.NoError(t, err)
	report, err := analysis.NewAssembler(nil, nil, analysis.DefaultOptions()).
		Assemble(context.Background(), "test", bucketed)
	require.NoError(t, err)
	return report
}

func scenarioReport(t *testing.T) *domain.Report {
	return buildReport(t, lamp("A", 50, 100, 2), lamp("B", 150, 200, 3), lamp("A", 150, 50, 1))
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")
	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return rows
}

func colIndex(t *testing.T, id string) int {
	t.Helper()
	for i, c := range columns {
		if c.id == id {
			return i
		}
	}
	t.Fatalf("no column %s", id)
	return -1
}

func TestCSVExporter_Write(t *testing.T) {
	report := scenarioReport(t)
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(Options{}).Write(context.Background(), &buf, report))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, len(report.Rows())+1)
	assert.Equal(t, Headers(LocaleEnglish), rows[0])

	totals := rows[1]
	assert.Equal(t, "overall_totals", totals[colIndex(t, "analysis_type")])
	assert.Equal(t, "total_sales", totals[colIndex(t, "metric")])
	assert.Equal(t, "350", totals[colIndex(t, "total_sales")])
	assert.Empty(t, totals[colIndex(t, "total_volume")])
	assert.Empty(t, totals[colIndex(t, "pct_sales_of_total")])

	band := rows[3]
	assert.Equal(t, "price_band_distribution", band[colIndex(t, "analysis_type")])
	assert.Equal(t, "0-100", band[colIndex(t, "price_bucket")])
	assert.Equal(t, "28.6", band[colIndex(t, "pct_sales_of_total")])
	assert.Equal(t, "33.3", band[colIndex(t, "pct_volume_of_total")])
	assert.Empty(t, band[colIndex(t, "pct_sales_of_bucket")])
}

func TestCSVExporter_RowsCarryContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(Options{}).Write(context.Background(), &buf, buildReport(t, testutil.SampleRecords()...)))

	rows := readCSV(t, buf.Bytes())
	kind, bucket, brand := colIndex(t, "analysis_type"), colIndex(t, "price_bucket"), colIndex(t, "brand")
	ofBucket := colIndex(t, "pct_sales_of_bucket")

	seen := map[string]int{}
	for i, row := range rows[1:] {
		switch row[kind] {
		case "bucket_top_brands", "bucket_top_products":
			assert.NotEmpty(t, row[bucket], "row %d has no price bucket", i+1)
			assert.NotEmpty(t, row[brand], "row %d has no brand", i+1)
			assert.NotEmpty(t, row[ofBucket], "row %d has no bucket share", i+1)
		case "brand_bucket_distribution":
			assert.NotEmpty(t, row[brand], "row %d has no brand", i+1)
			assert.NotEmpty(t, row[bucket], "row %d has no price bucket", i+1)
		}
		seen[row[kind]]++
	}
	assert.Positive(t, seen["bucket_top_brands"])
	assert.Positive(t, seen["bucket_top_products"])
	assert.Positive(t, seen["brand_bucket_distribution"])
}

func TestCSVExporter_ChineseHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(Options{Locale: LocaleChinese}).Write(context.Background(), &buf, scenarioReport(t)))

	rows := readCSV(t, buf.Bytes())
	assert.Equal(t, "分析类型", rows[0][0])
	assert.Equal(t, "销售额占总体比例", rows[0][colIndex(t, "pct_sales_of_total")])
	assert.Equal(t, "总销售额", rows[1][colIndex(t, "metric")])
	assert.Equal(t, "总销量", rows[2][colIndex(t, "metric")])
}

func TestCSVExporter_DeterministicBytes(t *testing.T) {
	dir := t.TempDir()
	exp := NewCSVExporter(Options{})

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, exp.Export(context.Background(), buildReport(t, testutil.SampleRecords()...), first))
	require.NoError(t, exp.Export(context.Background(), buildReport(t, testutil.SampleRecords()...), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestXLSXExporter_Export(t *testing.T) {
	report := scenarioReport(t)
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	logger, handler := testutil.NewTestLogger(t)

	exp, err := New(FormatXLSX, Options{SheetName: "报告", Logger: logger})
	require.NoError(t, err)
	require.NoError(t, exp.Export(context.Background(), report, path))
	testutil.AssertLogAttr(t, handler, "path", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"报告"}, f.GetSheetList())

	rows, err := f.GetRows("报告", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, len(report.Rows())+1)
	assert.Equal(t, Headers(LocaleEnglish), rows[0])

	pct := colIndex(t, "pct_sales_of_total")
	assert.True(t, strings.HasPrefix(rows[3][pct], "28.57"), "raw value %q", rows[3][pct])

	cell, _ := excelize.CoordinatesToCellName(pct+1, 4)
	shown, err := f.GetCellValue("报告", cell)
	require.NoError(t, err)
	assert.Equal(t, "28.6", shown)

	panes, err := f.GetPanes("报告")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestXLSXExporter_DefaultSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter(Options{}).Write(context.Background(), &buf, scenarioReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New("pdf", Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))

	exp, err := New(FormatCSV, Options{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType())
}

func TestExport_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "report.csv")
	err := NewCSVExporter(Options{}).Export(ctx, scenarioReport(t), path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestWriteAtomic_FailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	boom := errors.New("disk full")
	err := writeAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsExportFailure(err))
	assert.ErrorIs(t, err, boom)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteAtomic_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := writeAtomic(filepath.Join(blocker, "report.csv"), func(w io.Writer) error { return nil })
	require.Error(t, err)
	assert.True(t, apperrors.IsExportFailure(err))
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name  string
		input decimal.NullDecimal
		want  string
	}{
		{"unset", decimal.NullDecimal{}, ""},
		{"computed zero", decimal.NewNullDecimal(decimal.Zero), "0.0"},
		{"rounded", decimal.NewNullDecimal(decimal.RequireFromString("28.571428")), "28.6"},
		{"whole", decimal.NewNullDecimal(decimal.NewFromInt(100)), "100.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPercent(tt.input))
		})
	}
	assert.Equal(t, "1234.867", formatAmount(decimal.NewNullDecimal(decimal.RequireFromString("1234.867"))))
}
