package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/pkg/contracts/domain"
)

var chartTypes = map[domain.ChartKind]excelize.ChartType{
	domain.ChartBar:        excelize.Col,
	domain.ChartPie:        excelize.Pie,
	domain.ChartStackedBar: excelize.ColStacked,
}

// ChartRenderer writes charts to a workbook, one sheet per chart holding the
// series table and a native chart drawn from it.
type ChartRenderer struct {
	path   string
	logger *slog.Logger
}

// NewChartRenderer creates a renderer that writes to path
func NewChartRenderer(logger *slog.Logger, path string) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{path: path, logger: logger.With(slog.String("component", "chart_renderer"))}
}

// Path returns the workbook the renderer writes
func (r *ChartRenderer) Path() string {
	return r.path
}

// Render writes the chart workbook atomically. Rendering failures are RENDER
// errors; failures to commit the file are EXPORT errors.
func (r *ChartRenderer) Render(ctx context.Context, charts []domain.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(charts) == 0 {
		return apperrors.NewRenderError("no charts to render", nil)
	}

	f, err := r.build(charts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeAtomic(r.path, func(w io.Writer) error { return f.Write(w) }); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "charts rendered",
		slog.String("path", r.path),
		slog.Int("charts", len(charts)))
	return nil
}

func (r *ChartRenderer) build(charts []domain.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, chart := range charts {
		if i == 0 {
			err := f.SetSheetName(f.GetSheetName(0), chart.Name)
			if err != nil {
				f.Close()
				return nil, renderError(chart, "cannot name sheet", err)
			}
		} else if _, err := f.NewSheet(chart.Name); err != nil {
			f.Close()
			return nil, renderError(chart, "cannot create sheet", err)
		}
		if err := drawChart(f, chart); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func renderError(chart domain.Chart, message string, cause error) error {
	return apperrors.NewRenderError(message, cause).WithContext("chart", chart.Name)
}

// drawChart writes the series table at A1 (categories down column A, one
// column per series) and anchors the chart beside it.
func drawChart(f *excelize.File, chart domain.Chart) error {
	chartType, ok := chartTypes[chart.Kind]
	if !ok {
		return renderError(chart, fmt.Sprintf("unsupported chart kind %q", chart.Kind), nil)
	}
	if len(chart.Categories) == 0 || len(chart.Series) == 0 {
		return renderError(chart, "chart has no data", nil)
	}
	sheet := chart.Name

	header := []interface{}{""}
	for _, s := range chart.Series {
		header = append(header, s.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return renderError(chart, "cannot write series header", err)
	}
	for i, category := range chart.Categories {
		row := []interface{}{category}
		for _, s := range chart.Series {
			if i < len(s.Values) {
				row = append(row, s.Values[i])
			} else {
				row = append(row, 0)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return renderError(chart, "cannot write series data", err)
		}
	}

	last := len(chart.Categories) + 1
	series := make([]excelize.ChartSeries, len(chart.Series))
	for i := range chart.Series {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series[i] = excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, last),
		}
	}

	anchor, _ := excelize.CoordinatesToCellName(len(chart.Series)+3, 1)
	err := f.AddChart(sheet, anchor, &excelize.Chart{
		Type:   chartType,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: chart.Title}},
		Legend: excelize.ChartLegend{Position: "right"},
		Dimension: excelize.ChartDimension{
			Width:  640,
			Height: 400,
		},
	})
	if err != nil {
		return renderError(chart, "cannot add chart", err)
	}
	return nil
}
