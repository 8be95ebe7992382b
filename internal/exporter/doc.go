// Package exporter writes assembled sales reports and their charts.
//
// XLSXExporter and CSVExporter encode the concatenated report rows under one
// fixed header. The header is either the English column ids or the Chinese
// labels of the marketplace export, selected by locale. ChartRenderer writes
// the chart data sets to a separate workbook with native excelize charts.
//
// All file output goes through a temporary file in the destination directory
// which is synced and renamed into place, so a failed export never leaves a
// partial file behind.
//
// Example usage:
//
//	exp, err := exporter.New(exporter.FormatXLSX, exporter.Options{Locale: "zh"})
//	if err != nil {
//	    return err
//	}
//	err = exp.Export(ctx, report, "output/sales_analysis_report.xlsx")
package exporter
