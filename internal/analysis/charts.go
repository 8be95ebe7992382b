package analysis

import (
	"fmt"

	"github.com/samber/lo"

	"salesanalyzer/pkg/contracts/domain"
)

// Chart names, also used as sheet names by the chart renderer
const (
	ChartTotals           = "totals"
	ChartPriceBandSales   = "price_band_sales"
	ChartPriceBandVolume  = "price_band_volume"
	ChartTopBrandsSales   = "top_brands_sales"
	ChartTopBrandsVolume  = "top_brands_volume"
	ChartBrandBucketSales = "brand_bucket_sales"
)

// BuildCharts derives the chart data sets from an assembled report.
// bucketLabels gives the band order of the stacked chart. Charts whose
// source section is empty are skipped.
func BuildCharts(report *domain.Report, bucketLabels []string) []domain.Chart {
	charts := []domain.Chart{{
		Name:       ChartTotals,
		Title:      "Total sales and volume",
		Kind:       domain.ChartBar,
		Categories: []string{"Total sales", "Total volume"},
		Series: []domain.Series{{
			Name:   "Total",
			Values: []float64{report.TotalSales.InexactFloat64(), report.TotalVolume.InexactFloat64()},
		}},
	}}

	if dist := report.SectionsOf(domain.AnalysisPriceBandDistribution); len(dist) == 1 && len(dist[0].Rows) > 0 {
		rows := dist[0].Rows
		labels := lo.Map(rows, func(r domain.ReportRow, _ int) string { return r.PriceBucket })
		charts = append(charts,
			pieOf(ChartPriceBandSales, "Sales share by price band", labels, rows, salesOf),
			pieOf(ChartPriceBandVolume, "Volume share by price band", labels, rows, volumeOf),
		)
	}

	if top := report.SectionsOf(domain.AnalysisTopBrandsOverall); len(top) == 1 && len(top[0].Rows) > 0 {
		rows := top[0].Rows
		labels := lo.Map(rows, func(r domain.ReportRow, _ int) string { return r.Brand })
		charts = append(charts,
			pieOf(ChartTopBrandsSales, fmt.Sprintf("Top %d brands sales share", len(rows)), labels, rows, salesOf),
			pieOf(ChartTopBrandsVolume, fmt.Sprintf("Top %d brands volume share", len(rows)), labels, rows, volumeOf),
		)
	}

	if sections := report.SectionsOf(domain.AnalysisBrandBucketDistribution); len(sections) > 0 {
		charts = append(charts, brandBucketChart(sections, bucketLabels))
	}

	return charts
}

func salesOf(r domain.ReportRow) float64 {
	return r.TotalSales.Decimal.InexactFloat64()
}

func volumeOf(r domain.ReportRow) float64 {
	return r.TotalVolume.Decimal.InexactFloat64()
}

func pieOf(name, title string, labels []string, rows []domain.ReportRow, value func(domain.ReportRow) float64) domain.Chart {
	return domain.Chart{
		Name:       name,
		Title:      title,
		Kind:       domain.ChartPie,
		Categories: labels,
		Series: []domain.Series{{
			Name:   title,
			Values: lo.Map(rows, func(r domain.ReportRow, _ int) float64 { return value(r) }),
		}},
	}
}

// brandBucketChart stacks each leading brand's sales over the price bands
// any of them sold in, in bucket order.
func brandBucketChart(sections []domain.Section, bucketLabels []string) domain.Chart {
	present := map[string]bool{}
	for _, s := range sections {
		for _, r := range s.Rows {
			present[r.PriceBucket] = true
		}
	}
	bands := lo.Filter(bucketLabels, func(l string, _ int) bool { return present[l] })
	index := make(map[string]int, len(bands))
	for i, b := range bands {
		index[b] = i
	}

	chart := domain.Chart{
		Name:       ChartBrandBucketSales,
		Title:      fmt.Sprintf("Top %d brands sales by price band", len(sections)),
		Kind:       domain.ChartStackedBar,
		Categories: bands,
	}
	for _, s := range sections {
		values := make([]float64, len(bands))
		for _, r := range s.Rows {
			values[index[r.PriceBucket]] = salesOf(r)
		}
		chart.Series = append(chart.Series, domain.Series{Name: s.Brand, Values: values})
	}
	return chart
}
