package domain

import (
	"github.com/shopspring/decimal"
)

// AnalysisKind identifies which analysis produced a report section
type AnalysisKind string

const (
	AnalysisOverallTotals           AnalysisKind = "overall_totals"
	AnalysisPriceBandDistribution   AnalysisKind = "price_band_distribution"
	AnalysisBucketTopBrands         AnalysisKind = "bucket_top_brands"
	AnalysisBucketTopProducts       AnalysisKind = "bucket_top_products"
	AnalysisTopBrandsOverall        AnalysisKind = "top_brands_overall"
	AnalysisBrandBucketDistribution AnalysisKind = "brand_bucket_distribution"
)

// Basis is the denominator group a percentage is computed against
type Basis string

const (
	BasisOverall Basis = "overall"
	BasisBucket  Basis = "bucket"
	BasisBrand   Basis = "brand"
)

// Metric names used by the overall totals section
const (
	MetricTotalSales  = "total_sales"
	MetricTotalVolume = "total_volume"
)

// Share holds the sales and volume percentages against one basis.
// An invalid value means the percentage was not computed for the row.
type Share struct {
	Sales  decimal.NullDecimal `json:"sales"`
	Volume decimal.NullDecimal `json:"volume"`
}

// IsSet reports whether either percentage is present
func (s Share) IsSet() bool {
	return s.Sales.Valid || s.Volume.Valid
}

// ReportRow is one row of the final report. Every column except
// AnalysisType is optional; empty strings and invalid decimals are unset.
type ReportRow struct {
	AnalysisType AnalysisKind        `json:"analysis_type"`
	Section      string              `json:"section"`
	Metric       string              `json:"metric,omitempty"`
	PriceBucket  string              `json:"price_bucket,omitempty"`
	Brand        string              `json:"brand,omitempty"`
	Title        string              `json:"title,omitempty"`
	Link         string              `json:"link,omitempty"`
	TotalSales   decimal.NullDecimal `json:"total_sales"`
	TotalVolume  decimal.NullDecimal `json:"total_volume"`
	OfTotal      Share               `json:"of_total"`
	OfBucket     Share               `json:"of_bucket"`
	OfBrand      Share               `json:"of_brand"`
}

// ShareFor returns the share computed against the given basis
func (r ReportRow) ShareFor(basis Basis) Share {
	switch basis {
	case BasisBucket:
		return r.OfBucket
	case BasisBrand:
		return r.OfBrand
	default:
		return r.OfTotal
	}
}

// Section is the output of one named analysis
type Section struct {
	Kind        AnalysisKind `json:"kind"`
	Title       string       `json:"title"`
	PriceBucket string       `json:"price_bucket,omitempty"`
	Brand       string       `json:"brand,omitempty"`
	Rows        []ReportRow  `json:"rows"`
}

// Report is the ordered list of sections produced by one run
type Report struct {
	Source      string          `json:"source"`
	RecordCount int             `json:"record_count"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalVolume decimal.Decimal `json:"total_volume"`
	Sections    []Section       `json:"sections"`
}

// Rows concatenates all section rows in section order
func (r *Report) Rows() []ReportRow {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Rows)
	}
	rows := make([]ReportRow, 0, n)
	for _, s := range r.Sections {
		rows = append(rows, s.Rows...)
	}
	return rows
}

// SectionsOf returns the sections of the given kind in report order
func (r *Report) SectionsOf(kind AnalysisKind) []Section {
	var out []Section
	for _, s := range r.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
