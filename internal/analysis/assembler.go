package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"salesanalyzer/internal/config"
	"salesanalyzer/pkg/contracts/domain"
)

// Options sets the ranking sizes of the report
type Options struct {
	TopBrandsPerBucket       int
	TopProductsPerBucket     int
	TopBrandsOverall         int
	TopBrandsForDistribution int
	// LogSummary emits each section at info level instead of debug
	LogSummary bool
}

// DefaultOptions returns the standard 5/5/10/5 report layout
func DefaultOptions() Options {
	return Options{
		TopBrandsPerBucket:       5,
		TopProductsPerBucket:     5,
		TopBrandsOverall:         10,
		TopBrandsForDistribution: 5,
	}
}

// OptionsFromConfig maps the report configuration onto Options
func OptionsFromConfig(cfg config.ReportConfig) Options {
	return Options{
		TopBrandsPerBucket:       cfg.TopBrandsPerBucket,
		TopProductsPerBucket:     cfg.TopProductsPerBucket,
		TopBrandsOverall:         cfg.TopBrandsOverall,
		TopBrandsForDistribution: cfg.TopBrandsForDistribution,
		LogSummary:               cfg.LogSummary,
	}
}

// Assembler runs the fixed sequence of analyses and concatenates their
// sections into one report
type Assembler struct {
	logger   *slog.Logger
	bucketer *Bucketer
	opts     Options
}

// NewAssembler creates an assembler. A nil bucketer uses DefaultBucketer.
func NewAssembler(logger *slog.Logger, bucketer *Bucketer, opts Options) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if bucketer == nil {
		bucketer = DefaultBucketer()
	}
	return &Assembler{
		logger:   logger.With(slog.String("component", "assembler")),
		bucketer: bucketer,
		opts:     opts,
	}
}

// Assemble builds the report for records that were bucketed by the same
// bucketer. It only reads records.
func (a *Assembler) Assemble(ctx context.Context, source string, records []domain.BucketedRecord) (*domain.Report, error) {
	overall := Totals(records)

	report := &domain.Report{
		Source:      source,
		RecordCount: len(records),
		TotalSales:  overall.TotalSales,
		TotalVolume: overall.TotalVolume,
	}

	steps := []func() []domain.Section{
		func() []domain.Section { return []domain.Section{a.overallTotals(overall)} },
		func() []domain.Section { return []domain.Section{a.priceBandDistribution(records, overall)} },
		func() []domain.Section {
			return a.perBucket(records, overall, bucketRanking{
				kind:  domain.AnalysisBucketTopBrands,
				title: "Top %d brands in %s",
				n:     a.opts.TopBrandsPerBucket,
				rows:  func(in []domain.BucketedRecord) []AggregateRow { return Aggregate(in, ByBrand) },
			})
		},
		func() []domain.Section {
			return a.perBucket(records, overall, bucketRanking{
				kind:  domain.AnalysisBucketTopProducts,
				title: "Top %d products in %s",
				n:     a.opts.TopProductsPerBucket,
				rows:  Individual,
			})
		},
		func() []domain.Section { return []domain.Section{a.topBrandsOverall(records, overall)} },
		func() []domain.Section { return a.brandBucketDistribution(records, overall) },
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, section := range step() {
			a.logSection(ctx, section)
			report.Sections = append(report.Sections, section)
		}
	}

	return report, nil
}

func (a *Assembler) overallTotals(overall AggregateRow) domain.Section {
	const title = "Overall totals"
	return domain.Section{
		Kind:  domain.AnalysisOverallTotals,
		Title: title,
		Rows: []domain.ReportRow{
			{
				AnalysisType: domain.AnalysisOverallTotals,
				Section:      title,
				Metric:       domain.MetricTotalSales,
				TotalSales:   decimal.NewNullDecimal(overall.TotalSales),
			},
			{
				AnalysisType: domain.AnalysisOverallTotals,
				Section:      title,
				Metric:       domain.MetricTotalVolume,
				TotalVolume:  decimal.NewNullDecimal(overall.TotalVolume),
			},
		},
	}
}

// priceBandDistribution has one row per non-empty bucket, in bucket order
func (a *Assembler) priceBandDistribution(records []domain.BucketedRecord, overall AggregateRow) domain.Section {
	section := domain.Section{
		Kind:  domain.AnalysisPriceBandDistribution,
		Title: "Price band distribution",
	}
	for _, row := range SortByBucket(Aggregate(records, ByBucket)) {
		r := newRow(section, row)
		r.OfTotal = ShareOf(row, overall)
		section.Rows = append(section.Rows, r)
	}
	return section
}

// bucketRanking parametrises perBucket: which rows to rank inside a bucket
// and how many to keep
type bucketRanking struct {
	kind  domain.AnalysisKind
	title string
	n     int
	rows  func([]domain.BucketedRecord) []AggregateRow
}

// perBucket emits one section per bucket, empty buckets included
func (a *Assembler) perBucket(records []domain.BucketedRecord, overall AggregateRow, target bucketRanking) []domain.Section {
	buckets := a.bucketer.Buckets()
	sections := make([]domain.Section, 0, len(buckets))

	for _, bucket := range buckets {
		inBucket := lo.Filter(records, func(r domain.BucketedRecord, _ int) bool {
			return r.Bucket.Index == bucket.Index
		})
		bucketTotal := Totals(inBucket)
		if bucketTotal.Count == 0 {
			a.logger.Debug("price band has no records",
				slog.String("analysis_type", string(target.kind)),
				slog.String("price_bucket", bucket.Label))
		}

		section := domain.Section{
			Kind:        target.kind,
			Title:       fmt.Sprintf(target.title, target.n, bucket.Label),
			PriceBucket: bucket.Label,
			Rows:        []domain.ReportRow{},
		}
		for _, row := range TopBySales(target.rows(inBucket), target.n) {
			r := newRow(section, row)
			r.OfTotal = ShareOf(row, overall)
			r.OfBucket = ShareOf(row, bucketTotal)
			section.Rows = append(section.Rows, r)
		}
		sections = append(sections, section)
	}

	return sections
}

func (a *Assembler) rankBrands(records []domain.BucketedRecord, n int) []AggregateRow {
	return TopBySales(Aggregate(records, ByBrand), n)
}

func (a *Assembler) topBrandsOverall(records []domain.BucketedRecord, overall AggregateRow) domain.Section {
	section := domain.Section{
		Kind:  domain.AnalysisTopBrandsOverall,
		Title: fmt.Sprintf("Top %d brands overall", a.opts.TopBrandsOverall),
	}
	for _, row := range a.rankBrands(records, a.opts.TopBrandsOverall) {
		r := newRow(section, row)
		r.OfTotal = ShareOf(row, overall)
		section.Rows = append(section.Rows, r)
	}
	return section
}

// brandBucketDistribution breaks each of the leading brands down by bucket
func (a *Assembler) brandBucketDistribution(records []domain.BucketedRecord, overall AggregateRow) []domain.Section {
	top := a.rankBrands(records, a.opts.TopBrandsForDistribution)
	sections := make([]domain.Section, 0, len(top))

	for _, brand := range top {
		name := brand.Key.Brand
		ofBrand := lo.Filter(records, func(r domain.BucketedRecord, _ int) bool {
			return r.Brand == name
		})

		section := domain.Section{
			Kind:  domain.AnalysisBrandBucketDistribution,
			Title: fmt.Sprintf("Price band distribution of %s", name),
			Brand: name,
		}
		for _, row := range SortByBucket(Aggregate(ofBrand, ByBrandAndBucket)) {
			r := newRow(section, row)
			r.OfBrand = ShareOf(row, brand)
			r.OfTotal = ShareOf(row, overall)
			section.Rows = append(section.Rows, r)
		}
		sections = append(sections, section)
	}

	return sections
}

// newRow copies the key columns of row into a report row of section
func newRow(section domain.Section, row AggregateRow) domain.ReportRow {
	r := domain.ReportRow{
		AnalysisType: section.Kind,
		Section:      section.Title,
		Brand:        row.Key.Brand,
		Title:        row.Key.Title,
		Link:         row.Key.Link,
		TotalSales:   decimal.NewNullDecimal(row.TotalSales),
		TotalVolume:  decimal.NewNullDecimal(row.TotalVolume),
	}
	if row.Key.HasBucket() {
		r.PriceBucket = row.Key.Bucket.Label
	}
	// rows inherit the bucket and brand of their section
	if r.PriceBucket == "" {
		r.PriceBucket = section.PriceBucket
	}
	if r.Brand == "" {
		r.Brand = section.Brand
	}
	return r
}

func (a *Assembler) logSection(ctx context.Context, section domain.Section) {
	level := slog.LevelDebug
	if a.opts.LogSummary {
		level = slog.LevelInfo
	}
	if !a.logger.Enabled(ctx, level) {
		return
	}

	attrs := []any{
		slog.String("analysis_type", string(section.Kind)),
		slog.String("section", section.Title),
		slog.Int("rows", len(section.Rows)),
	}
	if len(section.Rows) > 0 {
		lead := section.Rows[0]
		label, _ := lo.Coalesce(lead.Metric, lead.Title, lead.Brand, lead.PriceBucket)
		attrs = append(attrs, slog.String("lead", label))
		if lead.TotalSales.Valid {
			attrs = append(attrs, slog.String("lead_sales", lead.TotalSales.Decimal.StringFixed(2)))
		}
	}
	a.logger.Log(ctx, level, "section assembled", attrs...)
}
