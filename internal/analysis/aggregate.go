package analysis

import (
	"github.com/shopspring/decimal"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// GroupBy selects the grouping key for Aggregate
type GroupBy int

const (
	ByBucket GroupBy = iota
	ByBrand
	ByBrandAndBucket
	ByProduct
)

func (g GroupBy) String() string {
	switch g {
	case ByBucket:
		return "bucket"
	case ByBrand:
		return "brand"
	case ByBrandAndBucket:
		return "brand_bucket"
	case ByProduct:
		return "product"
	default:
		return "unknown"
	}
}

// GroupKey identifies one aggregate row. Only the fields relevant to the
// grouping are populated.
type GroupKey struct {
	Bucket domain.PriceBucket
	Brand  string
	Title  string
	Link   string
}

// HasBucket reports whether the key carries a price bucket
func (k GroupKey) HasBucket() bool {
	return k.Bucket.Label != ""
}

// mapKey is the comparable form of GroupKey
type mapKey struct {
	bucket int
	brand  string
	title  string
	link   string
}

func (g GroupBy) keyOf(r domain.BucketedRecord) (GroupKey, mapKey) {
	switch g {
	case ByBucket:
		return GroupKey{Bucket: r.Bucket}, mapKey{bucket: r.Bucket.Index}
	case ByBrand:
		return GroupKey{Brand: r.Brand}, mapKey{bucket: -1, brand: r.Brand}
	case ByBrandAndBucket:
		return GroupKey{Bucket: r.Bucket, Brand: r.Brand},
			mapKey{bucket: r.Bucket.Index, brand: r.Brand}
	default:
		return GroupKey{Bucket: r.Bucket, Brand: r.Brand, Title: r.Title, Link: r.Link},
			mapKey{bucket: r.Bucket.Index, brand: r.Brand, title: r.Title, link: r.Link}
	}
}

// AggregateRow is the sum of sales and volume for one group
type AggregateRow struct {
	Key         GroupKey
	TotalSales  decimal.Decimal
	TotalVolume decimal.Decimal
	Count       int
}

// Aggregate sums sales and volume per distinct key. Rows come out in order of
// the key's first appearance in records, so a stable sort on the result keeps
// input order for ties.
func Aggregate(records []domain.BucketedRecord, by GroupBy) []AggregateRow {
	index := make(map[mapKey]int)
	var rows []AggregateRow

	for _, r := range records {
		key, mk := by.keyOf(r)
		i, ok := index[mk]
		if !ok {
			i = len(rows)
			index[mk] = i
			rows = append(rows, AggregateRow{Key: key})
		}
		rows[i].TotalSales = rows[i].TotalSales.Add(r.SalesAmount)
		rows[i].TotalVolume = rows[i].TotalVolume.Add(r.Volume)
		rows[i].Count++
	}

	return rows
}

// Individual wraps every record as its own product row without merging
// duplicates. Product rankings work on raw records.
func Individual(records []domain.BucketedRecord) []AggregateRow {
	rows := make([]AggregateRow, len(records))
	for i, r := range records {
		key, _ := ByProduct.keyOf(r)
		rows[i] = AggregateRow{
			Key:         key,
			TotalSales:  r.SalesAmount,
			TotalVolume: r.Volume,
			Count:       1,
		}
	}
	return rows
}

// Totals sums every record into a single row
func Totals(records []domain.BucketedRecord) AggregateRow {
	var total AggregateRow
	for _, r := range records {
		total.TotalSales = total.TotalSales.Add(r.SalesAmount)
		total.TotalVolume = total.TotalVolume.Add(r.Volume)
		total.Count++
	}
	return total
}

// SortByBucket orders rows by bucket index, keeping input order otherwise
func SortByBucket(rows []AggregateRow) []AggregateRow {
	return sortStable(rows, func(a, b AggregateRow) bool {
		return a.Key.Bucket.Index < b.Key.Bucket.Index
	})
}

// PercentageOf returns value / denominator * 100 at full precision.
// A zero denominator yields ErrEmptyGroup.
func PercentageOf(value, denominator decimal.Decimal) (decimal.Decimal, error) {
	if denominator.IsZero() {
		return decimal.Zero, apperrors.ErrEmptyGroup
	}
	return value.Mul(hundred).Div(denominator), nil
}

// ShareOf computes the sales and volume percentages of row against basis.
// A component whose basis total is zero is left unset.
func ShareOf(row, basis AggregateRow) domain.Share {
	return domain.Share{
		Sales:  nullPercentage(row.TotalSales, basis.TotalSales),
		Volume: nullPercentage(row.TotalVolume, basis.TotalVolume),
	}
}

func nullPercentage(value, denominator decimal.Decimal) decimal.NullDecimal {
	pct, err := PercentageOf(value, denominator)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(pct)
}
