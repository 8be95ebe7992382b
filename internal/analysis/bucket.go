package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/pkg/contracts/domain"
)

// DefaultBounds are the lower bounds of the standard lamp price bands.
// The last band is unbounded above.
var DefaultBounds = []int64{0, 100, 200, 300, 400, 500, 800, 1000}

// Bucketer assigns prices to a fixed ordered set of half-open intervals
type Bucketer struct {
	buckets []domain.PriceBucket
}

// DefaultBucketer returns the bucketer for DefaultBounds with labels
// "0-100" ... "800-1000", "1000+".
func DefaultBucketer() *Bucketer {
	bounds := make([]decimal.Decimal, len(DefaultBounds))
	for i, b := range DefaultBounds {
		bounds[i] = decimal.NewFromInt(b)
	}
	b, err := NewBucketer(bounds, nil)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBucketer builds a bucketer from strictly increasing lower bounds starting
// at zero. Nil labels are generated as "lower-upper" and "lower+".
func NewBucketer(bounds []decimal.Decimal, labels []string) (*Bucketer, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("bucket definition needs at least one bound")
	}
	if !bounds[0].IsZero() {
		return nil, fmt.Errorf("first bucket must start at 0, got %s", bounds[0])
	}
	if labels != nil && len(labels) != len(bounds) {
		return nil, fmt.Errorf("got %d labels for %d buckets", len(labels), len(bounds))
	}

	buckets := make([]domain.PriceBucket, len(bounds))
	for i, lower := range bounds {
		b := domain.PriceBucket{Index: i, Lower: lower}
		if i+1 < len(bounds) {
			upper := bounds[i+1]
			if !upper.GreaterThan(lower) {
				return nil, fmt.Errorf("bounds must be strictly increasing: %s after %s", upper, lower)
			}
			b.Upper = decimal.NewNullDecimal(upper)
		}
		if labels != nil {
			b.Label = labels[i]
		} else {
			b.Label = defaultLabel(b)
		}
		buckets[i] = b
	}

	return &Bucketer{buckets: buckets}, nil
}

func defaultLabel(b domain.PriceBucket) string {
	if !b.Upper.Valid {
		return b.Lower.String() + "+"
	}
	return b.Lower.String() + "-" + b.Upper.Decimal.String()
}

// Buckets returns the bucket definition in order
func (b *Bucketer) Buckets() []domain.PriceBucket {
	out := make([]domain.PriceBucket, len(b.buckets))
	copy(out, b.buckets)
	return out
}

// Labels returns the bucket labels in order
func (b *Bucketer) Labels() []string {
	labels := make([]string, len(b.buckets))
	for i, bucket := range b.buckets {
		labels[i] = bucket.Label
	}
	return labels
}

// Assign returns the unique bucket with lower <= price < upper.
// A negative price is invalid input.
func (b *Bucketer) Assign(price decimal.Decimal) (domain.PriceBucket, error) {
	if price.IsNegative() {
		return domain.PriceBucket{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("negative price %s", price), nil)
	}
	for _, bucket := range b.buckets {
		if bucket.Contains(price) {
			return bucket, nil
		}
	}
	return domain.PriceBucket{}, apperrors.NewInvalidInputError(
		fmt.Sprintf("price %s is outside every price band", price), nil)
}

// BucketAll classifies every record. The input slice is not modified.
func (b *Bucketer) BucketAll(records []domain.Record) ([]domain.BucketedRecord, error) {
	out := make([]domain.BucketedRecord, len(records))
	for i, r := range records {
		bucket, err := b.Assign(r.Price)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok {
				appErr.WithContext("record", i+1).WithContext("title", r.Title)
			}
			return nil, err
		}
		out[i] = domain.BucketedRecord{Record: r, Bucket: bucket}
	}
	return out, nil
}
