package domain

import (
	"github.com/shopspring/decimal"
)

// Record is one listed product row of the sales export.
type Record struct {
	Time        string          `json:"time,omitempty"`
	Title       string          `json:"title"`
	Link        string          `json:"link"`
	SalesAmount decimal.Decimal `json:"sales_amount"`
	Volume      decimal.Decimal `json:"volume"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
}

// BucketedRecord is a Record classified into its price bucket
type BucketedRecord struct {
	Record
	Bucket PriceBucket `json:"price_bucket"`
}

// PriceBucket is one half-open price interval [Lower, Upper).
// An invalid Upper means the interval is unbounded above.
type PriceBucket struct {
	Index int                 `json:"index"`
	Label string              `json:"label"`
	Lower decimal.Decimal     `json:"lower"`
	Upper decimal.NullDecimal `json:"upper"`
}

// Contains reports whether price falls inside the interval.
func (b PriceBucket) Contains(price decimal.Decimal) bool {
	if price.LessThan(b.Lower) {
		return false
	}
	return !b.Upper.Valid || price.LessThan(b.Upper.Decimal)
}

// RecordSet is the loaded input of one run
type RecordSet struct {
	Source  string   `json:"source"`
	Sheet   string   `json:"sheet,omitempty"`
	Records []Record `json:"records"`
}
