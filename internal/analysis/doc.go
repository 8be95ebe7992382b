// Package analysis turns loaded sales records into the report sections.
//
// The pipeline is pure and single-threaded:
//
//	bucketed, err := analysis.DefaultBucketer().BucketAll(records)
//	report, err := analysis.NewAssembler(logger, nil, analysis.DefaultOptions()).
//		Assemble(ctx, "lamps.xlsx", bucketed)
//
// Sums use decimal arithmetic, so the price band rows add up exactly to the
// overall totals. Percentages are kept at full precision; rounding to one
// decimal happens only when the report is written. A percentage against a
// group whose total is zero is left unset rather than reported as 0.
//
// Rankings are stable: groups with equal sales keep the order in which they
// first appear in the input.
package analysis
