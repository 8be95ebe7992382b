// Package shared holds code used across the analyzer's packages that has no
// home in a single layer.
//
// The testutil subpackage provides the test helpers: a buffered slog handler
// for asserting on log output, a deterministic set of lamp sales records, and
// helpers that write those records to .xlsx workbooks with excelize.
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    input := testutil.WriteSampleWorkbook(t)
//	    ...
//	}
package shared
