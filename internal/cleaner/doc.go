// Package cleaner provides the table engine behind the data-cleaning service.
//
// The engine holds two copies of one dataset: an immutable original snapshot
// and a working table that every mutating operation replaces wholesale. It
// has no knowledge of HTTP, sessions, or files and can be driven from tests
// or any transport.
//
// # Data Model
//
// A dataset is a slice of [Record] values. Cells are always one of nil,
// string, int64, float64, bool, or time.Time; other Go numeric types are
// normalized on construction and NaN collapses to nil. Each row carries a
// stable identifier that survives every operation and reset.
//
//	eng := cleaner.New([]map[string]any{
//	    {"name": "Ada", "age": 36},
//	    {"name": "Grace", "age": nil},
//	})
//	res, err := eng.HandleMissingValues("age", cleaner.MissingMedian, nil)
//
// # Operations
//
//   - [Engine.RemoveDuplicates]: exact-duplicate removal, first occurrence kept
//   - [Engine.HandleMissingValues]: remove, mean, median, mode or custom fill
//   - [Engine.ConvertTypes]: text, number, date or boolean coercion
//   - [Engine.CleanText]: trim, case folding, punctuation and digit removal
//   - [Engine.Normalize] and [Engine.Standardize]: min-max and z-score scaling
//   - [Engine.DetectOutliers] and [Engine.HandleOutliers]: zscore or IQR
//   - [Engine.AddDerivedColumn]: row-wise sum, mean, median, product, difference, mode
//   - [Engine.HandleInconsistentData]: explicit mapping or automatic standardization
//   - [Engine.Reset]: rebuild the working table from the original
//
// # Error Handling
//
// Every failure is an [*Error] carrying a [Kind]. Preconditions are checked
// before anything is mutated and a failed operation leaves the working table
// exactly as it was. Use errors.Is with the Err* sentinels or [KindOf]:
//
//	if errors.Is(err, cleaner.ErrColumnNotFound) { ... }
//
// [Envelope] turns a result or error into the JSON shape returned to clients.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Callers serialize access; the
// session package does this with a mutex per session.
package cleaner
