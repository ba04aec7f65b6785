package cleaner

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Operation names as they appear in errors, logs and metrics.
const (
	opRemoveDuplicates   = "remove_duplicates"
	opHandleMissing      = "handle_missing_values"
	opConvertTypes       = "convert_types"
	opCleanText          = "clean_text"
	opNormalize          = "normalize_data"
	opStandardize        = "standardize_data"
	opScale              = "scale"
	opDetectOutliers     = "detect_outliers"
	opHandleOutliers     = "handle_outliers"
	opAddDerivedColumn   = "add_derived_column"
	opHandleInconsistent = "handle_inconsistent_data"
	opReset              = "reset_changes"
	opProfile            = "profile"
)

// Observer is notified after every operation with its outcome.
// err is nil on success.
type Observer func(op string, d time.Duration, err error)

// Engine owns an immutable original table and the working table that
// operations replace on success.
type Engine struct {
	original *Table
	working  *Table
	logger   *slog.Logger
	observe  Observer
	order    []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-operation debug lines and
// internal failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a callback invoked after every operation.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observe = o }
}

// WithColumns fixes the leading column order. Keys not listed are appended
// after these in order of first appearance.
func WithColumns(columns []string) Option {
	return func(e *Engine) { e.order = append([]string(nil), columns...) }
}

// New builds an engine over rows. The rows are copied; later changes by the
// caller are not observed.
func New(rows []map[string]any, opts ...Option) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.original = newTable(e.order, rows)
	e.working = e.original.clone()
	return e
}

// Len returns the number of rows in the working table.
func (e *Engine) Len() int { return e.working.Len() }

// Columns returns the working column order.
func (e *Engine) Columns() []string { return e.working.Columns() }

// Working returns a snapshot of the working table. The snapshot is not
// affected by later operations.
func (e *Engine) Working() *Table { return e.working.clone() }

// Data returns the current working table.
func (e *Engine) Data() *DataResult {
	return &DataResult{
		Data:     e.working.Records(),
		Columns:  e.working.Columns(),
		RowCount: e.working.Len(),
	}
}

// Reset rebuilds the working table from the original. If the rebuild
// fails the working table becomes empty and the failure is returned
// alongside an empty result.
func (e *Engine) Reset() (res *ResetResult, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.working = emptyTable()
			res = &ResetResult{Data: []Record{}, Message: "Reset failed; working data cleared."}
			err = errInternal(opReset, "", fmt.Errorf("%v", r))
		}
		e.finish(opReset, "", start, err)
	}()

	e.working = e.original.clone()
	return &ResetResult{
		Data:    e.working.Records(),
		Message: "Data reset to original state.",
	}, nil
}

// mutate runs fn against a copy of the working table and commits the copy
// only when fn returns nil. Panics become InternalFailure.
func (e *Engine) mutate(op, column string, fn func(t *Table) error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errInternal(op, column, fmt.Errorf("%v", r))
		}
		e.finish(op, column, start, err)
	}()

	next := e.working.clone()
	if err := fn(next); err != nil {
		return err
	}
	e.working = next
	return nil
}

// inspect runs a read-only fn against the working table.
func (e *Engine) inspect(op, column string, fn func(t *Table) error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errInternal(op, column, fmt.Errorf("%v", r))
		}
		e.finish(op, column, start, err)
	}()
	return fn(e.working)
}

func (e *Engine) finish(op, column string, start time.Time, err error) {
	d := time.Since(start)
	if e.observe != nil {
		e.observe(op, d, err)
	}
	switch {
	case err == nil:
		e.logger.Debug("operation applied",
			"op", op,
			"column", column,
			"rows", e.working.Len(),
			"duration", d,
		)
	case KindOf(err) == KindInternalFailure:
		e.logger.Error("operation failed",
			"op", op,
			"column", column,
			"error", err,
		)
	default:
		e.logger.Debug("operation rejected",
			"op", op,
			"column", column,
			"kind", KindOf(err),
			"error", err,
		)
	}
}

// require checks the preconditions shared by every operation: a non-empty
// table and the presence of every named column.
func require(op string, t *Table, columns ...string) error {
	if t.Len() == 0 {
		return errEmptyTable(op)
	}
	for _, c := range columns {
		if !t.has(c) {
			return errColumnNotFound(op, c)
		}
	}
	return nil
}
