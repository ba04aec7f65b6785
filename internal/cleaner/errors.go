package cleaner

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why an operation was rejected.
type Kind string

const (
	KindEmptyTable          Kind = "EmptyTable"
	KindColumnNotFound      Kind = "ColumnNotFound"
	KindColumnAlreadyExists Kind = "ColumnAlreadyExists"
	KindInvalidMethod       Kind = "InvalidMethod"
	KindInvalidTargetType   Kind = "InvalidTargetType"
	KindInvalidOperation    Kind = "InvalidOperation"
	KindMissingParameter    Kind = "MissingParameter"
	KindNonNumericColumn    Kind = "NonNumericColumn"
	KindAllNull             Kind = "AllNull"
	KindNoMode              Kind = "NoMode"
	KindInvalidColumnCount  Kind = "InvalidColumnCount"
	KindInternalFailure     Kind = "InternalFailure"
)

// Error is returned by every Engine operation that does not succeed.
// Message is a single sentence suitable for direct display.
type Error struct {
	Kind    Kind
	Op      string // operation name, e.g. "handle_missing_values"
	Column  string // offending column, empty for table-level failures
	Message string
	Err     error // underlying cause, set for InternalFailure
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so the
// exported sentinels can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is matching. Only Kind is compared.
var (
	ErrEmptyTable          = &Error{Kind: KindEmptyTable, Message: "table is empty"}
	ErrColumnNotFound      = &Error{Kind: KindColumnNotFound, Message: "column not found"}
	ErrColumnAlreadyExists = &Error{Kind: KindColumnAlreadyExists, Message: "column already exists"}
	ErrInvalidMethod       = &Error{Kind: KindInvalidMethod, Message: "invalid method"}
	ErrInvalidTargetType   = &Error{Kind: KindInvalidTargetType, Message: "invalid target type"}
	ErrInvalidOperation    = &Error{Kind: KindInvalidOperation, Message: "invalid operation"}
	ErrMissingParameter    = &Error{Kind: KindMissingParameter, Message: "missing parameter"}
	ErrNonNumericColumn    = &Error{Kind: KindNonNumericColumn, Message: "column is not numeric"}
	ErrAllNull             = &Error{Kind: KindAllNull, Message: "column has no usable values"}
	ErrNoMode              = &Error{Kind: KindNoMode, Message: "column has no mode"}
	ErrInvalidColumnCount  = &Error{Kind: KindInvalidColumnCount, Message: "wrong number of columns"}
	ErrInternalFailure     = &Error{Kind: KindInternalFailure, Message: "internal failure"}
)

// KindOf returns the Kind carried by err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// opPhrases is how each operation reads inside "Cannot ... on empty data."
var opPhrases = map[string]string{
	opRemoveDuplicates:   "remove duplicates",
	opHandleMissing:      "handle missing values",
	opConvertTypes:       "convert types",
	opCleanText:          "clean text",
	opNormalize:          "normalize data",
	opStandardize:        "standardize data",
	opScale:              "scale data",
	opDetectOutliers:     "detect outliers",
	opHandleOutliers:     "handle outliers",
	opAddDerivedColumn:   "add a derived column",
	opHandleInconsistent: "process inconsistent data",
	opProfile:            "profile data",
}

func errEmptyTable(op string) *Error {
	phrase, ok := opPhrases[op]
	if !ok {
		phrase = strings.ReplaceAll(op, "_", " ")
	}
	return &Error{
		Kind:    KindEmptyTable,
		Op:      op,
		Message: fmt.Sprintf("Cannot %s on empty data.", phrase),
	}
}

func errColumnNotFound(op, column string) *Error {
	return &Error{
		Kind:    KindColumnNotFound,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("Column '%s' not found.", column),
	}
}

func errColumnExists(op, column string) *Error {
	return &Error{
		Kind:    KindColumnAlreadyExists,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("Column '%s' already exists.", column),
	}
}

func errInvalidMethod(op, column, method string, valid ...string) *Error {
	return &Error{
		Kind:    KindInvalidMethod,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("Invalid method '%s'. Choose from %s.", method, quoteList(valid)),
	}
}

func errInvalidTargetType(op, column, target string, valid ...string) *Error {
	return &Error{
		Kind:    KindInvalidTargetType,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("Invalid target type '%s'. Choose from %s.", target, quoteList(valid)),
	}
}

func errInvalidOperation(op, operation string, valid ...string) *Error {
	return &Error{
		Kind:    KindInvalidOperation,
		Op:      op,
		Message: fmt.Sprintf("Invalid operation '%s'. Choose from %s.", operation, quoteList(valid)),
	}
}

func errMissingParameter(op, column, message string) *Error {
	return &Error{Kind: KindMissingParameter, Op: op, Column: column, Message: message}
}

func errNonNumeric(op, column, message string) *Error {
	return &Error{Kind: KindNonNumericColumn, Op: op, Column: column, Message: message}
}

func errAllNull(op, column string) *Error {
	return &Error{
		Kind:    KindAllNull,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("No valid numeric data found in column '%s'.", column),
	}
}

func errNoMode(op, column string) *Error {
	return &Error{
		Kind:    KindNoMode,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("Cannot calculate mode for column '%s' (all values are null).", column),
	}
}

func errColumnCount(op, message string) *Error {
	return &Error{Kind: KindInvalidColumnCount, Op: op, Message: message}
}

func errInternal(op, column string, cause error) *Error {
	msg := fmt.Sprintf("Operation '%s' failed unexpectedly", op)
	if column != "" {
		msg = fmt.Sprintf("Operation '%s' failed unexpectedly on column '%s'", op, column)
	}
	return &Error{Kind: KindInternalFailure, Op: op, Column: column, Message: msg, Err: cause}
}

// quoteList renders []string{"a","b","c"} as "'a', 'b', or 'c'".
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " or " + quoted[1]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
