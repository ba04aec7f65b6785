package cleaner

import (
	"fmt"
	"slices"
)

// Target types accepted by ConvertTypes.
const (
	TargetText    = "text"
	TargetNumber  = "number"
	TargetDate    = "date"
	TargetBoolean = "boolean"
)

var targetTypes = []string{TargetText, TargetNumber, TargetDate, TargetBoolean}

// ConvertTypes coerces every cell of column to targetType. Cells that
// cannot be converted become null and are counted in the warning. Nulls
// stay null for every target.
func (e *Engine) ConvertTypes(column, targetType string) (*ConvertResult, error) {
	res := &ConvertResult{Column: column}

	err := e.mutate(opConvertTypes, column, func(t *Table) error {
		if err := require(opConvertTypes, t, column); err != nil {
			return err
		}
		if !slices.Contains(targetTypes, targetType) {
			return errInvalidTargetType(opConvertTypes, column, targetType, targetTypes...)
		}

		values := t.values(column)
		res.OriginalType = inferType(values)
		nullsBefore := t.nullCount(column)

		conv := converterFor(targetType)
		for i, v := range values {
			if v == nil {
				continue
			}
			if out, ok := conv(v); ok {
				values[i] = out
			} else {
				values[i] = nil
			}
		}
		t.setColumn(column, values)

		res.NewType = inferType(values)
		res.FailedCount = t.nullCount(column) - nullsBefore
		if res.FailedCount > 0 {
			res.Warning = fmt.Sprintf("%d value(s) could not be converted to %s and were set to null.",
				res.FailedCount, targetType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}

func converterFor(target string) func(any) (any, bool) {
	switch target {
	case TargetNumber:
		return toNumberValue
	case TargetDate:
		return func(v any) (any, bool) {
			d, ok := ToDate(v)
			return d, ok
		}
	case TargetBoolean:
		return func(v any) (any, bool) {
			b, ok := ToBool(v)
			return b, ok
		}
	}
	return func(v any) (any, bool) { return Stringify(v), true }
}
