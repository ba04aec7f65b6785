package cleaner

import (
	"fmt"
	"slices"
)

// Methods accepted by HandleMissingValues.
const (
	MissingRemove = "remove"
	MissingMean   = "mean"
	MissingMedian = "median"
	MissingMode   = "mode"
	MissingCustom = "custom"
)

var missingMethods = []string{MissingRemove, MissingMean, MissingMedian, MissingMode, MissingCustom}

// HandleMissingValues removes or fills the null cells of one column.
//
// mean and median are computed over the cells that coerce to numbers. mode
// picks the most frequent non-null value, smallest first on ties. custom
// fills with customValue cast to the column's element type, falling back to
// the raw value when the cast fails.
func (e *Engine) HandleMissingValues(column, method string, customValue any) (*MissingValuesResult, error) {
	res := &MissingValuesResult{Column: column, Method: method}

	err := e.mutate(opHandleMissing, column, func(t *Table) error {
		if err := require(opHandleMissing, t, column); err != nil {
			return err
		}
		if !slices.Contains(missingMethods, method) {
			return errInvalidMethod(opHandleMissing, column, method, missingMethods...)
		}
		if method == MissingCustom && customValue == nil {
			return errMissingParameter(opHandleMissing, column,
				"Custom value must be provided for 'custom' method.")
		}

		res.MissingCount = t.nullCount(column)
		if res.MissingCount == 0 {
			res.Message = fmt.Sprintf("No missing values found in column '%s'.", column)
			return nil
		}

		values := t.values(column)
		var fill any
		switch method {
		case MissingRemove:
			ci := t.index[column]
			t.keepRows(func(i int) bool { return t.rows[i][ci] != nil })
			return nil

		case MissingMean, MissingMedian:
			nv := numericColumn(values)
			if len(nv.valid) == 0 {
				return errNonNumeric(opHandleMissing, column,
					fmt.Sprintf("Cannot calculate %s for non-numeric column '%s'.", method, column))
			}
			if method == MissingMean {
				fill = mean(nv.valid)
			} else {
				fill = median(nv.valid)
			}

		case MissingMode:
			m, ok := modeOf(values)
			if !ok {
				return errNoMode(opHandleMissing, column)
			}
			fill = m

		case MissingCustom:
			raw := normalizeValue(customValue)
			if v, ok := castTo(inferType(values), raw); ok {
				fill = v
			} else {
				fill = raw
			}
		}

		for i, v := range values {
			if v == nil {
				values[i] = fill
			}
		}
		t.setColumn(column, values)
		res.FillValue = fill
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}
