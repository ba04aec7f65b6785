package cleaner

import "fmt"

// Methods accepted by Scale.
const (
	ScaleNormalize   = "normalize"
	ScaleStandardize = "standardize"
)

// Normalize rescales column to [0, 1] with min-max scaling.
func (e *Engine) Normalize(column string, preserveOriginal bool) (*ScaleResult, error) {
	return e.Scale(column, ScaleNormalize, preserveOriginal)
}

// Standardize rescales column to zero mean and unit sample standard deviation.
func (e *Engine) Standardize(column string, preserveOriginal bool) (*ScaleResult, error) {
	return e.Scale(column, ScaleStandardize, preserveOriginal)
}

// Scale applies min-max or z-score scaling to the numeric cells of column.
// Cells that do not coerce to numbers become null. A zero range or zero
// standard deviation maps every valid cell to 0. With preserveOriginal the
// result is written to "{column}_{method}d" instead of in place.
func (e *Engine) Scale(column, method string, preserveOriginal bool) (*ScaleResult, error) {
	op := opScale
	switch method {
	case ScaleNormalize:
		op = opNormalize
	case ScaleStandardize:
		op = opStandardize
	}

	res := &ScaleResult{Column: column, Method: method, TargetColumn: column}

	err := e.mutate(op, column, func(t *Table) error {
		if err := require(op, t, column); err != nil {
			return err
		}
		if op == opScale {
			return errInvalidMethod(op, column, method, ScaleNormalize, ScaleStandardize)
		}

		nv := numericColumn(t.values(column))
		if len(nv.valid) == 0 {
			if nv.allNull() {
				return errAllNull(op, column)
			}
			return errNonNumeric(op, column,
				fmt.Sprintf("Column '%s' contains no numeric values and cannot be %sd.", column, method))
		}

		if preserveOriginal {
			res.TargetColumn = column + "_" + method + "d"
			if t.has(res.TargetColumn) {
				return errColumnExists(op, res.TargetColumn)
			}
		}

		var f func(float64) float64
		if method == ScaleNormalize {
			lo, hi := minMax(nv.valid)
			res.Details = ScaleDetails{Min: ptr(lo), Max: ptr(hi)}
			f = func(x float64) float64 {
				if hi == lo {
					return 0
				}
				return (x - lo) / (hi - lo)
			}
		} else {
			m, sd := mean(nv.valid), sampleStd(nv.valid)
			res.Details = ScaleDetails{Mean: ptr(m), StdDev: ptr(sd)}
			f = func(x float64) float64 {
				if sd == 0 {
					return 0
				}
				return (x - m) / sd
			}
		}

		scaled := make([]any, len(nv.nums))
		for i, x := range nv.nums {
			if nv.ok[i] {
				scaled[i] = f(x)
			}
		}
		t.setColumn(res.TargetColumn, scaled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}
