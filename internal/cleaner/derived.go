package cleaner

import (
	"fmt"
	"slices"
	"strings"
)

// Operations accepted by AddDerivedColumn.
const (
	DeriveSum        = "sum"
	DeriveMean       = "mean"
	DeriveMedian     = "median"
	DeriveProduct    = "product"
	DeriveDifference = "difference"
	DeriveMode       = "mode"
)

var deriveOps = []string{DeriveSum, DeriveMean, DeriveMedian, DeriveProduct, DeriveDifference, DeriveMode}

// maxDerivedNameLen is the longest joined source list in a generated column
// name before it is replaced by a count.
const maxDerivedNameLen = 50

// AddDerivedColumn appends a column computed row-wise from columns.
//
// Numeric operations skip cells that do not coerce. sum and product of a
// row with no numeric cells are 0 and 1; mean and median are null.
// difference takes exactly two columns and is null unless both coerce. An
// empty newName generates "{operation}_of_{a}_and_{b}".
func (e *Engine) AddDerivedColumn(operation string, columns []string, newName string) (*DerivedColumnResult, error) {
	res := &DerivedColumnResult{Operation: operation, SourceColumns: append([]string(nil), columns...)}

	err := e.mutate(opAddDerivedColumn, newName, func(t *Table) error {
		if err := require(opAddDerivedColumn, t); err != nil {
			return err
		}
		if !slices.Contains(deriveOps, operation) {
			return errInvalidOperation(opAddDerivedColumn, operation, deriveOps...)
		}
		if len(columns) == 0 {
			return errColumnCount(opAddDerivedColumn, "No columns specified for operation.")
		}
		if err := require(opAddDerivedColumn, t, columns...); err != nil {
			return err
		}
		if operation == DeriveDifference && len(columns) != 2 {
			return errColumnCount(opAddDerivedColumn,
				fmt.Sprintf("Difference operation requires exactly 2 columns, got %d.", len(columns)))
		}

		name := newName
		if name == "" {
			name = derivedName(operation, columns)
		}
		if t.has(name) {
			return errColumnExists(opAddDerivedColumn, name)
		}
		res.NewColumn = name

		idx := make([]int, len(columns))
		for i, c := range columns {
			idx[i] = t.index[c]
		}
		out := make([]any, t.Len())
		cells := make([]any, len(idx))
		for r, row := range t.rows {
			for i, ci := range idx {
				cells[i] = row[ci]
			}
			out[r] = derive(operation, cells)
		}
		t.setColumn(name, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}

func derive(operation string, cells []any) any {
	if operation == DeriveMode {
		m, ok := modeOf(cells)
		if !ok {
			return nil
		}
		return m
	}

	nums := make([]float64, 0, len(cells))
	for _, c := range cells {
		if f, ok := ToNumber(c); ok {
			nums = append(nums, f)
		}
	}

	switch operation {
	case DeriveSum:
		return sum(nums)
	case DeriveProduct:
		p := 1.0
		for _, x := range nums {
			p *= x
		}
		return p
	case DeriveDifference:
		a, aok := ToNumber(cells[0])
		b, bok := ToNumber(cells[1])
		if !aok || !bok {
			return nil
		}
		return a - b
	}

	if len(nums) == 0 {
		return nil
	}
	if operation == DeriveMean {
		return mean(nums)
	}
	return median(nums)
}

func derivedName(operation string, columns []string) string {
	part := strings.Join(columns, "_and_")
	if len(part) > maxDerivedNameLen {
		part = fmt.Sprintf("%d_columns", len(columns))
	}
	return operation + "_of_" + part
}
