package cleaner

// Profile summarizes every column of the working table: inferred type, null
// and distinct counts, and numeric aggregates where any cell coerces.
func (e *Engine) Profile() (*ProfileResult, error) {
	var res *ProfileResult
	err := e.inspect(opProfile, "", func(t *Table) error {
		res = &ProfileResult{RowCount: t.Len(), Columns: make([]ColumnProfile, 0, len(t.columns))}
		for _, name := range t.columns {
			res.Columns = append(res.Columns, profileColumn(name, t.values(name)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func profileColumn(name string, values []any) ColumnProfile {
	nv := numericColumn(values)
	cp := ColumnProfile{
		Name:          name,
		Type:          inferType(values),
		NullCount:     nv.nulls,
		DistinctCount: len(distinct(values)),
		NumericCount:  len(nv.valid),
	}
	if cp.NullCount > 0 {
		// null is reported via NullCount, not as a distinct value
		cp.DistinctCount--
	}
	if len(nv.valid) > 0 {
		lo, hi := minMax(nv.valid)
		cp.Sum = ptr(sum(nv.valid))
		cp.Mean = ptr(mean(nv.valid))
		cp.Min = ptr(lo)
		cp.Max = ptr(hi)
	}
	return cp
}
