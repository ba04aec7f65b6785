package cleaner

import (
	"sort"
	"strings"
)

var (
	boolTokens = map[string]bool{
		"true": true, "yes": true, "1": true, "t": true, "y": true,
		"false": false, "no": false, "0": false, "f": false, "n": false,
	}
	nullTokens = map[string]bool{"null": true, "none": true, "nan": true, "na": true, "": true}
)

// HandleInconsistentData standardizes the categorical values of column.
//
// With a non-empty mapping, each non-null cell whose string form matches a
// key is replaced by that key's value; unmatched cells pass through. When
// caseSensitive is false keys and cells are compared lowercased, and if two
// keys collide the lexically first one wins.
//
// Without a mapping the column is standardized automatically: every
// non-null cell is stringified and trimmed, the whole column becomes boolean if every non-null cell is a
// boolean token (true/false, yes/no, 1/0, t/f, y/n), and null tokens
// (null, none, nan, na, empty) become null.
func (e *Engine) HandleInconsistentData(column string, mapping map[string]any, caseSensitive bool) (*InconsistentResult, error) {
	res := &InconsistentResult{Column: column, MappingApplied: len(mapping) > 0}

	err := e.mutate(opHandleInconsistent, column, func(t *Table) error {
		if err := require(opHandleInconsistent, t, column); err != nil {
			return err
		}

		values := t.values(column)
		res.OriginalValues = distinct(values)

		if len(mapping) > 0 {
			applyMapping(values, mapping, caseSensitive)
		} else {
			res.ConvertedToBoolean = autoStandardize(values)
		}

		t.setColumn(column, values)
		res.StandardizedValues = distinct(values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Data = e.working.Records()
	return res, nil
}

func applyMapping(values []any, mapping map[string]any, caseSensitive bool) {
	lookup := make(map[string]any, len(mapping))
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lk := k
		if !caseSensitive {
			lk = strings.ToLower(k)
		}
		if _, taken := lookup[lk]; !taken {
			lookup[lk] = normalizeValue(mapping[k])
		}
	}

	for i, v := range values {
		if v == nil {
			continue
		}
		s := Stringify(v)
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		if mv, ok := lookup[s]; ok {
			values[i] = mv
		}
	}
}

// autoStandardize rewrites values in place and reports whether the column
// was converted to booleans. Every non-null cell is first replaced by its
// trimmed string form.
func autoStandardize(values []any) bool {
	allBool := true
	nonNull := 0
	for i, v := range values {
		if v == nil {
			continue
		}
		nonNull++
		s := strings.TrimSpace(autoString(v))
		values[i] = s
		if _, isBool := boolTokens[strings.ToLower(s)]; !isBool {
			allBool = false
		}
	}

	if allBool && nonNull > 0 {
		for i, v := range values {
			if s, ok := v.(string); ok {
				values[i] = boolTokens[strings.ToLower(s)]
			}
		}
		return true
	}

	for i, v := range values {
		if s, ok := v.(string); ok && nullTokens[strings.ToLower(s)] {
			values[i] = nil
		}
	}
	return false
}

// autoString is Stringify, except integral floats keep a trailing ".0" so
// a float column of 1.0 and 0.0 is not read as boolean tokens.
func autoString(v any) string {
	s := Stringify(v)
	if _, ok := v.(float64); ok && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
