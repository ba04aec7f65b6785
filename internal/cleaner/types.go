package cleaner

import "time"

// ValueType is the inferred element type of a column.
type ValueType string

const (
	TypeInteger  ValueType = "integer"
	TypeFloat    ValueType = "float"
	TypeBoolean  ValueType = "boolean"
	TypeDatetime ValueType = "datetime"
	TypeText     ValueType = "text"
	TypeMixed    ValueType = "mixed"
	TypeEmpty    ValueType = "empty"
)

func typeOf(v any) ValueType {
	switch v.(type) {
	case int64:
		return TypeInteger
	case float64:
		return TypeFloat
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeDatetime
	case string:
		return TypeText
	}
	return TypeMixed
}

// inferType reports the element type of a column's non-null cells.
// Integers mixed with floats are float.
func inferType(values []any) ValueType {
	result := TypeEmpty
	for _, v := range values {
		if v == nil {
			continue
		}
		t := typeOf(v)
		switch {
		case result == TypeEmpty:
			result = t
		case result == t:
		case (result == TypeInteger && t == TypeFloat) || (result == TypeFloat && t == TypeInteger):
			result = TypeFloat
		default:
			return TypeMixed
		}
	}
	return result
}

// castTo converts v to the given element type. Text, mixed and empty
// columns take the value unchanged.
func castTo(t ValueType, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch t {
	case TypeInteger:
		f, ok := ToNumber(v)
		if !ok || f != float64(int64(f)) {
			return nil, false
		}
		return int64(f), true
	case TypeFloat:
		f, ok := ToNumber(v)
		if !ok {
			return nil, false
		}
		return f, true
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, true
		}
		return ToBool(v)
	case TypeDatetime:
		d, ok := ToDate(v)
		if !ok {
			return nil, false
		}
		return d, true
	}
	return v, true
}
