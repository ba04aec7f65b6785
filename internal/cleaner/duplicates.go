package cleaner

import (
	"strconv"
	"strings"
)

// RemoveDuplicates drops rows that equal an earlier row in every column,
// keeping the first occurrence and the original order. Nulls compare equal
// to each other.
//
// considerAllColumns is accepted for compatibility; comparison always uses
// every column.
func (e *Engine) RemoveDuplicates(considerAllColumns bool) (*DuplicatesResult, error) {
	var removed int
	err := e.mutate(opRemoveDuplicates, "", func(t *Table) error {
		if err := require(opRemoveDuplicates, t); err != nil {
			return err
		}
		seen := make(map[string]struct{}, t.Len())
		removed = t.keepRows(func(i int) bool {
			k := rowKey(t.rows[i])
			if _, dup := seen[k]; dup {
				return false
			}
			seen[k] = struct{}{}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DuplicatesResult{Data: e.working.Records(), RemovedCount: removed}, nil
}

func rowKey(row []any) string {
	var b strings.Builder
	for _, v := range row {
		k := valueKey(v)
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}
