package cleaner

import (
	"math"
	"sort"
)

// numericView is a column coerced to numbers. ok[i] is false where the
// cell is null or does not coerce.
type numericView struct {
	nums  []float64
	ok    []bool
	valid []float64 // coercible values in row order
	nulls int
}

func numericColumn(values []any) numericView {
	nv := numericView{
		nums: make([]float64, len(values)),
		ok:   make([]bool, len(values)),
	}
	for i, v := range values {
		if v == nil {
			nv.nulls++
			continue
		}
		if f, ok := ToNumber(v); ok {
			nv.nums[i] = f
			nv.ok[i] = true
			nv.valid = append(nv.valid, f)
		}
	}
	return nv
}

// allNull reports whether every cell was null, as opposed to present but
// not numeric.
func (nv numericView) allNull() bool { return nv.nulls == len(nv.nums) }

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return sum(xs) / float64(len(xs))
}

// sampleStd is the n-1 standard deviation. Fewer than two values yield 0.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func sorted(xs []float64) []float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return s
}

func median(xs []float64) float64 {
	return quantile(sorted(xs), 0.5)
}

// quantile interpolates linearly between the closest ranks of an already
// sorted slice.
func quantile(s []float64, q float64) float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo] + (s[hi]-s[lo])*frac
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// modeOf returns the most frequent non-null value. Ties go to the smallest
// value. ok is false when every value is null.
func modeOf(values []any) (any, bool) {
	counts := make(map[string]int)
	first := make(map[string]any)
	for _, v := range values {
		if v == nil {
			continue
		}
		k := valueKey(v)
		if _, seen := first[k]; !seen {
			first[k] = v
		}
		counts[k]++
	}
	if len(counts) == 0 {
		return nil, false
	}

	var best any
	bestCount := 0
	for k, n := range counts {
		v := first[k]
		if n > bestCount || (n == bestCount && compareValues(v, best) < 0) {
			best, bestCount = v, n
		}
	}
	return best, true
}

// distinct returns the unique values in order of first appearance,
// including nil.
func distinct(values []any) []any {
	seen := make(map[string]bool)
	out := make([]any, 0)
	for _, v := range values {
		k := valueKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// ptr returns nil for NaN and ±Inf so overflowed statistics are omitted.
func ptr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
