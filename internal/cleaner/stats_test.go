package cleaner

import (
	"math"
	"testing"
)

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := quantile(s, tt.q); got != tt.want {
			t.Errorf("quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		t.Error("quantile(nil) should be NaN")
	}
}

func TestSampleStd(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{7}, 0},
		{[]float64{2, 4, 6}, 2},
		{[]float64{5, 5, 5}, 0},
	}
	for _, tt := range tests {
		if got := sampleStd(tt.in); got != tt.want {
			t.Errorf("sampleStd(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeOf(t *testing.T) {
	tests := []struct {
		name   string
		in     []any
		want   any
		wantOK bool
	}{
		{"single winner", []any{"a", "b", "b"}, "b", true},
		{"numeric tie", []any{int64(3), int64(1), int64(3), int64(1)}, int64(1), true},
		{"int and float equal", []any{int64(2), 2.0, 1.0}, int64(2), true},
		{"ignores nil", []any{nil, nil, "x"}, "x", true},
		{"all nil", []any{nil, nil}, nil, false},
	}
	for _, tt := range tests {
		got, ok := modeOf(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%s: modeOf = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDistinct(t *testing.T) {
	got := distinct([]any{"a", nil, "a", int64(1), 1.0, nil})
	if len(got) != 3 || got[0] != "a" || got[1] != nil || got[2] != int64(1) {
		t.Errorf("distinct = %v, want [a <nil> 1]", got)
	}
}
