package wire

import (
	"math"
	"testing"
)

func TestSafeMul(t *testing.T) {
	tests := []struct {
		name   string
		a, b   int
		want   int
		wantOK bool
	}{
		{"zero", 0, math.MaxInt, 0, true},
		{"small", 3, 4, 12, true},
		{"max * one", math.MaxInt, 1, math.MaxInt, true},
		{"overflow", math.MaxInt, 2, 0, false},
		{"negative", -1, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeMul(tt.a, tt.b)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("SafeMul(%d, %d) = %d, %v", tt.a, tt.b, got, ok)
			}
		})
	}
}

func TestSafeAdd(t *testing.T) {
	if v, ok := SafeAdd(1, 2); !ok || v != 3 {
		t.Errorf("SafeAdd(1, 2) = %d, %v", v, ok)
	}
	if _, ok := SafeAdd(math.MaxInt, 1); ok {
		t.Error("SafeAdd should overflow")
	}
}

func TestSafeMulU64(t *testing.T) {
	if v, ok := SafeMulU64(1<<32, 1<<31); !ok || v != 1<<63 {
		t.Errorf("SafeMulU64 = %d, %v", v, ok)
	}
	if _, ok := SafeMulU64(1<<32, 1<<32); ok {
		t.Error("SafeMulU64 should overflow")
	}
}
