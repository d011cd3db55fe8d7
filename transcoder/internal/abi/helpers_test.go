package abi

import (
	"encoding/json"
	"testing"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "null"},
		{"bool", true, "boolean"},
		{"string", "hello", "string"},
		{"float64", 3.14, "number"},
		{"json number", json.Number("1"), "number"},
		{"int", 42, "number"},
		{"any slice", []any{1}, "array"},
		{"typed slice", []string{"a"}, "array"},
		{"object", map[string]any{}, "object"},
		{"typed map", map[string]int{}, "object"},
		{"struct", struct{ X int }{}, "struct { X int }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeName(tt.input); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantLen int
		wantOK  bool
	}{
		{"any slice", []any{1, "a", nil}, 3, true},
		{"bytes", []byte{1, 2}, 2, true},
		{"typed slice", []int{4, 5, 6, 7}, 4, true},
		{"array", [2]string{"a", "b"}, 2, true},
		{"empty", []any{}, 0, true},
		{"string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"object", map[string]any{"a": 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, at, ok := Sequence(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Sequence ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if n != tt.wantLen {
				t.Errorf("Sequence len = %d, want %d", n, tt.wantLen)
			}
			for i := 0; i < n; i++ {
				_ = at(i)
			}
		})
	}

	_, at, _ := Sequence([]int{4, 5})
	if got := at(1); got != 5 {
		t.Errorf("typed element = %v, want 5", got)
	}
}

func TestObject(t *testing.T) {
	type key string

	m, ok := Object(map[string]any{"a": 1})
	if !ok || len(m) != 1 {
		t.Fatalf("Object(map[string]any) = %v, %v", m, ok)
	}

	m, ok = Object(map[key]int{"x": 2, "y": 3})
	if !ok {
		t.Fatal("expected string-kinded keys to be accepted")
	}
	if m["x"] != 2 || m["y"] != 3 {
		t.Errorf("Object copy = %v", m)
	}

	for _, bad := range []any{nil, []any{}, "s", map[int]any{1: 1}} {
		if _, ok := Object(bad); ok {
			t.Errorf("Object(%v) ok = true, want false", bad)
		}
	}
}
