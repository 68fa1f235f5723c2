package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMap_DuplicateKeys(t *testing.T) {
	v := Map(
		Field{Key: "a", Value: Int(1)},
		Field{Key: "b", Value: Int(2)},
		Field{Key: "a", Value: Int(3)},
	)
	if diff := cmp.Diff([]string{"a", "b"}, v.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := v.Get("a"); !got.Equal(Int(3)) {
		t.Errorf("expected a=3, got %v", got)
	}
}

type celsius float64

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"uint8", uint8(7), Int(7)},
		{"float32", float32(0.5), Float(0.5)},
		{"named float", celsius(21.5), Float(21.5)},
		{"string", "x", String("x")},
		{"slice", []any{1, "a", nil}, List(Int(1), String("a"), Null())},
		{"array", [2]int{1, 2}, List(Int(1), Int(2))},
		{"map sorted", map[string]int{"b": 2, "a": 1}, Map(Field{"a", Int(1)}, Field{"b", Int(2)})},
		{"value", Int(9), Int(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Of(tt.in)
			if err != nil {
				t.Fatalf("Of failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOf_Unsupported(t *testing.T) {
	for _, in := range []any{map[int]string{1: "a"}, struct{}{}, uint64(math.MaxUint64), make(chan int)} {
		if _, err := Of(in); err == nil {
			t.Errorf("Of(%T) should fail", in)
		}
	}
}

func TestAccessors(t *testing.T) {
	v := List(Int(1), String("two"))
	if v.Len() != 2 || v.Kind() != KindList {
		t.Fatalf("unexpected list %v", v)
	}
	if s, ok := v.Index(1).AsString(); !ok || s != "two" {
		t.Errorf("Index(1) = %v", v.Index(1))
	}
	if !v.Index(5).IsNull() {
		t.Error("out of range Index should be Null")
	}
	if f, ok := Int(3).AsFloat(); !ok || f != 3 {
		t.Errorf("AsFloat on int = %v, %v", f, ok)
	}
	if _, ok := String("x").AsInt(); ok {
		t.Error("AsInt on string should fail")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Null(), Value{}, true},
		{Int(1), Float(1), false},
		{Float(math.NaN()), Float(math.NaN()), true},
		{List(Int(1)), List(Int(1)), true},
		{List(Int(1)), List(Int(1), Int(2)), false},
		{Map(Field{"a", Int(1)}, Field{"b", Int(2)}), Map(Field{"b", Int(2)}, Field{"a", Int(1)}), false},
	}
	for i, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("case %d: Equal(%v, %v) = %v, want %v", i, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNative(t *testing.T) {
	v := Map(Field{"n", List(Int(1), Float(1.5), Bool(true), Null())})
	want := map[string]any{"n": []any{int64(1), 1.5, true, nil}}
	if diff := cmp.Diff(want, v.Native()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
