package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestList(t *testing.T) {
	a, b, c := New(""), New(""), New("")
	a.SetPath("a")
	b.SetPath("b")
	c.SetPath("c")

	l := NewList(a)
	l.Add(b).Merge(NewList(c)).Merge(nil)

	if l.Len() != 3 {
		t.Fatalf("Len() = %d", l.Len())
	}
	if l.At(1) != b {
		t.Error("At(1) should be b")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, l.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}

	var seen []int
	for i := range l.All() {
		seen = append(seen, i)
		if i == 1 {
			break
		}
	}
	if diff := cmp.Diff([]int{0, 1}, seen); diff != "" {
		t.Errorf("iteration mismatch (-want +got):\n%s", diff)
	}
}

func TestNewList_Copies(t *testing.T) {
	files := []*File{New("")}
	l := NewList(files...)
	files[0] = nil
	if l.At(0) == nil {
		t.Error("NewList should not alias the caller's slice")
	}
}
