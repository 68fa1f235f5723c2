package entity

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{newError("load", "/a.txt", NotExists, nil), "entity load /a.txt: does not exist"},
		{newError("save", "", EmptyPath, nil), "entity save: empty path"},
		{newError("delete", "/a", NotDeletable, os.ErrPermission), "entity delete /a: not deletable: permission denied"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newError("load", "/a", NotReadable, os.ErrPermission))

	if !errors.Is(err, ErrNotReadable) {
		t.Error("expected errors.Is to match the sentinel of the same kind")
	}
	if errors.Is(err, ErrNotExists) {
		t.Error("sentinels of another kind should not match")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("the cause should stay reachable")
	}
	if KindOf(err) != NotReadable {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(os.ErrNotExist) != 0 {
		t.Error("KindOf a foreign error should be 0")
	}
}

func TestKind_String(t *testing.T) {
	for k := EmptyPath; k <= NotSupportedForDirectory; k++ {
		if _, ok := kindNames[k]; !ok {
			t.Errorf("kind %d has no name", k)
		}
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("unknown kind = %q", got)
	}
}
