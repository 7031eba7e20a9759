package log

import (
	"context"
	"testing"
)

func TestRequestIDFromContext_NilAndMissing(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Errorf("nil ctx = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty ctx = %q", got)
	}
}

func TestWithFields_MergesWithoutMutatingParent(t *testing.T) {
	parent := WithFields(context.Background(), "a", 1)
	child := WithFields(parent, "b", 2, "dangling")

	if len(FieldsFromContext(parent)) != 1 {
		t.Errorf("parent fields mutated: %v", FieldsFromContext(parent))
	}
	got := FieldsFromContext(child)
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("child fields = %v", got)
	}
	if _, ok := got["dangling"]; ok {
		t.Error("odd trailing key should be ignored")
	}
}
