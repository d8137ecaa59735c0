package cmp_test

import (
	"testing"

	"github.com/JarcauCristian/notebook-manager/pkg/cmp"
)

func TestMapEq(t *testing.T) {
	t.Run("it detects two equal maps", func(t *testing.T) {
		a := map[string]int{"a": 1, "b": 2}
		b := map[string]int{"b": 2, "a": 1}
		if !cmp.MapEq(a, b) || !cmp.MapEq(b, a) {
			t.Error("two maps are not equal, unexpectedly.")
		}
	})
	t.Run("it detects maps with different values", func(t *testing.T) {
		a := map[string]int{"a": 1, "b": 2}
		b := map[string]int{"a": 1, "b": 3}
		if cmp.MapEq(a, b) {
			t.Error("two maps are equal, unexpectedly.")
		}
	})
	t.Run("it detects maps with different keys", func(t *testing.T) {
		a := map[string]int{"a": 1, "b": 2}
		b := map[string]int{"a": 1, "c": 2}
		if cmp.MapEq(a, b) {
			t.Error("two maps are equal, unexpectedly.")
		}
	})
}

func TestMapEqWith(t *testing.T) {
	t.Run("it compares entry-wise with the given rule", func(t *testing.T) {
		a := map[string]string{"a": "foo", "b": "quux"}
		b := map[string]int{"a": 3, "b": 4}
		equalInLen := func(a string, b int) bool { return len(a) == b }
		if !cmp.MapEqWith(a, b, equalInLen) {
			t.Error("two maps are not equal, unexpectedly.")
		}
	})
}
