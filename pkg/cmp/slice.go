package cmp

type BiPredicator[A, B any] func(a A, b B) bool

// test a == b as sequence of comparable.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, func(a, b T) bool { return a == b })
}

// test a == b as sequence, element-wise with pred.
func SliceEqWith[T any, U any](a []T, b []U, pred BiPredicator[T, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !pred(a[i], b[i]) {
			return false
		}
	}
	return true
}

// test a and b have same contents, ignoring order and multiplicity of each element.
func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, func(a, b T) bool { return a == b })
}

// SliceContentEqWith is as SliceContentEq, but equivalency is given with equiv.
func SliceContentEqWith[S, T any](a []S, b []T, equiv BiPredicator[S, T]) bool {
	rest := make([]T, len(b))
	copy(rest, b)

A:
	for _, x := range a {
		for i, y := range rest {
			if equiv(x, y) {
				rest = append(rest[:i], rest[i+1:]...)
				continue A
			}
		}
		return false
	}

	return len(rest) == 0
}
