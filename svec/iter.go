package svec

import "iter"

// All returns an iterator over index/element pairs in ascending index
// order, skipping holes. Every call starts again from index 0 and each step
// reads the current state of the vector.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for index, ok := v.next(0); ok; index, ok = v.next(index + 1) {
			if !yield(index, v.storage[index]) {
				return
			}
		}
	}
}

// Pointers is like All but yields pointers into the vector, so elements can
// be updated in place.
func (v *Vec[T]) Pointers() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for index, ok := v.next(0); ok; index, ok = v.next(index + 1) {
			if !yield(index, &v.storage[index]) {
				return
			}
		}
	}
}

// Indices returns an iterator over the occupied indices in ascending order.
func (v *Vec[T]) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for index, ok := v.next(0); ok; index, ok = v.next(index + 1) {
			if !yield(index) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in index order.
func (v *Vec[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index, ok := v.next(0); ok; index, ok = v.next(index + 1) {
			if !yield(v.storage[index]) {
				return
			}
		}
	}
}
