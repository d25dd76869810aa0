package svec

import (
	"math"
	"slices"
	"weak"

	"github.com/bits-and-blooms/bitset"
	"github.com/kamstrup/intmap"
)

// MaxIndex is the largest index InsertAt will grow the vector to.
const MaxIndex = math.MaxInt32 - 1

// Vec is a growable sequence with stable indices.
//
// The zero value is an empty vector ready to use. A Vec must not be copied
// after first use.
type Vec[T any] struct {
	storage  []T
	occupied bitset.BitSet
	count    int
	refs     *intmap.Map[int, weak.Pointer[Handle]]
}

// New creates an empty vector.
func New[T any]() *Vec[T] {
	return &Vec[T]{}
}

// WithCapacity creates an empty vector with room for n elements.
func WithCapacity[T any](n int) *Vec[T] {
	return &Vec[T]{
		storage: make([]T, 0, max(n, 0)),
	}
}

// FromSlice creates a compact vector holding a copy of values, where
// values[i] lives at index i.
func FromSlice[T any](values []T) *Vec[T] {
	v := WithCapacity[T](len(values))
	v.Extend(values...)
	return v
}

// Push appends value and returns its index. Holes are never reused.
func (v *Vec[T]) Push(value T) int {
	index := len(v.storage)
	v.storage = append(v.storage, value)
	v.occupied.Set(uint(index))
	v.count++
	return index
}

// Extend pushes every value in order and returns the index of the first one.
func (v *Vec[T]) Extend(values ...T) int {
	first := len(v.storage)
	v.storage = slices.Grow(v.storage, len(values))
	for _, value := range values {
		v.Push(value)
	}
	return first
}

// InsertAt places value in the hole at index. When index is past the end
// the vector grows and every slot created in between is a hole.
//
// Inserting into an occupied slot fails with ErrSlotOccupied and leaves the
// existing element untouched.
func (v *Vec[T]) InsertAt(index int, value T) error {
	if index < 0 || index > MaxIndex {
		return indexError("insert", index, ErrIndexOutOfRange)
	}

	if index < len(v.storage) {
		if v.occupied.Test(uint(index)) {
			return indexError("insert", index, ErrSlotOccupied)
		}
	} else {
		oldLen := len(v.storage)
		v.storage = slices.Grow(v.storage, index+1-oldLen)[:index+1]
		clear(v.storage[oldLen:index])
	}

	v.storage[index] = value
	v.occupied.Set(uint(index))
	v.count++
	return nil
}

// Replace overwrites the element at index and returns the previous value.
func (v *Vec[T]) Replace(index int, value T) (T, error) {
	var zero T
	if index < 0 || index >= len(v.storage) {
		return zero, indexError("replace", index, ErrIndexOutOfRange)
	}
	if !v.occupied.Test(uint(index)) {
		return zero, indexError("replace", index, ErrSlotVacant)
	}

	old := v.storage[index]
	v.storage[index] = value
	return old, nil
}

// Get returns the element at index. The boolean is false when index is out
// of range or a hole.
func (v *Vec[T]) Get(index int) (T, bool) {
	if !v.Contains(index) {
		var zero T
		return zero, false
	}
	return v.storage[index], true
}

// GetMut returns a pointer to the element at index, or nil if there is none.
// The pointer is only valid until the vector next grows or is compacted.
func (v *Vec[T]) GetMut(index int) *T {
	if !v.Contains(index) {
		return nil
	}
	return &v.storage[index]
}

// Remove deletes the element at index and returns it, leaving a hole.
// Nothing happens if index is out of range or already a hole.
func (v *Vec[T]) Remove(index int) (T, bool) {
	var zero T
	if !v.Contains(index) {
		return zero, false
	}

	value := v.storage[index]
	v.storage[index] = zero // release references held by the slot
	v.occupied.Clear(uint(index))
	v.count--
	v.invalidate(index)
	return value, true
}

// Pop removes the element with the highest index. Its slot becomes a hole.
func (v *Vec[T]) Pop() (T, bool) {
	index, ok := v.lastIndex()
	if !ok {
		var zero T
		return zero, false
	}
	return v.Remove(index)
}

// Contains reports whether index holds an element.
func (v *Vec[T]) Contains(index int) bool {
	return index >= 0 && index < len(v.storage) && v.occupied.Test(uint(index))
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	return v.count
}

// CapacityUsed returns one past the highest index ever allocated, holes
// included.
func (v *Vec[T]) CapacityUsed() int {
	return len(v.storage)
}

// Capacity returns the number of slots the vector can hold without
// reallocating.
func (v *Vec[T]) Capacity() int {
	return cap(v.storage)
}

// IsCompact reports whether the vector has no holes.
func (v *Vec[T]) IsCompact() bool {
	return v.count == len(v.storage)
}

// NextPushIndex returns the index the next call to Push will return.
func (v *Vec[T]) NextPushIndex() int {
	return len(v.storage)
}

// Reserve makes room for at least additional more slots.
func (v *Vec[T]) Reserve(additional int) {
	if additional <= 0 {
		return
	}
	v.storage = slices.Grow(v.storage, additional)
}

// ShrinkToFit releases backing memory beyond CapacityUsed. Slots and
// indices are left as they are.
func (v *Vec[T]) ShrinkToFit() {
	if cap(v.storage) > len(v.storage) {
		storage := make([]T, len(v.storage))
		copy(storage, v.storage)
		v.storage = storage
	}
}

// Clear removes every element and resets CapacityUsed to zero. Tracked
// handles are invalidated.
func (v *Vec[T]) Clear() {
	if v.refs != nil {
		for index := range v.Indices() {
			v.invalidate(index)
		}
		v.refs.Clear()
	}
	clear(v.storage)
	v.storage = v.storage[:0]
	v.occupied.ClearAll()
	v.count = 0
}

// First returns the element with the lowest index.
func (v *Vec[T]) First() (int, T, bool) {
	index, ok := v.next(0)
	if !ok {
		var zero T
		return -1, zero, false
	}
	return index, v.storage[index], true
}

// Last returns the element with the highest index.
func (v *Vec[T]) Last() (int, T, bool) {
	index, ok := v.lastIndex()
	if !ok {
		var zero T
		return -1, zero, false
	}
	return index, v.storage[index], true
}

// Retain removes every element for which keep returns false. Surviving
// elements keep their indices. It returns the number of elements removed.
func (v *Vec[T]) Retain(keep func(index int, value *T) bool) int {
	removed := 0
	for index, ok := v.next(0); ok; index, ok = v.next(index + 1) {
		if !keep(index, &v.storage[index]) {
			v.Remove(index)
			removed++
		}
	}
	return removed
}

// ToSlice returns the elements in index order, without holes.
func (v *Vec[T]) ToSlice() []T {
	out := make([]T, 0, v.count)
	for value := range v.Values() {
		out = append(out, value)
	}
	return out
}

// firstHole returns the lowest index that is a hole, or CapacityUsed if
// there is none. Bits past the end of the bitset count as holes.
func (v *Vec[T]) firstHole() int {
	if v.count == len(v.storage) {
		return len(v.storage)
	}
	if i, ok := v.occupied.NextClear(0); ok {
		return min(int(i), len(v.storage))
	}
	return min(int(v.occupied.Len()), len(v.storage))
}

// next returns the first occupied index at or after from.
func (v *Vec[T]) next(from int) (int, bool) {
	if from >= len(v.storage) {
		return -1, false
	}
	i, ok := v.occupied.NextSet(uint(from))
	if !ok || int(i) >= len(v.storage) {
		return -1, false
	}
	return int(i), true
}

func (v *Vec[T]) lastIndex() (int, bool) {
	if v.count == 0 {
		return -1, false
	}
	i, ok := v.occupied.PreviousSet(uint(len(v.storage) - 1))
	if !ok {
		return -1, false
	}
	return int(i), true
}
