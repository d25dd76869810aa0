package svec

import (
	"iter"

	"github.com/bits-and-blooms/bitset"
	"github.com/kamstrup/intmap"
)

// Move is a single relocation performed by Compact.
type Move struct {
	From int
	To   int
}

// Remap describes how Compact renumbered a vector.
//
// Only elements that changed index are recorded. Every element below the
// first hole keeps its index, and NewIndex answers for those too.
type Remap struct {
	stable int // indices below stable were occupied and did not move
	moves  []Move
	lookup *intmap.Map[int, int]
}

// NewIndex returns the index that the element previously at old lives at
// now. The boolean is false if old held no element before compaction.
func (r *Remap) NewIndex(old int) (int, bool) {
	if r == nil || old < 0 {
		return -1, false
	}
	if old < r.stable {
		return old, true
	}
	if r.lookup == nil {
		return -1, false
	}
	return r.lookup.Get(old)
}

// Moved returns the number of elements that changed index.
func (r *Remap) Moved() int {
	if r == nil {
		return 0
	}
	return len(r.moves)
}

// Moves returns a copy of the recorded relocations, ordered by old index.
func (r *Remap) Moves() []Move {
	if r == nil {
		return nil
	}
	out := make([]Move, len(r.moves))
	copy(out, r.moves)
	return out
}

// All returns an iterator over old/new index pairs of moved elements,
// ascending by old index.
func (r *Remap) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if r == nil {
			return
		}
		for _, m := range r.moves {
			if !yield(m.From, m.To) {
				return
			}
		}
	}
}

// Compact removes every hole by shifting elements towards index 0, keeping
// their relative order. Afterwards CapacityUsed equals Len. It is the only
// operation that changes the index of a live element; the returned Remap
// records every such change. Tracked handles are updated to follow their
// elements and entries for collected handles are dropped.
func (v *Vec[T]) Compact() *Remap {
	firstHole := v.firstHole()
	v.pruneRefs(firstHole)

	r := &Remap{stable: firstHole}
	if firstHole == len(v.storage) {
		return r
	}

	moved := v.count - firstHole
	r.moves = make([]Move, 0, moved)
	r.lookup = intmap.New[int, int](moved)

	writePos := firstHole
	for readPos, ok := v.next(firstHole); ok; readPos, ok = v.next(readPos + 1) {
		v.storage[writePos] = v.storage[readPos]
		r.moves = append(r.moves, Move{From: readPos, To: writePos})
		r.lookup.Put(readPos, writePos)
		v.moveRef(readPos, writePos)
		writePos++
	}

	clear(v.storage[writePos:])
	v.storage = v.storage[:writePos]

	var occupied bitset.BitSet
	occupied.FlipRange(0, uint(writePos))
	v.occupied = occupied

	return r
}
