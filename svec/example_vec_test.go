package svec_test

import (
	"errors"
	"fmt"

	"github.com/plus3/stablevec/svec"
)

// ExampleVec demonstrates that indices survive removals elsewhere in the
// vector.
func ExampleVec() {
	v := svec.New[string]()

	a := v.Push("a")
	b := v.Push("b")
	c := v.Push("c")

	v.Remove(b)

	first, _ := v.Get(a)
	last, _ := v.Get(c)
	fmt.Println(first, last, v.Len(), v.CapacityUsed())

	_, ok := v.Get(b)
	fmt.Println("b present:", ok)

	// Output:
	// a c 2 3
	// b present: false
}

// ExampleVec_InsertAt shows how holes are refilled. Push always appends,
// so InsertAt is the only way to reuse a slot.
func ExampleVec_InsertAt() {
	v := svec.FromSlice([]string{"a", "b", "c"})
	v.Remove(1)

	fmt.Println("push:", v.Push("d"))

	if err := v.InsertAt(1, "e"); err != nil {
		fmt.Println(err)
	}

	err := v.InsertAt(1, "f")
	fmt.Println(errors.Is(err, svec.ErrSlotOccupied))
	fmt.Println(err)

	// Output:
	// push: 3
	// true
	// svec: insert at index 1: slot occupied
}

// ExampleVec_Compact shows how to consume the Remap returned by Compact to
// keep externally stored indices up to date.
func ExampleVec_Compact() {
	v := svec.FromSlice([]string{"a", "b", "c", "d"})
	v.Remove(1)
	v.Remove(2)

	stored := []int{0, 3}

	remap := v.Compact()
	for i, old := range stored {
		stored[i], _ = remap.NewIndex(old)
	}

	fmt.Println(v.ToSlice(), stored)
	for from, to := range remap.All() {
		fmt.Printf("%d -> %d\n", from, to)
	}

	// Output:
	// [a d] [0 1]
	// 3 -> 1
}

// ExampleVec_Track shows a handle following its element through Compact.
func ExampleVec_Track() {
	v := svec.FromSlice([]string{"a", "b", "c"})
	h := v.Track(2)

	v.Remove(0)
	v.Compact()

	idx, _ := h.Index()
	val, _ := v.Resolve(h)
	fmt.Println(idx, val)

	// Output:
	// 1 c
}

// ExampleBatch queues removals while ranging over the vector.
func ExampleBatch() {
	v := svec.FromSlice([]int{1, 2, 3, 4})

	var batch svec.Batch[int]
	for i, val := range v.All() {
		if val > 2 {
			batch.Remove(i)
		}
	}
	if err := batch.Flush(v); err != nil {
		fmt.Println(err)
	}

	fmt.Println(v.ToSlice(), v.CapacityUsed())

	// Output:
	// [1 2] 4
}
