package svec

import "errors"

// Batch buffers mutations so they can be applied to a Vec after an
// iteration over it has finished.
type Batch[T any] struct {
	removes []int
	inserts []insertCommand[T]
	pushes  []T
	defers  []func()
}

type insertCommand[T any] struct {
	index int
	value T
}

// Remove queues the removal of index.
func (b *Batch[T]) Remove(index int) {
	b.removes = append(b.removes, index)
}

// InsertAt queues an insertion into the hole at index.
func (b *Batch[T]) InsertAt(index int, value T) {
	b.inserts = append(b.inserts, insertCommand[T]{index: index, value: value})
}

// Push queues an append.
func (b *Batch[T]) Push(value T) {
	b.pushes = append(b.pushes, value)
}

// Defer queues a function to run after all other queued operations.
func (b *Batch[T]) Defer(fn func()) {
	b.defers = append(b.defers, fn)
}

// Len returns the number of queued operations.
func (b *Batch[T]) Len() int {
	return len(b.removes) + len(b.inserts) + len(b.pushes) + len(b.defers)
}

// Flush applies the queued operations to v and resets the batch. Removals
// run first, then insertions, then appends, then deferred functions, each
// group in the order it was queued. Removal freed slots can therefore be
// refilled by InsertAt in the same flush.
//
// A failed insertion does not stop the flush; all failures are returned
// joined together.
func (b *Batch[T]) Flush(v *Vec[T]) error {
	var errs []error

	for _, index := range b.removes {
		v.Remove(index)
	}

	for _, cmd := range b.inserts {
		if err := v.InsertAt(cmd.index, cmd.value); err != nil {
			errs = append(errs, err)
		}
	}

	for _, value := range b.pushes {
		v.Push(value)
	}

	for _, fn := range b.defers {
		fn()
	}

	b.Reset()
	return errors.Join(errs...)
}

// Reset discards all queued operations.
func (b *Batch[T]) Reset() {
	clear(b.inserts)
	clear(b.pushes)
	clear(b.defers)
	b.removes = b.removes[:0]
	b.inserts = b.inserts[:0]
	b.pushes = b.pushes[:0]
	b.defers = b.defers[:0]
}
