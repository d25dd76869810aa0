package svec

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when an index can not be interpreted
	// by the operation, e.g. a negative index passed to InsertAt.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSlotOccupied is returned by InsertAt when the target slot already
	// holds an element.
	ErrSlotOccupied = errors.New("slot occupied")

	// ErrSlotVacant is returned by Replace when the target slot is a hole.
	ErrSlotVacant = errors.New("slot vacant")
)

// IndexError records the operation and index that failed.
//
// The sentinel cause can be matched with errors.Is.
type IndexError struct {
	Op    string
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("svec: %s at index %d: %v", e.Op, e.Index, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

func indexError(op string, index int, err error) error {
	return &IndexError{Op: op, Index: index, Err: err}
}
