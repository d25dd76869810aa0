package svec

import (
	"weak"

	"github.com/kamstrup/intmap"
)

// Handle is a tracked reference to an element of a Vec. Unlike a plain
// index it follows its element through Compact, and it is invalidated when
// the element is removed.
type Handle struct {
	index int
}

// Index returns the current index of the tracked element. The boolean is
// false once the element has been removed.
func (h *Handle) Index() (int, bool) {
	if h == nil || h.index < 0 {
		return -1, false
	}
	return h.index, true
}

// Valid reports whether the tracked element still exists.
func (h *Handle) Valid() bool {
	_, ok := h.Index()
	return ok
}

// Track returns a handle for the element at index, or nil if index holds no
// element. While a handle is reachable, Track returns the same handle for
// the same element.
func (v *Vec[T]) Track(index int) *Handle {
	if !v.Contains(index) {
		return nil
	}

	if v.refs == nil {
		v.refs = intmap.New[int, weak.Pointer[Handle]](64)
	}

	if weakPtr, ok := v.refs.Get(index); ok {
		if h := weakPtr.Value(); h != nil {
			return h
		}
		// Weak pointer is dead, replace it
		v.refs.Del(index)
	}

	h := &Handle{index: index}
	v.refs.Put(index, weak.Make(h))
	return h
}

// Resolve returns the element a handle tracks. The boolean is false if the
// handle is invalid or was not issued by this vector.
func (v *Vec[T]) Resolve(h *Handle) (T, bool) {
	var zero T
	index, ok := h.Index()
	if !ok || v.refs == nil {
		return zero, false
	}
	weakPtr, ok := v.refs.Get(index)
	if !ok || weakPtr.Value() != h {
		return zero, false
	}
	return v.Get(index)
}

// Untrack stops tracking h and invalidates it. The element is not removed.
func (v *Vec[T]) Untrack(h *Handle) {
	index, ok := h.Index()
	if !ok || v.refs == nil {
		return
	}
	if weakPtr, ok := v.refs.Get(index); ok && weakPtr.Value() == h {
		v.refs.Del(index)
		h.index = -1
	}
}

// invalidate drops the handle for index, if any.
func (v *Vec[T]) invalidate(index int) {
	if v.refs == nil {
		return
	}
	weakPtr, ok := v.refs.Get(index)
	if !ok {
		return
	}
	if h := weakPtr.Value(); h != nil {
		h.index = -1
	}
	v.refs.Del(index)
}

// moveRef points the handle for from, if any, at to.
func (v *Vec[T]) moveRef(from, to int) {
	if v.refs == nil {
		return
	}
	weakPtr, ok := v.refs.Get(from)
	if !ok {
		return
	}
	v.refs.Del(from)
	if h := weakPtr.Value(); h != nil {
		h.index = to
		v.refs.Put(to, weakPtr)
	}
}

// Tracked returns the number of handle entries the vector holds, including
// entries whose handles were collected but not yet dropped.
func (v *Vec[T]) Tracked() int {
	if v.refs == nil {
		return 0
	}
	return v.refs.Len()
}

// pruneRefs drops entries for collected handles below limit. Entries at or
// above limit are handled by moveRef while compacting.
func (v *Vec[T]) pruneRefs(limit int) {
	if v.refs == nil || v.refs.Len() == 0 {
		return
	}
	for index, ok := v.next(0); ok && index < limit; index, ok = v.next(index + 1) {
		if weakPtr, found := v.refs.Get(index); found && weakPtr.Value() == nil {
			v.refs.Del(index)
		}
	}
}
