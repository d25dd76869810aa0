package svec_test

import (
	"runtime"
	"testing"

	"github.com/plus3/stablevec/svec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBasicLifecycle(t *testing.T) {
	v := svec.FromSlice([]string{"a", "b"})

	h := v.Track(1)
	require.NotNil(t, h)

	idx, ok := h.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	got, ok := v.Resolve(h)
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	v.Remove(1)

	assert.False(t, h.Valid())
	_, ok = v.Resolve(h)
	assert.False(t, ok)
}

func TestTrackReturnsSameHandle(t *testing.T) {
	v := svec.FromSlice([]int{1, 2, 3})

	h1 := v.Track(2)
	h2 := v.Track(2)
	assert.Same(t, h1, h2)

	runtime.KeepAlive(h1)
}

func TestTrackHole(t *testing.T) {
	v := svec.FromSlice([]int{1, 2})
	v.Remove(0)

	assert.Nil(t, v.Track(0))
	assert.Nil(t, v.Track(5))
	assert.Nil(t, v.Track(-1))
}

func TestHandleFollowsCompact(t *testing.T) {
	v := svec.FromSlice([]string{"a", "b", "c", "d"})

	ha := v.Track(0)
	hc := v.Track(2)
	hd := v.Track(3)

	v.Remove(1)
	v.Compact()

	idx, ok := ha.Index()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = hc.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = hd.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	got, ok := v.Resolve(hd)
	assert.True(t, ok)
	assert.Equal(t, "d", got)

	// The handle still works after another compaction
	v.Remove(0)
	v.Compact()
	got, ok = v.Resolve(hd)
	assert.True(t, ok)
	assert.Equal(t, "d", got)
	assert.False(t, ha.Valid())
}

func TestHandleNotReusedAfterInsertAt(t *testing.T) {
	v := svec.FromSlice([]int{1, 2})
	h := v.Track(0)

	v.Remove(0)
	require.NoError(t, v.InsertAt(0, 10))

	assert.False(t, h.Valid())
	_, ok := v.Resolve(h)
	assert.False(t, ok)

	h2 := v.Track(0)
	assert.NotSame(t, h, h2)
}

func TestHandleFromOtherVec(t *testing.T) {
	v1 := svec.FromSlice([]int{1})
	v2 := svec.FromSlice([]int{2})

	h := v1.Track(0)
	_, ok := v2.Resolve(h)
	assert.False(t, ok)

	v2.Track(0)
	_, ok = v2.Resolve(h)
	assert.False(t, ok)
}

func TestUntrack(t *testing.T) {
	v := svec.FromSlice([]int{1, 2})
	h := v.Track(1)

	v.Untrack(h)

	assert.False(t, h.Valid())
	assert.True(t, v.Contains(1))
	assert.NotSame(t, h, v.Track(1))
}

func TestClearInvalidatesHandles(t *testing.T) {
	v := svec.FromSlice([]int{1, 2, 3})
	handles := []*svec.Handle{v.Track(0), v.Track(1), v.Track(2)}

	v.Clear()

	for _, h := range handles {
		assert.False(t, h.Valid())
	}
}

func TestNilHandle(t *testing.T) {
	var h *svec.Handle
	assert.False(t, h.Valid())

	v := svec.FromSlice([]int{1})
	_, ok := v.Resolve(h)
	assert.False(t, ok)
	v.Untrack(h)
}

func TestCompactDropsCollectedHandles(t *testing.T) {
	v := svec.FromSlice([]int{1, 2, 3, 4})

	for i := 0; i < 4; i++ {
		v.Track(i)
	}
	kept := v.Track(3)
	assert.Equal(t, 4, v.Tracked())

	runtime.GC()
	v.Compact()
	assert.Equal(t, 1, v.Tracked())

	// With a hole the surviving handle is moved and the rest stay dropped
	v.Remove(0)
	v.Compact()
	assert.Equal(t, 1, v.Tracked())
	idx, ok := kept.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	runtime.KeepAlive(kept)
}
