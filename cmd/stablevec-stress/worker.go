package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/plus3/stablevec/svec"
)

// Counters collects the operations a worker performed.
type Counters struct {
	Pushes        int64
	Removes       int64
	RemoveMisses  int64
	Inserts       int64
	Conflicts     int64
	Compactions   int64
	Moved         int64
	Verifications int64
}

func (c *Counters) add(o Counters) {
	c.Pushes += o.Pushes
	c.Removes += o.Removes
	c.RemoveMisses += o.RemoveMisses
	c.Inserts += o.Inserts
	c.Conflicts += o.Conflicts
	c.Compactions += o.Compactions
	c.Moved += o.Moved
	c.Verifications += o.Verifications
}

// Total returns the number of vector operations.
func (c Counters) Total() int64 {
	return c.Pushes + c.Removes + c.RemoveMisses + c.Inserts + c.Conflicts + c.Compactions
}

// worker owns one vector and a bitmap of the indices that should be live
// in it. Nothing is shared between workers.
type worker struct {
	id           int
	rng          *rand.Rand
	vec          *svec.Vec[uint64]
	live         *roaring.Bitmap
	removeRatio  float64
	compactEvery int
	verifyEvery  int
	logger       *slog.Logger

	token    uint64
	counters Counters
	samples  []time.Duration
}

func newWorker(id int, seed uint64, cfg config, logger *slog.Logger) *worker {
	return &worker{
		id:           id,
		rng:          rand.New(rand.NewPCG(seed, uint64(id))),
		vec:          svec.WithCapacity[uint64](cfg.elements),
		live:         roaring.New(),
		removeRatio:  cfg.removeRatio,
		compactEvery: cfg.compactEvery,
		verifyEvery:  cfg.verifyEvery,
		logger:       logger.With("worker", id),
	}
}

func (w *worker) populate(n int) {
	for i := 0; i < n; i++ {
		w.push()
	}
}

func (w *worker) run(ctx context.Context) error {
	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := w.step(); err != nil {
			return fmt.Errorf("worker %d step %d: %w", w.id, step, err)
		}

		if w.compactEvery > 0 && step%w.compactEvery == 0 {
			start := time.Now()
			if err := w.compact(); err != nil {
				return fmt.Errorf("worker %d step %d: %w", w.id, step, err)
			}
			w.samples = append(w.samples, time.Since(start))
		}

		if w.verifyEvery > 0 && step%w.verifyEvery == 0 {
			if err := w.verify(); err != nil {
				return fmt.Errorf("worker %d step %d: %w", w.id, step, err)
			}
		}
	}
}

func (w *worker) step() error {
	r := w.rng.Float64()
	switch {
	case r < w.removeRatio:
		return w.remove()
	case r < w.removeRatio+(1-w.removeRatio)/4:
		return w.insertAt()
	default:
		w.push()
		return nil
	}
}

func (w *worker) push() {
	w.token++
	idx := w.vec.Push(w.token)
	w.live.Add(uint32(idx))
	w.counters.Pushes++
}

func (w *worker) remove() error {
	extent := w.vec.CapacityUsed()
	if extent == 0 {
		w.counters.RemoveMisses++
		return nil
	}

	idx := w.rng.IntN(extent)
	_, ok := w.vec.Remove(idx)
	if ok != w.live.Contains(uint32(idx)) {
		return fmt.Errorf("remove %d: vector says %v, model disagrees", idx, ok)
	}
	if !ok {
		w.counters.RemoveMisses++
		return nil
	}
	w.live.Remove(uint32(idx))
	w.counters.Removes++
	return nil
}

func (w *worker) insertAt() error {
	idx := w.rng.IntN(w.vec.CapacityUsed() + 16)
	w.token++

	err := w.vec.InsertAt(idx, w.token)
	switch {
	case err == nil:
		if w.live.Contains(uint32(idx)) {
			return fmt.Errorf("insert %d: overwrote a live slot", idx)
		}
		w.live.Add(uint32(idx))
		w.counters.Inserts++
	case errors.Is(err, svec.ErrSlotOccupied):
		if !w.live.Contains(uint32(idx)) {
			return fmt.Errorf("insert %d: conflict on a hole: %w", idx, err)
		}
		w.counters.Conflicts++
	default:
		return err
	}
	return nil
}

func (w *worker) compact() error {
	before := make(map[int]uint64, w.vec.Len())
	for idx, val := range w.vec.All() {
		before[idx] = val
	}

	remap := w.vec.Compact()
	w.counters.Compactions++
	w.counters.Moved += int64(remap.Moved())

	if !w.vec.IsCompact() {
		return errors.New("compact left holes behind")
	}
	for old, val := range before {
		idx, ok := remap.NewIndex(old)
		if !ok {
			return fmt.Errorf("compact lost index %d", old)
		}
		if got, _ := w.vec.Get(idx); got != val {
			return fmt.Errorf("compact moved %d to %d but value differs", old, idx)
		}
	}

	w.live.Clear()
	w.live.AddRange(0, uint64(w.vec.Len()))

	w.logger.Debug("compacted",
		"moved", remap.Moved(),
		"len", w.vec.Len(),
	)
	return nil
}

func (w *worker) verify() error {
	w.counters.Verifications++

	if got, want := uint64(w.vec.Len()), w.live.GetCardinality(); got != want {
		return fmt.Errorf("len %d, model has %d", got, want)
	}

	it := w.live.Iterator()
	for idx := range w.vec.Indices() {
		if !it.HasNext() {
			return fmt.Errorf("index %d is live but model is exhausted", idx)
		}
		if want := int(it.Next()); want != idx {
			return fmt.Errorf("iteration yielded %d, model expected %d", idx, want)
		}
	}
	if it.HasNext() {
		return fmt.Errorf("model index %d was never yielded", it.Next())
	}
	return nil
}
