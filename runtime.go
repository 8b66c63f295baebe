// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Runtime owns a persistent pool of worker goroutines and the process-wide
// state backing them: the slot array, the load-balancing counter and
// bound, and the wake-hint counter.
type Runtime struct {
	config  Config
	slots   []*workerSlot
	scratch [][]byte

	wakeHint atomix.Int32
	gate     *parkGate

	lbCounter atomix.Int64
	lbBound   atomix.Int64

	dispatchActive atomix.Bool
	closed         atomix.Bool

	wg    sync.WaitGroup
	stats runtimeStats
}

// New creates a Runtime with W = max(MinWorkers, round(cores*
// FractionOfCores)) persistent worker goroutines. Returns
// ErrInvalidConfig if any Option produces an invalid configuration.
func New(opts ...Option) (*Runtime, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := cfg.workerCount()

	rt := &Runtime{
		config:  cfg,
		slots:   make([]*workerSlot, w),
		scratch: make([][]byte, w),
		gate:    newParkGate(),
	}

	for i := 0; i < w; i++ {
		rt.slots[i] = newWorkerSlot(i)
		if cfg.PerThreadScratchBytes > 0 {
			rt.scratch[i] = make([]byte, cfg.PerThreadScratchBytes)
		}
	}

	rt.wg.Add(w)
	for _, slot := range rt.slots {
		go rt.runWorker(slot)
	}

	return rt, nil
}

// Close stops every worker goroutine and waits for them to exit. Any
// in-flight Dispatch must have already returned; Close does not cancel
// one.
//
// Close is not idempotent: calling it twice returns ErrAlreadyClosed.
func (rt *Runtime) Close() error {
	if !rt.closed.CompareAndSwapAcqRel(false, true) {
		return ErrAlreadyClosed
	}

	for _, slot := range rt.slots {
		slot.shouldStop.StoreRelease(true)
	}
	rt.wakeHint.AddAcqRel(1)
	rt.gate.wakeAll()
	// Each worker observes shouldStop on its next spin pass and exits
	// its park loop regardless of the flag; no slot transition needed
	// since no dispatch is in flight (ensuring that is the caller's
	// responsibility).

	rt.wg.Wait()
	return nil
}

// NumWorkers returns the number of persistent worker goroutines.
func (rt *Runtime) NumWorkers() int {
	return len(rt.slots)
}

// runtimeStats holds the lock-free lifetime counters Stats reads.
type runtimeStats struct {
	dispatchesIssued atomix.Int64
	dispatchesServed atomix.Int64
	itemsProcessed   atomix.Int64
}

// Stats is a snapshot of runtime-wide lifetime counters, assembled from
// plain atomic loads with no locking — values may be slightly
// inconsistent with a concurrently in-flight Dispatch. An ambient
// observability convenience, not required by any dispatch semantics.
type Stats struct {
	// DispatchesIssued is the number of completed Dispatch calls.
	DispatchesIssued int64
	// DispatchesServed is the number of (slot, dispatch) pairs a worker
	// actually ran a range for — counts every AVAILABLE->DONE transition
	// across every worker and every dispatch.
	DispatchesServed int64
	// ItemsProcessed is the sum of count across every completed Dispatch
	// call, regardless of mode.
	ItemsProcessed int64
	// NumWorkers is the number of persistent worker goroutines.
	NumWorkers int
}

// Stats returns a snapshot of the runtime's lifetime counters.
func (rt *Runtime) Stats() Stats {
	return Stats{
		DispatchesIssued: rt.stats.dispatchesIssued.Load(),
		DispatchesServed: rt.stats.dispatchesServed.Load(),
		ItemsProcessed:   rt.stats.itemsProcessed.Load(),
		NumWorkers:       len(rt.slots),
	}
}
