// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

// Dispatch runs work for every index in [0,count) across the pool's
// W workers plus the calling goroutine, blocking until every item is
// complete. count must be >= 0; count == 0 is a valid no-op. mode selects
// the distribution strategy: Contiguous and LoadBalancing run each index
// once, PerThread runs each index once on every executor.
//
// Dispatch must be called only from the goroutine that called New, and
// never from inside a worker or from within another in-flight Dispatch
// call on the same Runtime. Go cannot verify goroutine identity portably
// (see DESIGN.md, Open Question 2); the cheaper reentrancy guard below
// catches the same mistake whenever it would re-enter this Runtime,
// regardless of which goroutine attempts it.
func (rt *Runtime) Dispatch(count int, mode Mode, work Work) {
	if count < 0 {
		panic(&PreconditionError{Op: "Dispatch", Detail: "count must be >= 0"})
	}
	if work == nil {
		panic(&PreconditionError{Op: "Dispatch", Detail: "work must not be nil"})
	}
	if !rt.dispatchActive.CompareAndSwapAcqRel(false, true) {
		panic(&PreconditionError{Op: "Dispatch", Detail: "nested or concurrent Dispatch on the same Runtime"})
	}
	defer rt.dispatchActive.StoreRelease(false)

	rt.WakeThreadsUp()
	defer rt.SendThreadsToSleep()

	switch mode {
	case Contiguous:
		rt.dispatchContiguous(count, work)
	case PerThread:
		rt.dispatchPerThread(count, work)
	case LoadBalancing:
		rt.dispatchLoadBalancing(count, work)
	default:
		panic(&PreconditionError{Op: "Dispatch", Detail: "unknown Mode"})
	}

	rt.stats.dispatchesIssued.Add(1)
	rt.stats.itemsProcessed.Add(int64(count))
}

// executorCount returns E = W+1, the number of executors: every worker
// plus the caller itself.
func (rt *Runtime) executorCount() int {
	return len(rt.slots) + 1
}

// dispatchContiguous splits [0,count) into one contiguous range per
// executor: base = N/E, rem = N-base*E, the first rem executors get
// base+1 items and the rest get base, assigned in slot order to workers
// then the caller last.
func (rt *Runtime) dispatchContiguous(count int, work Work) {
	e := rt.executorCount()
	base := count / e
	rem := count % e

	start := 0
	for executor := 0; executor < e; executor++ {
		n := base
		if executor < rem {
			n++
		}
		first, last := start, start+n-1
		start += n

		if executor < len(rt.slots) {
			rt.assignRange(rt.slots[executor], work, executor, first, last)
		} else {
			// The caller's own share: execute inline, in ascending
			// order.
			if n > 0 {
				work.runRange(executor, first, last)
			}
		}
	}

	rt.waitForWorkers()
}

// dispatchPerThread runs the full [0,count) sequence, in order, on every
// executor.
func (rt *Runtime) dispatchPerThread(count int, work Work) {
	e := rt.executorCount()
	for executor := 0; executor < e; executor++ {
		if executor < len(rt.slots) {
			rt.assignRange(rt.slots[executor], work, executor, 0, count-1)
		} else if count > 0 {
			work.runRange(executor, 0, count-1)
		}
	}
	rt.waitForWorkers()
}

// dispatchLoadBalancing resets the shared counter and bound, then runs
// the per-thread strategy with a trivial count=1 work description that
// has every executor claim indices from the counter until exhausted.
func (rt *Runtime) dispatchLoadBalancing(count int, userWork Work) {
	rt.lbCounter.StoreRelease(0)
	rt.lbBound.StoreRelease(int64(count))

	claim := Work(func(_, executor int) {
		rt.claimLoop(executor, userWork)
	})

	rt.dispatchPerThread(1, claim)

	rt.lbCounter.StoreRelease(0)
	rt.lbBound.StoreRelease(0)
}

// claimLoop is the body every executor runs in LoadBalancing mode:
// fetch-and-add the shared counter to claim an index, run the user work
// if the claimed index is in bounds, repeat until it isn't. Total counter
// increments equal N+E: one over-read per executor to detect the end.
func (rt *Runtime) claimLoop(executor int, userWork Work) {
	for {
		i := rt.lbCounter.AddAcqRel(1) - 1
		if i >= rt.lbBound.LoadAcquire() {
			return
		}
		userWork(int(i), executor)
	}
}

// assignRange publishes first/last/fn to slot and transitions its flag.
// A slot assigned zero items goes IDLE->DONE directly rather than
// IDLE->AVAILABLE->DONE.
func (rt *Runtime) assignRange(slot *workerSlot, work Work, executor, first, last int) {
	if last < first {
		slot.signalDoneNoWork()
		return
	}
	slot.first, slot.last = first, last
	slot.fn = &trampoline{work: work, executor: executor}
	slot.signalAvailable()
}

// waitForWorkers spin-waits for every worker slot to report DONE, then
// resets each to IDLE so the slots are reusable by the next dispatch.
func (rt *Runtime) waitForWorkers() {
	for _, slot := range rt.slots {
		slot.waitForDone()
	}
	for _, slot := range rt.slots {
		slot.resetIdle()
	}
}

// WakeThreadsUp increments the wake-hint counter, hinting that workers
// should spin rather than park to minimize dispatch latency. Must be
// balanced by a matching SendThreadsToSleep.
//
// Dispatch already brackets every call with WakeThreadsUp/
// SendThreadsToSleep; exported so callers issuing many back-to-back
// dispatches can widen the hot window themselves.
func (rt *Runtime) WakeThreadsUp() {
	rt.wakeHint.AddAcqRel(1)
	rt.gate.wakeAll()
}

// SendThreadsToSleep decrements the wake-hint counter. Panics if the
// counter would go negative: it must stay >= 0 always, and a negative
// value can only mean a SendThreadsToSleep call was not matched by a
// prior WakeThreadsUp.
func (rt *Runtime) SendThreadsToSleep() {
	if rt.wakeHint.AddAcqRel(-1) < 0 {
		rt.wakeHint.AddAcqRel(1)
		panic(&PreconditionError{Op: "SendThreadsToSleep", Detail: "wake-hint counter went negative: unbalanced WakeThreadsUp/SendThreadsToSleep"})
	}
	rt.gate.wakeAll()
}
