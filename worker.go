// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import (
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// spinBudget bounds the worker's busy-spin phase before it yields and
// considers parking: ~65536 cycles on a 5GHz core, chosen so back-to-back
// dispatches within that window never pay a context switch. Go has no
// portable cycle counter (see DESIGN.md), so the budget is expressed
// directly as the equivalent wall-clock figure.
const spinBudget = 13 * time.Microsecond

// runWorker is the function each persistent worker goroutine executes for
// its entire lifetime: park until work appears, run the assigned range,
// signal done, repeat until stop.
func (rt *Runtime) runWorker(slot *workerSlot) {
	defer rt.wg.Done()

	if rt.config.OnStart != nil {
		rt.config.OnStart(slot.index, rt.config.StartingContext, rt.scratch[slot.index])
	}

	for {
		if !rt.waitForAssignment(slot) {
			break
		}

		rt.runAssigned(slot)

		slot.signalDone()
		rt.stats.dispatchesServed.Add(1)
	}

	if rt.config.OnEnd != nil {
		rt.config.OnEnd(slot.index, rt.config.StartingContext, rt.scratch[slot.index])
	}
}

// waitForAssignment blocks until slot transitions to AVAILABLE (returns
// true) or slot.shouldStop is observed (returns false), escalating through
// a spin phase, a scheduler yield, and finally a park on the wake gate.
func (rt *Runtime) waitForAssignment(slot *workerSlot) bool {
	// backoff only ever escalates the decision of whether to actually
	// commit to the park gate below, the same Wait/Reset contract the
	// teacher's own Enqueue/Dequeue retry loops use before giving up on a
	// lock-free slot. It is reset on every pass where the wake-hint
	// counter is held nonzero, so a hot burst never accumulates escalating
	// sleeps on top of the spin phase — only the cold, truly-idle path
	// backs off before parking.
	backoff := iox.Backoff{}

	for {
		if slot.shouldStop.LoadAcquire() {
			return false
		}

		// 1. Spin phase.
		t0 := time.Now()
		sw := spin.Wait{}
		for time.Since(t0) < spinBudget {
			if slot.loadFlag() == flagAvailable {
				return true
			}
			sw.Once()
		}
		if slot.loadFlag() == flagAvailable {
			return true
		}

		// 2. Yield.
		yieldNow()
		if slot.loadFlag() == flagAvailable {
			return true
		}
		if slot.shouldStop.LoadAcquire() {
			return false
		}

		// 3. Park gate. A separate address (the wake-hint counter) from
		// the per-slot flag, so a single wake reaches every worker at
		// once.
		if rt.wakeHint.LoadAcquire() != 0 {
			backoff.Reset()
			continue
		}
		backoff.Wait()
		if slot.loadFlag() == flagAvailable {
			backoff.Reset()
			return true
		}
		if rt.wakeHint.LoadAcquire() == 0 {
			rt.gate.waitWhileEqual(&rt.wakeHint, 0)
		}
		backoff.Reset()
		// 4. Loop back to step 1. Spurious wakes are harmless: we
		// re-examine the flag on the next spin pass.
	}
}

// runAssigned executes the work assigned to slot for the current
// dispatch, honoring every strategy's trampoline. The flag reaches DONE on
// every exit path, including a panicking work function: the deferred
// recover below re-signals DONE so the dispatcher's waitForDone spin never
// deadlocks, then re-panics to let the failure propagate normally.
func (rt *Runtime) runAssigned(slot *workerSlot) {
	defer func() {
		if r := recover(); r != nil {
			// Ensure the handoff to DONE still happens so the caller's
			// waitForDone spin does not deadlock, then propagate the
			// panic on this worker's own goroutine: if a user function
			// aborts the process, every worker dies with it.
			slot.signalDone()
			panic(r)
		}
	}()

	slot.fn.work.runRange(slot.fn.executor, slot.first, slot.last)
}

// runRange invokes work for every index in [first,last] in ascending
// order. Callers for PerThread/LoadBalancing pass the appropriate
// first/last for their own contract — see dispatch.go.
func (w Work) runRange(executor, first, last int) {
	for i := first; i <= last; i++ {
		w(i, executor)
	}
}
