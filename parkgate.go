// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import (
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
)

// yieldNow hands the scheduler a hint that the calling goroutine is
// spinning and could yield to other runnable work. No dependency wraps
// runtime.Gosched, so it is called directly (see DESIGN.md,
// "Standard-library justifications").
func yieldNow() {
	runtime.Gosched()
}

// parkGate implements an address-wait/wake pair on a single process-wide
// counter (the wake-hint counter), using a condition variable rather than
// a real futex/ulock syscall — acceptable for any implementation that
// preserves the "wake all parked workers on a single state change"
// property.
//
// One gate guards the one wake-hint counter for the whole Runtime by
// design: a single wakeAll call must reach every parked worker, which a
// per-slot gate could not do without also broadcasting to every slot.
type parkGate struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func newParkGate() *parkGate {
	g := &parkGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// waitWhileEqual blocks until *addr no longer equals value, or returns
// immediately if it already doesn't. Spurious wakes are harmless: callers
// always re-check the condition that actually matters (the slot flag) in
// their own loop.
func (g *parkGate) waitWhileEqual(addr *atomix.Int32, value int32) {
	g.mu.Lock()
	for addr.LoadAcquire() == value {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// wakeAll wakes every goroutine parked in waitWhileEqual on this gate.
// Called after any change to the wake-hint counter.
func (g *parkGate) wakeAll() {
	g.mu.Lock()
	g.cond.Broadcast()
	g.mu.Unlock()
}
