// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import "code.hybscloud.com/atomix"

// Work is the user-supplied callback invoked once per dispatch index.
//
// index is the item index in [0,count). executor identifies which
// goroutine is running this call: 0..W-1 for the W persistent workers,
// and W for the caller itself (the goroutine that invoked Dispatch).
// Passing both as parameters avoids the need for any ambient
// thread-local state — see DESIGN.md, Open Question 1.
type Work func(index, executor int)

// Mode selects how dispatch indices are distributed across executors.
type Mode int

const (
	// Contiguous statically splits [0,count) into one contiguous range
	// per executor, balanced to within one item.
	Contiguous Mode = iota
	// LoadBalancing has every executor claim indices one at a time from
	// a shared atomic counter until the counter is exhausted.
	LoadBalancing
	// PerThread runs the full [0,count) sequence on every executor.
	PerThread
)

func (m Mode) String() string {
	switch m {
	case Contiguous:
		return "Contiguous"
	case LoadBalancing:
		return "LoadBalancing"
	case PerThread:
		return "PerThread"
	default:
		return "Mode(?)"
	}
}

// workFlag values. The legal cycle is IDLE -> AVAILABLE -> DONE -> IDLE,
// with one sanctioned shortcut: IDLE -> DONE directly, used when a
// contiguous dispatch has no items to hand to a slot (see slot.go).
type workFlag uint32

const (
	flagIdle workFlag = iota
	flagAvailable
	flagDone
)

func (f workFlag) String() string {
	switch f {
	case flagIdle:
		return "IDLE"
	case flagAvailable:
		return "AVAILABLE"
	case flagDone:
		return "DONE"
	default:
		return "FLAG(?)"
	}
}

// trampoline is the internal, opaque-argument form of a user dispatch.
// work and executor together let the per-thread and load-balancing strategies
// share the slot/worker machinery with contiguous dispatch despite having
// different calling conventions (see dispatch.go).
type trampoline struct {
	work     Work
	executor int
}

// pad is cache line padding, sized to keep adjacent workerSlot fields (and
// adjacent slots in the slot array) from sharing a cache line.
type pad [64]byte

// padAfterUint32 pads out a cache line after a 4-byte atomic field.
type padAfterUint32 [64 - 4]byte

// workerSlot is the cache-line-padded per-worker record: one exists per
// persistent worker goroutine. Each slot is a separate heap allocation
// with a full cache line of padding at both ends, so adjacent slots never
// share a cache line; the struct itself is not aligned to a cache-line
// boundary. The caller itself is not backed by a slot —
// it runs its own share inline in dispatch.go and never parks.
type workerSlot struct {
	_ pad

	// index is this worker's 0-based executor index, fixed at creation.
	index int

	// flag is the sole per-slot synchronization primitive.
	flag atomix.Uint32
	_    padAfterUint32

	// first/last are the inclusive index range assigned for the current
	// dispatch. Meaningless while flag == IDLE.
	first, last int

	// fn is the trampoline to invoke for this dispatch; nil before the
	// slot's first assignment, and like first/last not cleared (so
	// meaningless) while flag == IDLE.
	fn *trampoline

	// shouldStop is set once by Close on the owner goroutine and read on
	// every pass of the worker's spin loop; an atomix.Bool like flag
	// rather than a plain bool since the spinning path (unlike the parked
	// path, which is mutex-synchronized via the cond) has no other
	// synchronization on it.
	shouldStop atomix.Bool

	_ pad
}

func newWorkerSlot(index int) *workerSlot {
	s := &workerSlot{index: index}
	s.flag.StoreRelaxed(uint32(flagIdle))
	return s
}
