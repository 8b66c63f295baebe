// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import "code.hybscloud.com/spin"

// loadFlag reads the slot's work flag with acquire semantics so a
// subsequent read of first/last/fn happens-after the dispatcher's publish.
func (s *workerSlot) loadFlag() workFlag {
	return workFlag(s.flag.LoadAcquire())
}

// signalAvailable transitions IDLE -> AVAILABLE, publishing first/last/fn
// to the worker. Callers must have already written first/last/fn.
//
// Panics if the prior flag was not IDLE: a violation here means the
// dispatcher reused a slot without waiting for its previous DONE->IDLE
// reset.
func (s *workerSlot) signalAvailable() {
	// Recorded before the CAS so the worker's following DONE is always
	// logged after this AVAILABLE.
	recordTransition(s.index, flagAvailable)
	if !s.flag.CompareAndSwapAcqRel(uint32(flagIdle), uint32(flagAvailable)) {
		panic(&PreconditionError{Op: "signalAvailable", Detail: "slot flag was not IDLE"})
	}
}

// signalDoneNoWork transitions IDLE -> DONE directly, used by the
// contiguous strategy when a slot receives an empty range. This is the
// one sanctioned exception to the normal AVAILABLE->DONE worker-side
// transition (see DESIGN.md for why it is codified here as a first-class
// transition rather than an assert escape hatch).
func (s *workerSlot) signalDoneNoWork() {
	if !s.flag.CompareAndSwapAcqRel(uint32(flagIdle), uint32(flagDone)) {
		panic(&PreconditionError{Op: "signalDoneNoWork", Detail: "slot flag was not IDLE"})
	}
	recordTransition(s.index, flagDone)
}

// signalDone transitions AVAILABLE -> DONE. Called by the worker itself
// after executing its assigned range, on every exit path including a
// panicking work function (see worker.go).
func (s *workerSlot) signalDone() {
	// Recorded before the CAS so the dispatcher's following IDLE reset is
	// always logged after this DONE.
	recordTransition(s.index, flagDone)
	if !s.flag.CompareAndSwapAcqRel(uint32(flagAvailable), uint32(flagDone)) {
		panic(&PreconditionError{Op: "signalDone", Detail: "slot flag was not AVAILABLE"})
	}
}

// resetIdle transitions DONE -> IDLE. Called by the dispatcher after
// observing DONE, to make the slot reusable by the next dispatch.
func (s *workerSlot) resetIdle() {
	if !s.flag.CompareAndSwapAcqRel(uint32(flagDone), uint32(flagIdle)) {
		panic(&PreconditionError{Op: "resetIdle", Detail: "slot flag was not DONE"})
	}
	recordTransition(s.index, flagIdle)
}

// waitForDone pure-spins until the slot reports DONE. Never parks: the
// caller (owner goroutine) has nothing else to do while a dispatch is in
// flight, and parking here would add latency to the result rather than
// save CPU for useful work.
func (s *workerSlot) waitForDone() {
	sw := spin.Wait{}
	for {
		f := s.loadFlag()
		if f == flagDone {
			return
		}
		if debugEnabled && f == flagIdle {
			panic(&PreconditionError{Op: "waitForDone", Detail: "observed IDLE while spinning for DONE"})
		}
		sw.Once()
	}
}
