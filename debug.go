// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build pfordebug

package pfor

import "sync"

// debugEnabled gates the extra flag-discipline assertions in slot.go (the
// dispatcher's wait loop asserting it never observes IDLE while spinning
// for DONE). Off by default: the checks below are redundant with the
// CAS-with-assert transitions in slot.go and only earn their keep while
// debugging a new strategy.
const debugEnabled = true

var transitionLog = struct {
	mu  sync.Mutex
	log map[int][]workFlag
}{log: make(map[int][]workFlag)}

// recordTransition appends to slotIndex's observed flag history. Only
// built under pfordebug; recordTransition is a no-op in ordinary builds so
// the call sites in slot.go cost nothing there.
func recordTransition(slotIndex int, to workFlag) {
	transitionLog.mu.Lock()
	transitionLog.log[slotIndex] = append(transitionLog.log[slotIndex], to)
	transitionLog.mu.Unlock()
}

// TransitionLog returns the sequence of flag values slotIndex has taken
// since the process started or ResetTransitionLog was last called. Only
// available in pfordebug builds; used by tests asserting the flag
// discipline's regular-language shape.
func TransitionLog(slotIndex int) []workFlag {
	transitionLog.mu.Lock()
	defer transitionLog.mu.Unlock()
	out := make([]workFlag, len(transitionLog.log[slotIndex]))
	copy(out, transitionLog.log[slotIndex])
	return out
}

// ResetTransitionLog clears every slot's recorded history.
func ResetTransitionLog() {
	transitionLog.mu.Lock()
	transitionLog.log = make(map[int][]workFlag)
	transitionLog.mu.Unlock()
}
