// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build pfordebug

package pfor

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// flagSequenceRegexp is the per-slot replay grammar: every dispatch a slot
// takes part in is one full cycle, either 0->1->2->0 or 0->2->0, and the
// two kinds of cycle may follow each other in any order across dispatches
// (a slot can get an empty range in one dispatch and a real one in the
// next). recordTransition logs every destination a slot's flag reaches,
// so each cycle appears in the log as "120" or "20".
var flagSequenceRegexp = regexp.MustCompile(`^(120|20)*$`)

// TestFlagDiscipline is spec property 3: a replay of every flag transition
// recorded for a slot across many dispatches must be a sequence of
// 0->1->2->0 and 0->2->0 cycles in any order, once the leading
// IDLE->{AVAILABLE, DONE} start of each cycle is folded in
// (recordTransition only logs destinations, so the sequence observed per
// cycle is "120" or "20").
func TestFlagDiscipline(t *testing.T) {
	ResetTransitionLog()
	const w = 4
	rt := newTestRuntime(t, w)

	modes := []Mode{Contiguous, LoadBalancing, PerThread}
	for round := 0; round < 50; round++ {
		n := round % 9
		rt.Dispatch(n, modes[round%len(modes)], func(int, int) {})
	}

	for slotIndex := 0; slotIndex < w; slotIndex++ {
		seq := TransitionLog(slotIndex)
		var sb strings.Builder
		for _, f := range seq {
			switch f {
			case flagAvailable:
				sb.WriteByte('1')
			case flagDone:
				sb.WriteByte('2')
			case flagIdle:
				sb.WriteByte('0')
			default:
				t.Fatalf("slot %d: unexpected recorded transition value %v", slotIndex, f)
			}
		}
		require.Regexp(t, flagSequenceRegexp, sb.String(), "slot %d", slotIndex)
	}
}
