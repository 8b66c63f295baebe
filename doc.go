// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pfor is a parallel-for dispatch runtime: a persistent pool of
// worker goroutines that a single owner goroutine repeatedly hands
// integer-indexed work to, CPU-shader-launch style, so that application
// code can stay single-threaded and selectively parallelize individual
// loops.
//
// # Quick Start
//
//	rt, err := pfor.New(pfor.WithMinWorkers(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	results := make([]int, 1_000_000)
//	rt.Dispatch(len(results), pfor.Contiguous, func(i, executor int) {
//	    results[i] = i * i
//	})
//
// # Distribution strategies
//
//	Contiguous    — each executor statically owns a contiguous range.
//	LoadBalancing — executors claim indices dynamically from a shared
//	                counter; use when per-item cost is skewed.
//	PerThread     — every executor runs the full [0,count) sequence;
//	                use for once-per-executor side effects.
//
// # Back-to-back dispatches
//
// A tight loop of many small Dispatch calls pays no parking cost as long
// as consecutive calls land within spinBudget of each other — workers
// stay spinning rather than going back to sleep. Wrapping a burst in
// WakeThreadsUp/SendThreadsToSleep widens that window further by keeping
// workers hot even across gaps in the loop body itself:
//
//	rt.WakeThreadsUp()
//	defer rt.SendThreadsToSleep()
//	for _, batch := range batches {
//	    rt.Dispatch(len(batch), pfor.Contiguous, process)
//	}
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for every atomic field
// (explicit memory ordering on the per-slot work flag and the wake-hint
// counter), [code.hybscloud.com/spin] for the spin phases in both the
// worker park loop and the dispatcher's wait-for-done loop, and
// [code.hybscloud.com/iox]'s Backoff for the park gate's cold-path
// escalation, once the spin phase and a yield have both failed.
//
// # Thread Safety
//
// A Runtime's Dispatch, WakeThreadsUp, SendThreadsToSleep, and Close must
// all be called from the same goroutine that created it via New, and
// never from inside a worker or concurrently with another call on the
// same Runtime. Stats may be called concurrently from any goroutine.
package pfor
