// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import "testing"

// BenchmarkDispatchTiny measures per-dispatch overhead for a single-item
// Contiguous dispatch: the back-to-back-burst case spec §8 property 6/S6
// cares about, where the spin phase should absorb the gap between calls
// without any worker parking.
func BenchmarkDispatchTiny(b *testing.B) {
	rt, err := New(withBenchWorkers(4)...)
	if err != nil {
		b.Fatal(err)
	}
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt.Dispatch(1, Contiguous, func(int, int) {})
	}
}

// BenchmarkDispatchTinyHot is the same workload wrapped in
// WakeThreadsUp/SendThreadsToSleep, demonstrating spec §8 property 7: median
// pickup latency should be lower than BenchmarkDispatchTiny's once workers
// are hinted to stay hot across the whole run rather than re-deciding
// per-dispatch.
func BenchmarkDispatchTinyHot(b *testing.B) {
	rt, err := New(withBenchWorkers(4)...)
	if err != nil {
		b.Fatal(err)
	}
	defer rt.Close()

	rt.WakeThreadsUp()
	defer rt.SendThreadsToSleep()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt.Dispatch(1, Contiguous, func(int, int) {})
	}
}

func BenchmarkDispatchContiguous1000(b *testing.B) {
	rt, err := New(withBenchWorkers(4)...)
	if err != nil {
		b.Fatal(err)
	}
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt.Dispatch(1000, Contiguous, func(int, int) {})
	}
}

func BenchmarkDispatchLoadBalancing1000(b *testing.B) {
	rt, err := New(withBenchWorkers(4)...)
	if err != nil {
		b.Fatal(err)
	}
	defer rt.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rt.Dispatch(1000, LoadBalancing, func(int, int) {})
	}
}

func withBenchWorkers(w int) []Option {
	return []Option{WithFractionOfCores(0.001), WithMinWorkers(w)}
}
