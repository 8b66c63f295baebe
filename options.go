// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pfor

import "runtime"

// Config contains all configuration options recognized by New.
type Config struct {
	// FractionOfCores targets runtime.NumCPU() * FractionOfCores workers,
	// rounded, subject to MinWorkers. Default 0.8.
	FractionOfCores float64

	// MinWorkers lower-bounds the worker count. Default 4.
	MinWorkers int

	// PerThreadScratchBytes is the size of a scratch buffer handed to each
	// worker for its own arbitrary use (e.g. a per-thread arena in
	// PerThread-mode work). Default 128 KiB. pfor allocates the buffer
	// and exposes it via OnStart but never reads or writes it itself.
	PerThreadScratchBytes int

	// StartingContext seeds the ambient environment passed to OnStart and
	// OnEnd for each worker. Opaque to pfor.
	StartingContext any

	// OnStart, if set, runs once inside each worker goroutine before it
	// begins serving dispatches. scratch is that worker's private
	// PerThreadScratchBytes-sized buffer.
	OnStart func(executor int, startingContext any, scratch []byte)

	// OnEnd, if set, runs once inside each worker goroutine after Close
	// has told it to stop and before the goroutine returns.
	OnEnd func(executor int, startingContext any, scratch []byte)
}

// Option configures a Config, applied in New.
type Option func(*Config)

// WithFractionOfCores overrides FractionOfCores.
func WithFractionOfCores(fraction float64) Option {
	return func(c *Config) { c.FractionOfCores = fraction }
}

// WithMinWorkers overrides MinWorkers.
func WithMinWorkers(n int) Option {
	return func(c *Config) { c.MinWorkers = n }
}

// WithScratchBytes overrides PerThreadScratchBytes.
func WithScratchBytes(n int) Option {
	return func(c *Config) { c.PerThreadScratchBytes = n }
}

// WithStartingContext overrides StartingContext.
func WithStartingContext(ctx any) Option {
	return func(c *Config) { c.StartingContext = ctx }
}

// WithOnStart sets the per-worker startup hook.
func WithOnStart(fn func(executor int, startingContext any, scratch []byte)) Option {
	return func(c *Config) { c.OnStart = fn }
}

// WithOnEnd sets the per-worker shutdown hook.
func WithOnEnd(fn func(executor int, startingContext any, scratch []byte)) Option {
	return func(c *Config) { c.OnEnd = fn }
}

func defaultConfig() Config {
	return Config{
		FractionOfCores:       0.8,
		MinWorkers:            4,
		PerThreadScratchBytes: 128 * 1024,
	}
}

func (c *Config) validate() error {
	if c.FractionOfCores <= 0 || c.FractionOfCores > 1 {
		return errInvalidConfig("FractionOfCores must be in (0,1]")
	}
	if c.MinWorkers < 0 {
		return errInvalidConfig("MinWorkers must be >= 0")
	}
	if c.PerThreadScratchBytes < 0 {
		return errInvalidConfig("PerThreadScratchBytes must be >= 0")
	}
	return nil
}

// workerCount computes W = max(MinWorkers, round(cores*FractionOfCores)).
func (c *Config) workerCount() int {
	cores := runtime.NumCPU()
	target := int(float64(cores)*c.FractionOfCores + 0.5)
	if target < c.MinWorkers {
		target = c.MinWorkers
	}
	return target
}
