// Package core provides the cycle-accurate RISC-16 core model.
// It wraps the pipeline implementation to provide a high-level interface
// for drivers: stepping, bounded runs, paced auto-stepping and snapshots.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

// DefaultMemoryWindow is the number of data memory bytes in a snapshot.
const DefaultMemoryWindow = 32

// ErrInvalidInterval is returned by Autostep for a non-positive interval.
var ErrInvalidInterval = errors.New("autostep interval must be positive")

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of stall cycles.
	Stalls uint64
	// Flushes is the number of pipeline flushes.
	Flushes uint64
	// CPI is cycles per instruction, rounded to two decimals.
	CPI float64
	// IPC is instructions per cycle, rounded to two decimals.
	IPC float64
}

// Snapshot is a copy of everything a driver displays after a cycle.
type Snapshot struct {
	PC        int
	Registers [insts.NumRegs]int16
	Slots     [pipeline.NumStages]pipeline.Slot
	// Memory holds the first bytes of data memory, address i at index i.
	Memory   []byte
	Stats    Stats
	Cache    pipeline.CacheStatistics
	Finished bool
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithPipelineOptions passes options to the underlying pipeline.
func WithPipelineOptions(opts ...pipeline.PipelineOption) Option {
	return func(c *Core) {
		c.pipelineOpts = append(c.pipelineOpts, opts...)
	}
}

// WithMemoryWindow sets how many bytes of data memory a snapshot holds.
func WithMemoryWindow(n int) Option {
	return func(c *Core) {
		c.memoryWindow = n
	}
}

// Core represents a cycle-accurate RISC-16 core model.
// It wraps a 5-stage pipeline and provides a simple interface for simulation.
// A Core must not be driven from more than one goroutine at a time.
type Core struct {
	// Pipeline is the underlying 5-stage pipeline.
	Pipeline *pipeline.Pipeline

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory

	pipelineOpts []pipeline.PipelineOption
	memoryWindow int
}

// NewCore creates a new Core with the given register file and memory.
func NewCore(regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Core {
	c := &Core{
		regFile:      regFile,
		memory:       memory,
		memoryWindow: DefaultMemoryWindow,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Pipeline = pipeline.NewPipeline(regFile, memory, c.pipelineOpts...)

	return c
}

// Load replaces the program and resets the core.
func (c *Core) Load(prog *loader.Program) {
	c.Pipeline.Load(prog)
}

// Tick executes one pipeline cycle. Returns false if the core had already
// finished.
func (c *Core) Tick() bool {
	return c.Pipeline.Tick()
}

// Finished returns true if the program has drained from the pipeline.
func (c *Core) Finished() bool {
	return c.Pipeline.Finished()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		Stalls:       pipeStats.Stalls,
		Flushes:      pipeStats.Flushes,
		CPI:          pipeStats.CPI(),
		IPC:          pipeStats.IPC(),
	}
}

// Run executes the core until it finishes or maxCycles cycles have run.
// A maxCycles of 0 means no limit. Returns true if the core finished.
func (c *Core) Run(maxCycles uint64) bool {
	return c.Pipeline.Run(maxCycles)
}

// RunCycles executes the core for the specified number of cycles.
// Returns true if still running, false if finished.
func (c *Core) RunCycles(cycles uint64) bool {
	return c.Pipeline.RunCycles(cycles)
}

// Reset clears registers, pipeline and counters. The program and data
// memory are kept.
func (c *Core) Reset() {
	c.Pipeline.Reset()
}

// Snapshot returns a copy of the architectural and pipeline state.
func (c *Core) Snapshot() Snapshot {
	return Snapshot{
		PC:        c.Pipeline.PC(),
		Registers: c.Pipeline.Registers(),
		Slots:     c.Pipeline.Slots(),
		Memory:    c.Pipeline.MemoryDump(c.memoryWindow),
		Stats:     c.Stats(),
		Cache:     c.Pipeline.CacheStats(),
		Finished:  c.Pipeline.Finished(),
	}
}

// Autostep advances the core one cycle per interval until it finishes, ctx
// is done, or onCycle returns false. onCycle receives a snapshot taken after
// each cycle and may be nil. Returns ctx.Err() if cancelled,
// ErrInvalidInterval if interval is not positive, nil otherwise.
func (c *Core) Autostep(
	ctx context.Context,
	interval time.Duration,
	onCycle func(Snapshot) bool,
) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	if c.Finished() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !c.Tick() {
			return nil
		}

		snapshot := c.Snapshot()
		if onCycle != nil && !onCycle(snapshot) {
			return nil
		}

		if snapshot.Finished {
			return nil
		}
	}
}
