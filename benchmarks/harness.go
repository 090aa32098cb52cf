// Package benchmarks provides RISC-16 benchmark programs and a harness that
// runs them through the pipeline and checks them against the functional
// emulator.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

// DefaultMaxCycles bounds a benchmark run that never finishes.
const DefaultMaxCycles = 100000

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is the RISC-16 assembly text.
	Source string

	// Setup initializes data memory after the program is loaded.
	Setup func(memory *emu.Memory)

	// ExpectedRegs is the register file after the program finishes.
	ExpectedRegs [insts.NumRegs]int16

	// ExpectedMemory maps even addresses to the halfword expected there.
	ExpectedMemory map[uint16]uint16
}

// Result holds the timing results for a single benchmark run.
type Result struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Cycles       uint64  `json:"cycles"`
	Instructions uint64  `json:"instructions"`
	Stalls       uint64  `json:"stalls"`
	Flushes      uint64  `json:"flushes"`
	CPI          float64 `json:"cpi"`
	IPC          float64 `json:"ipc"`

	// DCacheHits/Misses (if cache enabled)
	DCacheHits   uint64 `json:"dcache_hits,omitempty"`
	DCacheMisses uint64 `json:"dcache_misses,omitempty"`

	// Finished is false if the run hit the cycle cap.
	Finished bool `json:"finished"`

	Registers [insts.NumRegs]int16 `json:"registers"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`

	memory *emu.Memory
}

// Memory returns the data memory at the end of the run.
func (r Result) Memory() *emu.Memory {
	return r.memory
}

// Run executes a benchmark on a fresh pipeline built with opts.
func Run(b Benchmark, opts ...pipeline.PipelineOption) Result {
	regFile := &emu.RegFile{}
	memory := emu.NewMemory()

	pipe := pipeline.NewPipeline(regFile, memory, opts...)
	pipe.Load(loader.Parse(b.Source))
	if b.Setup != nil {
		b.Setup(memory)
	}

	start := time.Now()
	finished := pipe.Run(DefaultMaxCycles)
	wallTime := time.Since(start)

	stats := pipe.Stats()
	result := Result{
		Name:         b.Name,
		Description:  b.Description,
		Cycles:       stats.Cycles,
		Instructions: stats.Instructions,
		Stalls:       stats.Stalls,
		Flushes:      stats.Flushes,
		CPI:          stats.CPI(),
		IPC:          stats.IPC(),
		Finished:     finished,
		Registers:    pipe.Registers(),
		WallTime:     wallTime,
		memory:       memory,
	}

	if cs := pipe.CacheStats(); cs.Enabled {
		result.DCacheHits = cs.Hits
		result.DCacheMisses = cs.Misses
	}

	return result
}

// RunFunctional executes a benchmark on the functional emulator.
func RunFunctional(b Benchmark) (*emu.Emulator, error) {
	e := emu.NewEmulator(emu.WithMaxInstructions(DefaultMaxCycles))
	e.LoadProgram(loader.Parse(b.Source))
	if b.Setup != nil {
		b.Setup(e.Memory())
	}

	if err := e.Run(); err != nil {
		return e, fmt.Errorf("benchmark %s: %w", b.Name, err)
	}

	return e, nil
}

// Verify checks a result against the benchmark's expected final state.
func Verify(b Benchmark, r Result) error {
	if !r.Finished {
		return fmt.Errorf("benchmark %s did not finish in %d cycles", b.Name, r.Cycles)
	}

	return verifyState(b, r.Registers, r.memory)
}

// VerifyFunctional checks the functional emulator's final state against the
// benchmark's expected state.
func VerifyFunctional(b Benchmark, e *emu.Emulator) error {
	return verifyState(b, e.RegFile().Snapshot(), e.Memory())
}

func verifyState(b Benchmark, regs [insts.NumRegs]int16, memory *emu.Memory) error {
	for i, want := range b.ExpectedRegs {
		if regs[i] != want {
			return fmt.Errorf("benchmark %s: %v = %d, want %d",
				b.Name, insts.Reg(i), regs[i], want)
		}
	}

	for addr, want := range b.ExpectedMemory {
		if got := memory.Read16(addr); got != want {
			return fmt.Errorf("benchmark %s: mem[%#x] = %#04x, want %#04x",
				b.Name, addr, got, want)
		}
	}

	return nil
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableDCache enables data cache statistics
	EnableDCache bool

	// DCache sizes the data cache
	DCache cache.Config

	// FlushWriteback makes flushes clear WB as well
	FlushWriteback bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableDCache: true,
		DCache:       cache.DefaultConfig(),
		Output:       os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// PipelineOptions returns the pipeline options the harness runs with.
func (h *Harness) PipelineOptions() []pipeline.PipelineOption {
	opts := []pipeline.PipelineOption{}
	if h.config.EnableDCache {
		opts = append(opts, pipeline.WithDCache(h.config.DCache))
	}
	if h.config.FlushWriteback {
		opts = append(opts, pipeline.WithWritebackFlush())
	}
	return opts
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []Result {
	results := make([]Result, 0, len(h.benchmarks))

	for _, b := range h.benchmarks {
		results = append(results, Run(b, h.PipelineOptions()...))
	}

	return results
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	w := h.config.Output

	_, _ = fmt.Fprintln(w, "=== RISC-16 Pipeline Benchmark Results ===")
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(w, "  Cycles:               %d\n", r.Cycles)
		_, _ = fmt.Fprintf(w, "  Instructions Retired: %d\n", r.Instructions)
		_, _ = fmt.Fprintf(w, "  Stall Cycles:         %d\n", r.Stalls)
		_, _ = fmt.Fprintf(w, "  Pipeline Flushes:     %d\n", r.Flushes)
		_, _ = fmt.Fprintf(w, "  CPI:                  %.2f\n", r.CPI)
		_, _ = fmt.Fprintf(w, "  IPC:                  %.2f\n", r.IPC)
		if !r.Finished {
			_, _ = fmt.Fprintln(w, "  (cycle cap reached)")
		}

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(w, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(w, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(w, "  Misses: %d\n", r.DCacheMisses)
		}

		if h.config.Verbose {
			_, _ = fmt.Fprintf(w, "  Registers: %v\n", r.Registers)
			_, _ = fmt.Fprintf(w, "  Wall Time: %v\n", r.WallTime)
		}
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,stalls,flushes,cpi,ipc,dcache_hits,dcache_misses")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%.2f,%.2f,%d,%d\n",
			r.Name,
			r.Cycles,
			r.Instructions,
			r.Stalls,
			r.Flushes,
			r.CPI,
			r.IPC,
			r.DCacheHits,
			r.DCacheMisses,
		)
	}
}

// PrintJSON outputs benchmark results as an indented JSON array.
func (h *Harness) PrintJSON(results []Result) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
