// Package main provides a profiling wrapper for the RISC-16 simulator to
// identify performance bottlenecks.
//
// The program is either an assembly file or the name of a built-in
// benchmark (-bench). It is run -iterations times so that short programs
// accumulate enough samples.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/risc16sim/benchmarks"
	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/core"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

var (
	timing     = flag.Bool("timing", false, "Enable timing simulation mode")
	dcache     = flag.Bool("dcache", false, "Attach the data cache model in timing mode")
	bench      = flag.String("bench", "", "Profile a built-in benchmark instead of a file")
	iterations = flag.Int("iterations", 1000, "Number of times to run the program")
	maxCycles  = flag.Uint64("max-cycles", 100000, "Cycle or instruction limit per run (0 = unlimited)")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
)

func main() {
	flag.Parse()

	prog, setup, err := loadProgram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.s>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	var instrCount, cycleCount uint64
	for range *iterations {
		var instrs, cycles uint64
		if *timing {
			instrs, cycles = runTimingProfile(prog, setup)
		} else {
			instrs = runEmulationProfile(prog, setup)
		}
		instrCount += instrs
		cycleCount += cycles
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Iterations: %d\n", *iterations)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	if *timing {
		fmt.Printf("Cycles simulated: %d\n", cycleCount)
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
	if cycleCount > 0 {
		fmt.Printf("Cycles/second: %.0f\n", float64(cycleCount)/elapsed.Seconds())
	}
}

// loadProgram returns the program to profile and an optional memory setup.
func loadProgram() (*loader.Program, func(*emu.Memory), error) {
	if *bench != "" {
		b, ok := benchmarks.ByName(*bench)
		if !ok {
			return nil, nil, fmt.Errorf("unknown benchmark %q", *bench)
		}
		return loader.Parse(b.Source), b.Setup, nil
	}

	if flag.NArg() < 1 {
		return nil, nil, fmt.Errorf("no program given")
	}

	prog, err := loader.Load(flag.Arg(0))
	return prog, nil, err
}

// runEmulationProfile runs the program in functional emulation mode.
func runEmulationProfile(prog *loader.Program, setup func(*emu.Memory)) uint64 {
	emulator := emu.NewEmulator(emu.WithMaxInstructions(*maxCycles))
	emulator.LoadProgram(prog)
	if setup != nil {
		setup(emulator.Memory())
	}

	_ = emulator.Run()

	return emulator.InstructionCount()
}

// runTimingProfile runs the program in timing simulation mode.
func runTimingProfile(prog *loader.Program, setup func(*emu.Memory)) (uint64, uint64) {
	var opts []pipeline.PipelineOption
	if *dcache {
		opts = append(opts, pipeline.WithDCache(cache.DefaultConfig()))
	}

	memory := emu.NewMemory()
	c := core.NewCore(&emu.RegFile{}, memory, core.WithPipelineOptions(opts...))
	c.Load(prog)
	if setup != nil {
		setup(memory)
	}

	c.Run(*maxCycles)

	stats := c.Stats()

	return stats.Instructions, stats.Cycles
}
