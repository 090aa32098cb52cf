// Package main provides accuracy validation for the timing pipeline.
// Ensures that every pipeline configuration leaves the same architectural
// state as the functional emulator.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/risc16sim/benchmarks"
	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

type variant struct {
	name string
	opts []pipeline.PipelineOption
}

var variants = []variant{
	{name: "default"},
	{name: "writeback flush", opts: []pipeline.PipelineOption{pipeline.WithWritebackFlush()}},
	{name: "dcache", opts: []pipeline.PipelineOption{pipeline.WithDCache(cache.DefaultConfig())}},
}

// testDecoder validates that decoding tolerates the separators assembly
// text may use.
func testDecoder() bool {
	fmt.Println("Testing instruction decoder...")

	decoder := insts.NewDecoder()
	spellings := []string{
		"lw R1, 4(R2)",
		"lw R1 4 R2",
		"lw\tR1,4(R2)",
		"LW R1, 4 ( R2 )",
	}

	want := decoder.Decode(spellings[0])
	for _, text := range spellings[1:] {
		got := decoder.Decode(text)
		if got.Op != want.Op || got.Rd != want.Rd || got.Rs != want.Rs ||
			got.Imm != want.Imm || got.Err != nil {
			fmt.Printf("❌ %q decoded as %+v\n", text, got)
			return false
		}
		fmt.Printf("✅ %q decoded correctly\n", text)
	}

	return true
}

// testPipelineExecution validates every benchmark against the functional
// emulator in every pipeline configuration.
func testPipelineExecution() bool {
	fmt.Println("\nTesting pipeline execution accuracy...")

	passed := true
	for _, b := range benchmarks.Programs() {
		e, err := benchmarks.RunFunctional(b)
		if err != nil {
			fmt.Printf("❌ %s: functional run failed: %v\n", b.Name, err)
			passed = false
			continue
		}

		for _, v := range variants {
			r := benchmarks.Run(b, v.opts...)
			if !r.Finished || r.Registers != e.RegFile().Snapshot() ||
				string(r.Memory().Dump(1024)) != string(e.Memory().Dump(1024)) {
				fmt.Printf("❌ %s (%s): state differs from functional emulator\n", b.Name, v.name)
				fmt.Printf("  Pipeline:   %v\n", r.Registers)
				fmt.Printf("  Functional: %v\n", e.RegFile().Snapshot())
				passed = false
				continue
			}

			fmt.Printf("✅ %s (%s): %d cycles, CPI %.2f\n", b.Name, v.name, r.Cycles, r.CPI)
		}
	}

	return passed
}

// testFileProgram validates a program given on the command line.
func testFileProgram(path string) bool {
	fmt.Printf("\nTesting %s...\n", path)

	prog, err := loader.Load(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return false
	}

	e := emu.NewEmulator(emu.WithMaxInstructions(benchmarks.DefaultMaxCycles))
	e.LoadProgram(prog)
	if err := e.Run(); err != nil {
		fmt.Printf("❌ functional run failed: %v\n", err)
		return false
	}

	for _, v := range variants {
		p := pipeline.NewPipeline(&emu.RegFile{}, emu.NewMemory(), v.opts...)
		p.Load(prog)
		if !p.Run(benchmarks.DefaultMaxCycles) || p.Registers() != e.RegFile().Snapshot() {
			fmt.Printf("❌ %s: state differs from functional emulator\n", v.name)
			return false
		}
		fmt.Printf("✅ %s: %d cycles\n", v.name, p.Stats().Cycles)
	}

	return true
}

func main() {
	fmt.Println("RISC-16 Accuracy Validation")
	fmt.Println("===========================")

	allPassed := testDecoder()

	if !testPipelineExecution() {
		allPassed = false
	}

	for _, path := range os.Args[1:] {
		if !testFileProgram(path) {
			allPassed = false
		}
	}

	fmt.Println("\n===========================")
	if allPassed {
		fmt.Println("🎉 ALL ACCURACY TESTS PASSED")
		os.Exit(0)
	} else {
		fmt.Println("❌ ACCURACY TESTS FAILED")
		os.Exit(1)
	}
}
