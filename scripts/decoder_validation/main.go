// Validate decoder throughput - measures allocations per decoded instruction
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
)

var lines = []string{
	"add R3, R1, R2",
	"addi R1, R1, -1",
	"lw R4, 2(R5)",
	"sw R4, 64(R6)",
	"beq R1, R0, done",
	"jal R7, func",
	"sll R2, R2, 3",
	"halt",
}

func main() {
	decoder := insts.NewDecoder()

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.Decode(lines[i%len(lines)])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		for _, line := range lines {
			decoder.Decode(line)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(lines)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	// A full instruction memory, parsed from source text.
	source := ""
	for i := 0; i < loader.MaxInstructions; i++ {
		source += lines[i%len(lines)] + "\n"
	}

	start = time.Now()
	const parses = 1000
	for i := 0; i < parses; i++ {
		loader.Parse(source)
	}
	elapsed = time.Since(start)

	fmt.Printf("\nProgram parses (%d instructions): %d in %v\n",
		loader.MaxInstructions, parses, elapsed)
	fmt.Printf("Parse time per program: %v\n", elapsed/parses)
}
