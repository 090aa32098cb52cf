package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/timing/core"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

const memoryRowBytes = 16

// printTrace prints one line holding the cycle number and every stage slot.
func printTrace(w io.Writer, s core.Snapshot) {
	parts := make([]string, 0, pipeline.NumStages)
	for _, stage := range pipeline.Stages() {
		parts = append(parts, fmt.Sprintf("%s: %s", stage, s.Slots[stage]))
	}

	fmt.Fprintf(w, "cycle %4d | %s\n", s.Stats.Cycles, strings.Join(parts, " | "))
}

// printPipeline prints the stage slots one per line.
func printPipeline(w io.Writer, s core.Snapshot) {
	fmt.Fprintf(w, "Cycle %d  PC %d\n", s.Stats.Cycles, s.PC)
	for _, stage := range pipeline.Stages() {
		fmt.Fprintf(w, "  %-3s %s\n", stage, s.Slots[stage])
	}
}

// printReport prints the end-of-run summary.
func printReport(w io.Writer, s core.Snapshot) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total Cycles: %d\n", s.Stats.Cycles)
	fmt.Fprintf(w, "Instructions Retired: %d\n", s.Stats.Instructions)
	fmt.Fprintf(w, "CPI: %.2f\n", s.Stats.CPI)
	fmt.Fprintf(w, "IPC: %.2f\n", s.Stats.IPC)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Pipeline Events:\n")
	fmt.Fprintf(w, "  Stalls:  %d\n", s.Stats.Stalls)
	fmt.Fprintf(w, "  Flushes: %d\n", s.Stats.Flushes)
	fmt.Fprintf(w, "\n")
	printRegisters(w, s.Registers)
	fmt.Fprintf(w, "\n")
	printMemory(w, s.Memory)
	printCache(w, s.Cache)
}

func printRegisters(w io.Writer, regs [insts.NumRegs]int16) {
	fmt.Fprintf(w, "Registers:\n")
	for i, v := range regs {
		fmt.Fprintf(w, "  %s = %6d (0x%04X)\n", insts.Reg(i), v, uint16(v))
	}
}

// printMemory prints a hex dump, 16 bytes per row, addresses starting at 0.
func printMemory(w io.Writer, mem []byte) {
	fmt.Fprintf(w, "Memory:\n")
	for row := 0; row < len(mem); row += memoryRowBytes {
		end := min(row+memoryRowBytes, len(mem))

		hex := make([]string, 0, end-row)
		for _, b := range mem[row:end] {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}

		fmt.Fprintf(w, "  0x%04X: %s\n", row, strings.Join(hex, " "))
	}
}

func printCache(w io.Writer, cs pipeline.CacheStatistics) {
	if !cs.Enabled {
		return
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "D-Cache:\n")
	fmt.Fprintf(w, "  Reads:     %d\n", cs.Reads)
	fmt.Fprintf(w, "  Writes:    %d\n", cs.Writes)
	fmt.Fprintf(w, "  Hits:      %d\n", cs.Hits)
	fmt.Fprintf(w, "  Misses:    %d\n", cs.Misses)
	fmt.Fprintf(w, "  Writebacks: %d\n", cs.Writebacks)
	fmt.Fprintf(w, "  Hit Rate:  %.1f%%\n", 100*cs.HitRate())
}
