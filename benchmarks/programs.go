package benchmarks

import (
	"github.com/sarchlab/risc16sim/emu"
)

// Programs returns the standard set of RISC-16 benchmark programs.
// Each program targets one pipeline behavior and ends with HALT.
func Programs() []Benchmark {
	return []Benchmark{
		straightLineALU(),
		loadUseChain(),
		branchLoop(),
		callReturn(),
		memoryCopy(),
		shifts(),
		branchOverAddi(),
	}
}

// ByName returns the benchmark with the given name.
func ByName(name string) (Benchmark, bool) {
	for _, b := range Programs() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// 1. Straight-line ALU - independent and dependent register operations
func straightLineALU() Benchmark {
	return Benchmark{
		Name:        "straight_line_alu",
		Description: "R-type and immediate arithmetic with no control flow",
		Source: `
			addi R1, R0, 12
			addi R2, R0, 5
			add  R3, R1, R2
			sub  R4, R1, R2
			and  R5, R1, R2
			or   R6, R1, R2
			slt  R7, R2, R1
			halt
		`,
		ExpectedRegs: [8]int16{0, 12, 5, 17, 7, 4, 13, 1},
	}
}

// 2. Load-use chain - every load feeds the next instruction
func loadUseChain() Benchmark {
	return Benchmark{
		Name:        "load_use_chain",
		Description: "loads consumed immediately, one stall per data use",
		Source: `
			addi R1, R0, 100
			sw   R1, 0(R0)
			lw   R2, 0(R0)
			add  R3, R2, R2     # stall
			sw   R3, 2(R0)
			lw   R4, 2(R0)
			addi R5, R4, 1      # stall
			lw   R6, 0(R0)
			sw   R6, 4(R6)      # address use, no stall
			lw   R7, 104(R0)
			halt
		`,
		ExpectedRegs: [8]int16{0, 100, 100, 200, 200, 201, 100, 100},
		ExpectedMemory: map[uint16]uint16{
			0:   100,
			2:   200,
			104: 100,
		},
	}
}

// 3. Branch loop - sum 1..10 with a backward BNE
func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "counted loop, one taken branch per iteration",
		Source: `
			addi R1, R0, 10
			addi R2, R0, 0
		loop:
			add  R2, R2, R1
			addi R1, R1, -1
			bne  R1, R0, loop
			halt
		`,
		ExpectedRegs: [8]int16{0, 0, 55, 0, 0, 0, 0, 0},
	}
}

// 4. Call/return - JAL links, JR returns
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "subroutine call through jal and return through jr",
		Source: `
			addi R1, R0, 3
			jal  R7, double
			addi R3, R2, 1
			halt
		double:
			add  R2, R1, R1
			jr   R7
		`,
		ExpectedRegs: [8]int16{0, 3, 6, 7, 0, 0, 0, 2},
	}
}

// 5. Memory copy - four halfwords from 0x00 to 0x40
func memoryCopy() Benchmark {
	return Benchmark{
		Name:        "memory_copy",
		Description: "word copy loop over data memory",
		Setup: func(memory *emu.Memory) {
			memory.Write16(0, 1)
			memory.Write16(2, 0xFFFE)
			memory.Write16(4, 300)
			memory.Write16(6, 0x7FFF)
		},
		Source: `
			addi R1, R0, 0
			addi R2, R0, 64
			addi R3, R0, 4
		copy:
			lw   R4, 0(R1)
			sw   R4, 0(R2)
			addi R1, R1, 2
			addi R2, R2, 2
			addi R3, R3, -1
			bne  R3, R0, copy
			halt
		`,
		ExpectedRegs: [8]int16{0, 8, 72, 0, 0x7FFF, 0, 0, 0},
		ExpectedMemory: map[uint16]uint16{
			64: 1,
			66: 0xFFFE,
			68: 300,
			70: 0x7FFF,
		},
	}
}

// 6. Shifts - sign changes through SLL, zero fill through SRL
func shifts() Benchmark {
	return Benchmark{
		Name:        "shifts",
		Description: "logical shifts across the sign bit",
		Setup: func(memory *emu.Memory) {
			memory.Write16(0, 0x4000)
		},
		Source: `
			addi R1, R0, 1
			sll  R2, R1, 15
			srl  R3, R2, 15
			addi R4, R0, -1
			srl  R5, R4, 4
			sll  R6, R4, 4
			lw   R7, 0(R0)
			sll  R7, R7, 1
			halt
		`,
		ExpectedRegs: [8]int16{0, 1, -32768, 1, -1, 4095, -16, -32768},
	}
}

// 7. Branch over ADDI - taken BEQ skips the instruction after it
func branchOverAddi() Benchmark {
	return Benchmark{
		Name:        "branch_over_addi",
		Description: "taken beq flushes the skipped addi before it retires",
		Source: `
		loop: addi R1, R0, 5
		      sub  R2, R1, R1
		      beq  R2, R0, done
		      addi R3, R0, 9
		done: halt
		`,
		ExpectedRegs: [8]int16{0, 5, 0, 0, 0, 0, 0, 0},
	}
}
