// Package insts provides RISC-16 instruction definitions and decoding.
//
// RISC-16 programs are plain text. Each instruction is a mnemonic followed by
// operands separated by whitespace, commas or parentheses. The package decodes
// that text once into a structured Instruction so that later consumers (the
// hazard unit, the execution unit) never re-tokenize. It supports:
//   - Register arithmetic/logic: ADD, SUB, AND, OR, SLT
//   - Immediate arithmetic and shifts: ADDI, SLL, SRL
//   - Memory: LW, SW with offset(base) addressing
//   - Control transfer: J, JAL, JR, BEQ, BNE, HALT
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode("addi R1, R0, 5")
//	fmt.Printf("Op: %v, Rd: %v, Rs: %v, Imm: %d\n", inst.Op, inst.Rd, inst.Rs, inst.Imm)
package insts
