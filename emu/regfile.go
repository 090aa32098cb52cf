// Package emu provides functional RISC-16 emulation.
package emu

import "github.com/sarchlab/risc16sim/insts"

// RegFile represents the RISC-16 architectural register state.
// It contains 8 signed 16-bit registers (R0-R7) and the program counter.
type RegFile struct {
	// R holds the general-purpose registers.
	// R[0] is hardwired to zero.
	R [insts.NumRegs]int16

	// PC is the fetch pointer, an instruction slot index.
	PC int
}

// ReadReg reads a register value. R0 and invalid registers return 0.
func (r *RegFile) ReadReg(reg insts.Reg) int16 {
	if reg <= insts.RegZero || !reg.Valid() {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to R0 and invalid registers
// are ignored.
func (r *RegFile) WriteReg(reg insts.Reg, value int16) {
	if reg <= insts.RegZero || !reg.Valid() {
		return
	}
	r.R[reg] = value
}

// Snapshot returns a copy of the register values.
func (r *RegFile) Snapshot() [insts.NumRegs]int16 {
	return r.R
}

// Reset clears all registers and the program counter.
func (r *RegFile) Reset() {
	*r = RegFile{}
}

// ToSigned16 reduces a value to a signed 16-bit quantity with two's
// complement wraparound.
func ToSigned16(v int64) int16 {
	return int16(uint16(v))
}
