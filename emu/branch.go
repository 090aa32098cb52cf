package emu

import (
	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
)

// HaltPC is the program counter value written by HALT. It is the first slot
// past instruction memory, so nothing more is fetched.
const HaltPC = loader.MaxInstructions

// BranchUnit implements RISC-16 control transfer. Targets are instruction
// slot indices, not byte addresses.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// J performs an unconditional jump to a slot.
func (b *BranchUnit) J(target int) {
	b.regFile.PC = target
}

// JAL saves the slot after the jump (fetchPC + 1) in rd, then jumps.
func (b *BranchUnit) JAL(rd insts.Reg, fetchPC, target int) {
	b.regFile.WriteReg(rd, int16(fetchPC+1))
	b.regFile.PC = target
}

// JR jumps to the slot held in rs.
func (b *BranchUnit) JR(rs insts.Reg) {
	b.regFile.PC = int(b.regFile.ReadReg(rs))
}

// BEQ reports whether Rs == Rt and, if so, jumps to target.
func (b *BranchUnit) BEQ(rs, rt insts.Reg, target int) bool {
	if b.regFile.ReadReg(rs) != b.regFile.ReadReg(rt) {
		return false
	}
	b.regFile.PC = target
	return true
}

// BNE reports whether Rs != Rt and, if so, jumps to target.
func (b *BranchUnit) BNE(rs, rt insts.Reg, target int) bool {
	if b.regFile.ReadReg(rs) == b.regFile.ReadReg(rt) {
		return false
	}
	b.regFile.PC = target
	return true
}

// HALT moves the program counter past instruction memory.
func (b *BranchUnit) HALT() {
	b.regFile.PC = HaltPC
}
