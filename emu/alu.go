package emu

import (
	"fmt"

	"github.com/sarchlab/risc16sim/insts"
)

// ALU implements RISC-16 arithmetic, logic and shift operations.
// All results are reduced to signed 16 bits.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs Rd = Rs + Rt
func (a *ALU) ADD(rd, rs, rt insts.Reg) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)+a.regFile.ReadReg(rt))
}

// SUB performs Rd = Rs - Rt
func (a *ALU) SUB(rd, rs, rt insts.Reg) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)-a.regFile.ReadReg(rt))
}

// AND performs Rd = Rs & Rt
func (a *ALU) AND(rd, rs, rt insts.Reg) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)&a.regFile.ReadReg(rt))
}

// OR performs Rd = Rs | Rt
func (a *ALU) OR(rd, rs, rt insts.Reg) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)|a.regFile.ReadReg(rt))
}

// SLT performs Rd = (Rs < Rt) ? 1 : 0 using a signed comparison.
func (a *ALU) SLT(rd, rs, rt insts.Reg) {
	var result int16
	if a.regFile.ReadReg(rs) < a.regFile.ReadReg(rt) {
		result = 1
	}
	a.regFile.WriteReg(rd, result)
}

// ADDI performs Rd = Rs + imm. The immediate is taken modulo 2^16, which is
// the same as sign-extending its low 16 bits.
func (a *ALU) ADDI(rd, rs insts.Reg, imm int64) {
	a.regFile.WriteReg(rd, ToSigned16(int64(a.regFile.ReadReg(rs))+imm))
}

// SLL performs Rd = Rs << shamt. Bits shifted into bit 15 change the sign.
func (a *ALU) SLL(rd, rs insts.Reg, shamt int64) error {
	if shamt < 0 {
		return fmt.Errorf("negative shift amount %d", shamt)
	}
	a.regFile.WriteReg(rd, int16(uint16(a.regFile.ReadReg(rs))<<uint64(shamt)))
	return nil
}

// SRL performs a logical right shift: Rs is zero-extended from 16 bits
// before shifting.
func (a *ALU) SRL(rd, rs insts.Reg, shamt int64) error {
	if shamt < 0 {
		return fmt.Errorf("negative shift amount %d", shamt)
	}
	a.regFile.WriteReg(rd, int16(uint16(a.regFile.ReadReg(rs))>>uint64(shamt)))
	return nil
}
