package emu

import "github.com/sarchlab/risc16sim/insts"

// LoadStoreUnit implements RISC-16 load and store operations.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// LW performs a halfword load: Rd = sign_extend(mem[Rs + offset]).
// Returns the effective address.
func (lsu *LoadStoreUnit) LW(rd, rs insts.Reg, offset int64) uint16 {
	addr := EffectiveAddress(lsu.regFile.ReadReg(rs), offset)
	lsu.regFile.WriteReg(rd, int16(lsu.memory.Read16(addr)))
	return addr
}

// SW performs a halfword store: mem[Rs + offset] = Rt.
// Returns the effective address.
func (lsu *LoadStoreUnit) SW(rt, rs insts.Reg, offset int64) uint16 {
	addr := EffectiveAddress(lsu.regFile.ReadReg(rs), offset)
	lsu.memory.Write16(addr, uint16(lsu.regFile.ReadReg(rt)))
	return addr
}
