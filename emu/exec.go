package emu

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/risc16sim/insts"
)

// LabelResolver maps a label to the instruction slot it denotes.
// *loader.Program implements it.
type LabelResolver interface {
	Resolve(label string) (int, bool)
}

// MemoryObserver is notified of every data memory access with its effective
// address. It must not modify architectural state.
type MemoryObserver interface {
	ObserveRead(addr uint16)
	ObserveWrite(addr uint16)
}

// ExecResult describes the effect of executing one instruction.
type ExecResult struct {
	// Flush is true if a control transfer was taken and younger in-flight
	// instructions must be discarded.
	Flush bool

	// Halted is true if the instruction was HALT.
	Halted bool

	// Err is set if the instruction could not be executed. The fault has
	// already been reported to the logger.
	Err error
}

// ExecUnit applies decoded instructions to the register file, memory and
// program counter. Register reads always see the committed register file.
type ExecUnit struct {
	regFile *RegFile
	memory  *Memory

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	labels   LabelResolver
	observer MemoryObserver
	logger   logr.Logger

	retired uint64
}

// NewExecUnit creates an execution unit over the given state. Faults are
// reported to logger.
func NewExecUnit(regFile *RegFile, memory *Memory, logger logr.Logger) *ExecUnit {
	return &ExecUnit{
		regFile:    regFile,
		memory:     memory,
		alu:        NewALU(regFile),
		lsu:        NewLoadStoreUnit(regFile, memory),
		branchUnit: NewBranchUnit(regFile),
		logger:     logger,
	}
}

// SetLabels sets the label table used by J, JAL, BEQ and BNE.
func (u *ExecUnit) SetLabels(labels LabelResolver) {
	u.labels = labels
}

// SetMemoryObserver attaches an observer for LW/SW addresses. A nil
// observer detaches it.
func (u *ExecUnit) SetMemoryObserver(observer MemoryObserver) {
	u.observer = observer
}

// Retired returns the number of instructions executed since the last
// ResetRetired.
func (u *ExecUnit) Retired() uint64 {
	return u.retired
}

// ResetRetired clears the retired instruction counter.
func (u *ExecUnit) ResetRetired() {
	u.retired = 0
}

// Execute applies inst, fetched from slot fetchPC. The instruction counts as
// retired whatever happens, and R0 reads zero afterwards.
func (u *ExecUnit) Execute(inst *insts.Instruction, fetchPC int) (result ExecResult) {
	u.retired++

	defer func() {
		u.regFile.R[insts.RegZero] = 0

		if result.Err != nil {
			u.logger.Error(result.Err, "execute failed",
				"inst", inst.Text, "op", inst.Mnemonic, "pc", fetchPC)
		}
	}()

	if inst.Err != nil {
		return ExecResult{Err: inst.Err}
	}

	if inst.IsControl() {
		return u.executeControl(inst, fetchPC)
	}

	switch inst.Format {
	case insts.FormatReg:
		u.executeReg(inst)
	case insts.FormatImm:
		return ExecResult{Err: u.executeImm(inst)}
	case insts.FormatMem:
		u.executeMem(inst)
	}

	return ExecResult{}
}

func (u *ExecUnit) executeReg(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpADD:
		u.alu.ADD(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSUB:
		u.alu.SUB(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpAND:
		u.alu.AND(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpOR:
		u.alu.OR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLT:
		u.alu.SLT(inst.Rd, inst.Rs, inst.Rt)
	}
}

func (u *ExecUnit) executeImm(inst *insts.Instruction) error {
	switch inst.Op {
	case insts.OpADDI:
		u.alu.ADDI(inst.Rd, inst.Rs, inst.Imm)
	case insts.OpSLL:
		return u.alu.SLL(inst.Rd, inst.Rs, inst.Imm)
	case insts.OpSRL:
		return u.alu.SRL(inst.Rd, inst.Rs, inst.Imm)
	}
	return nil
}

func (u *ExecUnit) executeMem(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpLW:
		addr := u.lsu.LW(inst.Rd, inst.Rs, inst.Imm)
		if u.observer != nil {
			u.observer.ObserveRead(addr)
		}
	case insts.OpSW:
		addr := u.lsu.SW(inst.Rt, inst.Rs, inst.Imm)
		if u.observer != nil {
			u.observer.ObserveWrite(addr)
		}
	}
}

// executeControl sets Flush if the transfer was taken. Transfers to an
// unknown label are skipped.
func (u *ExecUnit) executeControl(inst *insts.Instruction, fetchPC int) ExecResult {
	switch inst.Op {
	case insts.OpHALT:
		u.branchUnit.HALT()
		return ExecResult{Flush: true, Halted: true}
	case insts.OpJR:
		u.branchUnit.JR(inst.Rs)
		return ExecResult{Flush: true}
	}

	target, ok := u.resolve(inst.Label)
	if !ok {
		u.logger.V(1).Info("unresolved label", "label", inst.Label, "pc", fetchPC)
		return ExecResult{}
	}

	switch inst.Op {
	case insts.OpJ:
		u.branchUnit.J(target)
		return ExecResult{Flush: true}
	case insts.OpJAL:
		u.branchUnit.JAL(inst.Rd, fetchPC, target)
		return ExecResult{Flush: true}
	case insts.OpBEQ:
		return ExecResult{Flush: u.branchUnit.BEQ(inst.Rs, inst.Rt, target)}
	case insts.OpBNE:
		return ExecResult{Flush: u.branchUnit.BNE(inst.Rs, inst.Rt, target)}
	}

	return ExecResult{}
}

func (u *ExecUnit) resolve(label string) (int, bool) {
	if u.labels == nil {
		return 0, false
	}
	return u.labels.Resolve(label)
}
