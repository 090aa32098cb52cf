package pipeline

import (
	"slices"

	"github.com/sarchlab/risc16sim/insts"
)

// HazardUnit detects load-use hazards between the ID and EX stages.
//
// There is no forwarding network. Instructions take effect in WB, in
// program order, so a register read always sees every older instruction's
// result. The unit still models the classic one-cycle load-use stall: a load
// in EX whose destination is read by the instruction in ID.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// SourceRegs returns the registers inst is checked against for hazard
// purposes. Shifts and halt have none.
//
// For lw and sw the checked operand is the second one, which in
// offset(base) form is the offset. Neither the base nor sw's data register
// is compared, so a load feeding an address never stalls.
func SourceRegs(inst *insts.Instruction) []insts.Reg {
	switch inst.Op {
	case insts.OpADD, insts.OpSUB, insts.OpAND, insts.OpOR, insts.OpSLT,
		insts.OpBEQ, insts.OpBNE:
		return []insts.Reg{inst.Rs, inst.Rt}
	case insts.OpADDI, insts.OpJR:
		return []insts.Reg{inst.Rs}
	case insts.OpLW, insts.OpSW:
		if len(inst.Operands) < 2 {
			return nil
		}
		if r, err := insts.ParseReg(inst.Operands[1]); err == nil {
			return []insts.Reg{r}
		}
	}
	return nil
}

// DetectLoadUseHazard returns true if the instruction in ID must wait one
// cycle for the load in EX. It only looks at the slot contents and has no
// side effects. A producer already in MEM never causes a stall.
func (h *HazardUnit) DetectLoadUseHazard(id, ex, _ Slot) bool {
	if !id.HasInstruction() || !ex.HasInstruction() {
		return false
	}

	// A line with no operands cannot depend on anything.
	if len(id.Inst.Operands) == 0 {
		return false
	}

	if ex.Inst.Op != insts.OpLW {
		return false
	}

	dest := ex.Inst.WritesReg()
	if !dest.Valid() || dest == insts.RegZero {
		return false
	}

	return slices.Contains(SourceRegs(id.Inst), dest)
}
