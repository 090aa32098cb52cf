package insts

import (
	"fmt"
	"strconv"
	"strings"
)

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// Reg identifies a general-purpose register R0-R7.
type Reg int8

const (
	// NoReg marks an operand that is absent or failed to decode.
	NoReg Reg = -1
	// RegZero is R0, hardwired to zero.
	RegZero Reg = 0
)

// Valid reports whether r names one of R0-R7.
func (r Reg) Valid() bool {
	return r >= 0 && r < NumRegs
}

// String returns the assembly name of the register.
func (r Reg) String() string {
	if !r.Valid() {
		return "R?"
	}
	return "R" + strconv.Itoa(int(r))
}

// ParseReg parses a register name. Only the upper-case R0-R7 spelling is
// accepted.
func ParseReg(s string) (Reg, error) {
	num, ok := strings.CutPrefix(s, "R")
	if !ok || len(num) != 1 || num[0] < '0' || num[0] > '7' {
		return NoReg, fmt.Errorf("%w: %q", ErrUnknownRegister, s)
	}
	return Reg(num[0] - '0'), nil
}
