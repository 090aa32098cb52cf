// Package insts provides RISC-16 instruction definitions and decoding.
package insts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op represents a RISC-16 opcode.
type Op uint8

// RISC-16 opcodes.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpAND
	OpOR
	OpSLT
	OpADDI
	OpLW
	OpSW
	OpJ
	OpJAL
	OpJR
	OpBEQ
	OpBNE
	OpSLL
	OpSRL
	OpHALT
)

var opNames = map[string]Op{
	"add":  OpADD,
	"sub":  OpSUB,
	"and":  OpAND,
	"or":   OpOR,
	"slt":  OpSLT,
	"addi": OpADDI,
	"lw":   OpLW,
	"sw":   OpSW,
	"j":    OpJ,
	"jal":  OpJAL,
	"jr":   OpJR,
	"beq":  OpBEQ,
	"bne":  OpBNE,
	"sll":  OpSLL,
	"srl":  OpSRL,
	"halt": OpHALT,
}

// String returns the lower-case mnemonic of the opcode.
func (o Op) String() string {
	for name, op := range opNames {
		if op == o {
			return name
		}
	}
	return "unknown"
}

// Format represents an operand layout.
type Format uint8

// Operand layouts.
const (
	FormatUnknown  Format = iota
	FormatReg             // rd, rs, rt
	FormatImm             // rd, rs, imm (addi, sll, srl)
	FormatMem             // rt, offset(rs)
	FormatJump            // label
	FormatJumpLink        // rd, label
	FormatJumpReg         // rs
	FormatBranch          // rs, rt, label
	FormatNone            // no operands (halt)
)

// Decode errors. They are wrapped with operand detail and stored in
// Instruction.Err.
var (
	ErrMissingOperand  = errors.New("missing operand")
	ErrUnknownRegister = errors.New("unknown register")
	ErrBadImmediate    = errors.New("bad immediate")
)

// Instruction represents a decoded RISC-16 instruction.
type Instruction struct {
	// Text is the instruction as written in the program.
	Text string

	Op     Op     // Operation code
	Format Format // Operand layout

	// Mnemonic is the lower-cased first token, kept for unknown opcodes.
	Mnemonic string
	// Operands are the tokens following the mnemonic after ',', '(' and ')'
	// have been treated as separators.
	Operands []string

	Rd Reg // Destination register (rd of R-type, rt of addi/lw, link of jal)
	Rs Reg // First source register (base register for lw/sw)
	Rt Reg // Second source register (data register for sw)

	Imm   int64  // Immediate, memory offset or shift amount
	Label string // Control transfer target label

	// Err is set if an operand could not be decoded. Fields decoded before
	// the failing operand remain populated.
	Err error
}

// String returns the instruction text.
func (i *Instruction) String() string {
	return i.Text
}

// WritesReg returns the destination register of instructions that produce a
// register value, or NoReg.
func (i *Instruction) WritesReg() Reg {
	switch i.Format {
	case FormatReg, FormatImm, FormatJumpLink:
		return i.Rd
	case FormatMem:
		if i.Op == OpLW {
			return i.Rd
		}
	}
	return NoReg
}

// IsControl returns true for instructions that may redirect the program
// counter.
func (i *Instruction) IsControl() bool {
	switch i.Format {
	case FormatJump, FormatJumpLink, FormatJumpReg, FormatBranch:
		return true
	}
	return i.Op == OpHALT
}

// Tokenize splits instruction text into tokens, treating whitespace, ',',
// '(' and ')' as separators.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', '(', ')', ' ', '\t', '\n', '\r', '\v', '\f':
			return true
		}
		return false
	})
}

// Decoder decodes RISC-16 assembly text into instructions.
type Decoder struct{}

// NewDecoder creates a new RISC-16 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes one line of instruction text. It never fails outright:
// unknown mnemonics yield OpUnknown and malformed operands are reported in
// Instruction.Err.
func (d *Decoder) Decode(text string) *Instruction {
	inst := &Instruction{
		Text:   text,
		Op:     OpUnknown,
		Format: FormatUnknown,
		Rd:     NoReg,
		Rs:     NoReg,
		Rt:     NoReg,
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return inst
	}

	inst.Mnemonic = strings.ToLower(tokens[0])
	inst.Operands = tokens[1:]

	op, ok := opNames[inst.Mnemonic]
	if !ok {
		return inst
	}
	inst.Op = op

	switch op {
	case OpADD, OpSUB, OpAND, OpOR, OpSLT:
		inst.Format = FormatReg
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rd), regField(&inst.Rs), regField(&inst.Rt))
	case OpADDI, OpSLL, OpSRL:
		inst.Format = FormatImm
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rd), regField(&inst.Rs), immField(&inst.Imm))
	case OpLW:
		inst.Format = FormatMem
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rd), immField(&inst.Imm), regField(&inst.Rs))
	case OpSW:
		inst.Format = FormatMem
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rt), immField(&inst.Imm), regField(&inst.Rs))
	case OpJ:
		inst.Format = FormatJump
		inst.Err = d.decodeOperands(inst, labelField(&inst.Label))
	case OpJAL:
		inst.Format = FormatJumpLink
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rd), labelField(&inst.Label))
	case OpJR:
		inst.Format = FormatJumpReg
		inst.Err = d.decodeOperands(inst, regField(&inst.Rs))
	case OpBEQ, OpBNE:
		inst.Format = FormatBranch
		inst.Err = d.decodeOperands(inst,
			regField(&inst.Rs), regField(&inst.Rt), labelField(&inst.Label))
	case OpHALT:
		inst.Format = FormatNone
	}

	return inst
}

// operandField decodes one operand token into an Instruction field.
type operandField func(tok string) error

func regField(dst *Reg) operandField {
	return func(tok string) error {
		r, err := ParseReg(tok)
		if err != nil {
			return err
		}
		*dst = r
		return nil
	}
}

func immField(dst *int64) operandField {
	return func(tok string) error {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadImmediate, tok)
		}
		*dst = v
		return nil
	}
}

func labelField(dst *string) operandField {
	return func(tok string) error {
		*dst = tok
		return nil
	}
}

// decodeOperands applies fields to the operand tokens in order. Every field
// is attempted so that valid register operands are known even when an
// earlier one is malformed; the first error is returned. Extra operands are
// ignored.
func (d *Decoder) decodeOperands(inst *Instruction, fields ...operandField) error {
	var first error
	for i, field := range fields {
		var err error
		if i >= len(inst.Operands) {
			err = fmt.Errorf("%w: operand %d of %s", ErrMissingOperand, i+1, inst.Mnemonic)
		} else {
			err = field(inst.Operands[i])
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}
