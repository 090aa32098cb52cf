package emu

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/risc16sim/loader"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the program executed HALT or ran past its last
	// instruction.
	Halted bool

	// Err is set if the instruction faulted. Execution may continue.
	Err error
}

// Emulator executes RISC-16 programs functionally, one instruction per
// step, without modeling the pipeline.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	program *loader.Program
	exec    *ExecUnit
	logger  logr.Logger

	maxInstructions uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets the logger that receives execution faults.
func WithLogger(logger logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMaxInstructions sets the maximum number of instructions Run executes.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new RISC-16 emulator with an empty program.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		program: loader.Parse(""),
		logger:  logr.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.exec = NewExecUnit(e.regFile, e.memory, e.logger)
	e.exec.SetLabels(e.program)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's data memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.exec.Retired()
}

// LoadProgram replaces the program and resets registers, memory and
// counters.
func (e *Emulator) LoadProgram(prog *loader.Program) {
	e.program = prog
	e.exec.SetLabels(prog)
	e.memory.Reset()
	e.Reset()
}

// Reset restores registers, PC and the instruction count. The program and
// data memory are kept.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.exec.ResetRetired()
}

// Step executes the instruction at PC.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC
	inst := e.program.At(pc)
	if inst == nil {
		return StepResult{Halted: true}
	}

	e.regFile.PC = pc + 1
	result := e.exec.Execute(inst, pc)

	return StepResult{Halted: result.Halted, Err: result.Err}
}

// Run executes instructions until the program halts. Faulting instructions
// are skipped. Returns an error only if the instruction limit is reached.
func (e *Emulator) Run() error {
	for {
		if e.maxInstructions > 0 && e.exec.Retired() >= e.maxInstructions {
			return fmt.Errorf("max instructions reached (%d)", e.maxInstructions)
		}

		if e.Step().Halted {
			return nil
		}
	}
}
