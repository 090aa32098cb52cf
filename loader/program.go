// Package loader provides assembly program loading for RISC-16.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/risc16sim/insts"
)

// MaxInstructions is the capacity of instruction memory. Instructions beyond
// it are discarded.
const MaxInstructions = 512

const (
	commentMarker = "#"
	labelMarker   = ":"
)

// Program represents a loaded program ready for execution.
type Program struct {
	// Instructions holds the decoded instruction memory in slot order.
	// Slots at or past len(Instructions) are empty.
	Instructions []*insts.Instruction
	// Labels maps a label name to the instruction slot it denotes.
	Labels map[string]int
}

// Parse builds a Program from assembly source. Comments start at '#' and
// run to the end of the line. A "name:" prefix defines a label that points
// at the slot the next instruction will occupy, so a label on its own line
// names the following instruction.
func Parse(source string) *Program {
	decoder := insts.NewDecoder()
	prog := &Program{Labels: make(map[string]int)}

	var lines []string
	for _, line := range strings.Split(source, "\n") {
		line, _, _ = strings.Cut(line, commentMarker)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, rest, ok := strings.Cut(line, labelMarker); ok {
			prog.Labels[strings.TrimSpace(name)] = len(lines)
			line = strings.TrimSpace(rest)
		}

		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) > MaxInstructions {
		lines = lines[:MaxInstructions]
	}

	prog.Instructions = make([]*insts.Instruction, len(lines))
	for i, line := range lines {
		prog.Instructions[i] = decoder.Decode(line)
	}

	return prog
}

// Load reads and parses an assembly source file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	return Parse(string(data)), nil
}

// Len returns the number of occupied instruction slots.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// At returns the instruction in slot pc, or nil if the slot is empty or out
// of range.
func (p *Program) At(pc int) *insts.Instruction {
	if pc < 0 || pc >= len(p.Instructions) {
		return nil
	}
	return p.Instructions[pc]
}

// Resolve returns the slot index of a label.
func (p *Program) Resolve(label string) (int, bool) {
	slot, ok := p.Labels[label]
	return slot, ok
}
