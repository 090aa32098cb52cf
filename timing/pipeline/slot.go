// Package pipeline provides the 5-stage pipeline engine for RISC-16.
package pipeline

import "github.com/sarchlab/risc16sim/insts"

// StageName identifies one of the five pipeline stages.
type StageName int

// Pipeline stages in program order.
const (
	StageIF StageName = iota
	StageID
	StageEX
	StageMEM
	StageWB

	NumStages = 5
)

var stageNames = [NumStages]string{"IF", "ID", "EX", "MEM", "WB"}

var stageDescriptions = [NumStages]string{
	"Instruction Fetch: the instruction is read from instruction memory.",
	"Instruction Decode: the instruction is decoded and checked for hazards.",
	"Execute: arithmetic and logic operations are performed.",
	"Memory: data memory is read or written.",
	"Write Back: the result is written to the register file.",
}

// Stages returns all stage names in pipeline order.
func Stages() []StageName {
	return []StageName{StageIF, StageID, StageEX, StageMEM, StageWB}
}

// String returns the short stage name, e.g. "EX".
func (s StageName) String() string {
	if s < 0 || s >= NumStages {
		return "?"
	}
	return stageNames[s]
}

// Description returns a one-line description of what the stage does.
func (s StageName) Description() string {
	if s < 0 || s >= NumStages {
		return ""
	}
	return stageDescriptions[s]
}

// SlotKind is the variant held by a stage slot.
type SlotKind uint8

// Slot variants.
const (
	SlotEmpty SlotKind = iota
	SlotBubble
	SlotInstruction
)

// BubbleReason says why a bubble was inserted.
type BubbleReason uint8

// Bubble reasons.
const (
	BubbleNone BubbleReason = iota
	BubbleFlush
	BubbleStall
)

const (
	emptyText = "Empty"
	flushText = "NOP (Flush)"
)

// Slot is the content of one pipeline stage: empty, a bubble, or an
// in-flight instruction.
type Slot struct {
	Kind   SlotKind
	Reason BubbleReason // set for bubbles only

	// Text is the bubble label or the instruction text.
	Text string
	// Inst is the decoded instruction. Nil unless Kind is SlotInstruction.
	Inst *insts.Instruction
	// Addr is the slot the instruction was fetched from, or -1.
	Addr int
}

// EmptySlot returns an empty slot.
func EmptySlot() Slot {
	return Slot{Kind: SlotEmpty, Text: emptyText, Addr: -1}
}

// FlushBubble returns the bubble left behind by a pipeline flush.
func FlushBubble() Slot {
	return Slot{Kind: SlotBubble, Reason: BubbleFlush, Text: flushText, Addr: -1}
}

// StallBubble returns the bubble inserted into EX while waiting names the
// instruction held in ID.
func StallBubble(waiting string) Slot {
	return Slot{
		Kind:   SlotBubble,
		Reason: BubbleStall,
		Text:   "STALL (Wait: " + waiting + ")",
		Addr:   -1,
	}
}

// InFlight returns a slot carrying inst fetched from slot addr.
func InFlight(inst *insts.Instruction, addr int) Slot {
	return Slot{Kind: SlotInstruction, Text: inst.Text, Inst: inst, Addr: addr}
}

// IsEmpty returns true if the slot holds nothing.
func (s Slot) IsEmpty() bool {
	return s.Kind == SlotEmpty
}

// IsBubble returns true if the slot holds a flush or stall bubble.
func (s Slot) IsBubble() bool {
	return s.Kind == SlotBubble
}

// HasInstruction returns true if the slot holds an in-flight instruction.
func (s Slot) HasInstruction() bool {
	return s.Kind == SlotInstruction && s.Inst != nil
}

// String returns the slot text.
func (s Slot) String() string {
	if s.Kind == SlotEmpty {
		return emptyText
	}
	return s.Text
}
