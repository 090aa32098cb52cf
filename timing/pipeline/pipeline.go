package pipeline

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/cache"
)

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger for execution faults, flushes and stalls.
func WithLogger(logger logr.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithWritebackFlush makes a flush clear WB as well. Without it the
// redirecting instruction stays in WB and is executed a second time on the
// following cycle.
func WithWritebackFlush() PipelineOption {
	return func(p *Pipeline) {
		p.flushWriteback = true
	}
}

// WithDCache attaches a data cache model that observes every LW and SW
// address.
func WithDCache(config cache.Config) PipelineOption {
	return func(p *Pipeline) {
		p.dcache = cache.New(config)
	}
}

// Pipeline implements a 5-stage in-order RISC-16 pipeline.
// Stages: Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB)
//
// Instructions take effect when they occupy WB. Each Tick performs exactly
// one of three actions, in priority order:
//   - Retire the WB instruction. If it redirects the program counter, IF
//     through MEM are flushed and the cycle ends without shifting.
//   - Stall for a load-use hazard: WB and MEM advance, EX gets a bubble, ID
//     and IF hold.
//   - Shift every stage forward and fetch into IF.
type Pipeline struct {
	slots [NumStages]Slot

	hazardUnit *HazardUnit
	exec       *emu.ExecUnit

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory
	program *loader.Program

	dcache *cache.Cache
	logger logr.Logger

	flushWriteback bool

	stats Statistics
}

// NewPipeline creates a new 5-stage pipeline with an empty program.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		hazardUnit: NewHazardUnit(),
		regFile:    regFile,
		memory:     memory,
		program:    loader.Parse(""),
		logger:     logr.Discard(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.exec = emu.NewExecUnit(regFile, memory, p.logger)
	p.exec.SetLabels(p.program)
	if p.dcache != nil {
		p.exec.SetMemoryObserver(p.dcache)
	}

	p.clearSlots()

	return p
}

// Load replaces the program, clears data memory and resets the pipeline.
func (p *Pipeline) Load(prog *loader.Program) {
	p.program = prog
	p.exec.SetLabels(prog)
	p.memory.Reset()
	p.Reset()
}

// Reset restores registers, PC, stage slots, counters and the cache model to
// their initial state. The program and data memory are kept.
func (p *Pipeline) Reset() {
	p.regFile.Reset()
	p.clearSlots()
	p.exec.ResetRetired()
	p.stats = Statistics{}

	if p.dcache != nil {
		p.dcache.Reset()
	}
}

func (p *Pipeline) clearSlots() {
	for i := range p.slots {
		p.slots[i] = EmptySlot()
	}
}

// Program returns the loaded program.
func (p *Pipeline) Program() *loader.Program {
	return p.program
}

// PC returns the fetch program counter.
func (p *Pipeline) PC() int {
	return p.regFile.PC
}

// RegFile returns the register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Memory returns the data memory.
func (p *Pipeline) Memory() *emu.Memory {
	return p.memory
}

// Slot returns the content of one stage.
func (p *Pipeline) Slot(stage StageName) Slot {
	return p.slots[stage]
}

// Slots returns a copy of all stage slots, indexed by StageName.
func (p *Pipeline) Slots() [NumStages]Slot {
	return p.slots
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// CacheStats returns the data cache statistics. Enabled is false if no
// cache is attached.
func (p *Pipeline) CacheStats() CacheStatistics {
	if p.dcache == nil {
		return CacheStatistics{}
	}
	return CacheStatistics{Enabled: true, Statistics: p.dcache.Stats()}
}

// Finished returns true if no stage holds an instruction and there is
// nothing left to fetch.
func (p *Pipeline) Finished() bool {
	for _, s := range p.slots {
		if s.HasInstruction() {
			return false
		}
	}
	return p.program.At(p.regFile.PC) == nil
}

// Run ticks the pipeline until it finishes or maxCycles cycles have been
// simulated in this call. A maxCycles of 0 means no limit. Returns true if
// the pipeline finished.
func (p *Pipeline) Run(maxCycles uint64) bool {
	for n := uint64(0); maxCycles == 0 || n < maxCycles; n++ {
		if !p.Tick() {
			return true
		}
	}
	return p.Finished()
}

// RunCycles executes the pipeline for the specified number of cycles.
// Returns true if still running, false if finished.
func (p *Pipeline) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles; i++ {
		if !p.Tick() {
			return false
		}
	}
	return !p.Finished()
}

// Tick executes one pipeline cycle. It returns false, doing nothing, if the
// pipeline has finished.
func (p *Pipeline) Tick() bool {
	if p.Finished() {
		return false
	}

	p.cycle()

	// Dirty lines are written back once the program has drained.
	if p.dcache != nil && p.Finished() {
		p.dcache.Flush()
	}

	return true
}

func (p *Pipeline) cycle() {
	if p.retire() {
		p.stats.Cycles++
		return
	}

	id, ex, mem := p.slots[StageID], p.slots[StageEX], p.slots[StageMEM]
	if p.hazardUnit.DetectLoadUseHazard(id, ex, mem) {
		p.stall()
		return
	}

	p.shift()
}

// retire executes the WB instruction. It returns true if the instruction
// moved the program counter, which ends the cycle.
//
// A flush alone does not end the cycle. When the target equals the current
// fetch PC, or when a redirecting instruction left in WB is executed again,
// the cycle goes on to the hazard check and a normal shift.
func (p *Pipeline) retire() bool {
	wb := p.slots[StageWB]
	if !wb.HasInstruction() {
		return false
	}

	oldPC := p.regFile.PC
	result := p.exec.Execute(wb.Inst, wb.Addr)
	p.stats.Instructions = p.exec.Retired()

	if !result.Flush {
		return false
	}

	p.flush()

	return p.regFile.PC != oldPC
}

func (p *Pipeline) flush() {
	last := StageMEM
	if p.flushWriteback {
		last = StageWB
	}

	for s := StageIF; s <= last; s++ {
		p.slots[s] = FlushBubble()
	}

	p.stats.Flushes++
	p.logger.V(1).Info("pipeline flushed", "pc", p.regFile.PC, "cycle", p.stats.Cycles+1)
}

func (p *Pipeline) stall() {
	p.stats.Stalls++
	p.stats.Cycles++

	waiting := p.slots[StageID]

	p.slots[StageWB] = p.slots[StageMEM]
	p.slots[StageMEM] = p.slots[StageEX]
	p.slots[StageEX] = StallBubble(waiting.String())

	p.logger.V(1).Info("load-use stall", "waiting", waiting.String(), "cycle", p.stats.Cycles)
}

func (p *Pipeline) shift() {
	p.stats.Cycles++

	for s := StageWB; s > StageIF; s-- {
		p.slots[s] = p.slots[s-1]
	}

	p.fetch()
}

func (p *Pipeline) fetch() {
	pc := p.regFile.PC

	inst := p.program.At(pc)
	if inst == nil {
		p.slots[StageIF] = EmptySlot()
		return
	}

	p.slots[StageIF] = InFlight(inst, pc)
	p.regFile.PC = pc + 1
}

// Registers returns a copy of the register values.
func (p *Pipeline) Registers() [insts.NumRegs]int16 {
	return p.regFile.Snapshot()
}

// MemoryDump returns a copy of the first limit bytes of data memory.
func (p *Pipeline) MemoryDump(limit int) []byte {
	return p.memory.Dump(limit)
}
