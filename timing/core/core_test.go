package core_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/core"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

var _ = Describe("Core", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		c       *core.Core
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
		c = core.NewCore(regFile, memory,
			core.WithPipelineOptions(pipeline.WithLogger(GinkgoLogr)))
	})

	It("should create a core with pipeline", func() {
		Expect(c).NotTo(BeNil())
		Expect(c.Pipeline).NotTo(BeNil())
	})

	It("should be finished with no program", func() {
		Expect(c.Finished()).To(BeTrue())
		Expect(c.Tick()).To(BeFalse())
	})

	It("should execute instructions through tick", func() {
		c.Load(loader.Parse("addi R1, R0, 42"))

		for i := 0; i < 10; i++ {
			c.Tick()
		}

		Expect(regFile.R[1]).To(Equal(int16(42)))
		Expect(c.Finished()).To(BeTrue())
	})

	It("should return stats", func() {
		c.Load(loader.Parse("addi R1, R0, 42\naddi R2, R0, 1"))
		c.Tick()
		c.Tick()

		stats := c.Stats()
		Expect(stats.Cycles).To(Equal(uint64(2)))
		Expect(stats.Instructions).To(BeZero())
		Expect(stats.CPI).To(BeZero())
	})

	It("should run to completion and compute metrics", func() {
		c.Load(loader.Parse(`
			addi R1, R0, 5
			sub  R2, R1, R1
			beq  R2, R0, done
			addi R3, R0, 9
		done:
			halt
		`))

		Expect(c.Run(0)).To(BeTrue())

		stats := c.Stats()
		Expect(stats.Cycles).To(Equal(uint64(15)))
		Expect(stats.Instructions).To(Equal(uint64(6)))
		Expect(stats.CPI).To(Equal(2.5))
		Expect(stats.IPC).To(Equal(0.4))
	})

	It("should stop at the cycle cap", func() {
		c.Load(loader.Parse("spin: j spin"))

		Expect(c.Run(50)).To(BeFalse())
		Expect(c.Stats().Cycles).To(Equal(uint64(50)))
	})

	It("should run for specified cycles and return running status", func() {
		c.Load(loader.Parse("addi R1, R1, 1\naddi R1, R1, 1\naddi R1, R1, 1"))

		Expect(c.RunCycles(5)).To(BeTrue())
		Expect(c.Stats().Cycles).To(Equal(uint64(5)))

		Expect(c.RunCycles(100)).To(BeFalse())
		Expect(regFile.ReadReg(1)).To(Equal(int16(3)))
	})

	It("should reset core state", func() {
		c.Load(loader.Parse("addi R1, R0, 1"))
		for i := 0; i < 3; i++ {
			c.Tick()
		}
		Expect(c.Stats().Cycles).To(BeNumerically(">", 0))

		c.Reset()

		statsAfterReset := c.Stats()
		Expect(statsAfterReset.Cycles).To(Equal(uint64(0)))
		Expect(statsAfterReset.Instructions).To(Equal(uint64(0)))
		Expect(c.Finished()).To(BeFalse())
	})

	Describe("Snapshot", func() {
		It("should capture registers, slots, memory and metrics", func() {
			c = core.NewCore(regFile, memory, core.WithMemoryWindow(4))
			c.Load(loader.Parse("addi R1, R0, 258\nsw R1, 2(R0)"))
			Expect(c.Run(0)).To(BeTrue())

			snap := c.Snapshot()
			Expect(snap.Registers[1]).To(Equal(int16(258)))
			Expect(snap.Memory).To(Equal([]byte{0, 0, 1, 2}))
			Expect(snap.Stats.Instructions).To(Equal(uint64(2)))
			Expect(snap.Finished).To(BeTrue())
			Expect(snap.PC).To(Equal(2))
			Expect(snap.Cache.Enabled).To(BeFalse())
			for _, s := range snap.Slots {
				Expect(s.HasInstruction()).To(BeFalse())
			}
		})

		It("should default to a 32 byte memory window", func() {
			Expect(c.Snapshot().Memory).To(HaveLen(core.DefaultMemoryWindow))
		})

		It("should include cache statistics when enabled", func() {
			c = core.NewCore(regFile, memory, core.WithPipelineOptions(
				pipeline.WithDCache(cache.DefaultConfig())))
			c.Load(loader.Parse("lw R1, 0(R0)"))
			c.Run(0)

			snap := c.Snapshot()
			Expect(snap.Cache.Enabled).To(BeTrue())
			Expect(snap.Cache.Reads).To(Equal(uint64(1)))
		})

		It("should not share memory with the core", func() {
			snap := c.Snapshot()
			snap.Memory[0] = 0xFF
			Expect(memory.Read8(0)).To(Equal(byte(0)))
		})
	})

	Describe("Autostep", func() {
		BeforeEach(func() {
			c.Load(loader.Parse("addi R1, R0, 1\naddi R2, R0, 2"))
		})

		It("should step until finished", func() {
			var cycles []uint64
			err := c.Autostep(context.Background(), time.Millisecond,
				func(s core.Snapshot) bool {
					cycles = append(cycles, s.Stats.Cycles)
					return true
				})

			Expect(err).NotTo(HaveOccurred())
			Expect(c.Finished()).To(BeTrue())
			Expect(cycles).To(Equal([]uint64{1, 2, 3, 4, 5, 6, 7}))
			Expect(regFile.ReadReg(2)).To(Equal(int16(2)))
		})

		It("should stop when the callback declines", func() {
			err := c.Autostep(context.Background(), time.Millisecond,
				func(s core.Snapshot) bool {
					return s.Stats.Cycles < 3
				})

			Expect(err).NotTo(HaveOccurred())
			Expect(c.Stats().Cycles).To(Equal(uint64(3)))
			Expect(c.Finished()).To(BeFalse())
		})

		It("should stop when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := c.Autostep(ctx, time.Hour, nil)

			Expect(err).To(MatchError(context.Canceled))
			Expect(c.Stats().Cycles).To(BeZero())
		})

		It("should reject a non-positive interval", func() {
			Expect(c.Autostep(context.Background(), 0, nil)).
				To(MatchError(core.ErrInvalidInterval))
			Expect(c.Autostep(context.Background(), -time.Second, nil)).
				To(MatchError(core.ErrInvalidInterval))
			Expect(c.Stats().Cycles).To(BeZero())
		})

		It("should return immediately when already finished", func() {
			Expect(c.Run(0)).To(BeTrue())
			called := false

			err := c.Autostep(context.Background(), time.Millisecond,
				func(core.Snapshot) bool {
					called = true
					return true
				})

			Expect(err).NotTo(HaveOccurred())
			Expect(called).To(BeFalse())
		})
	})
})
