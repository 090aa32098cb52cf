package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/insts"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read back written values", func() {
		regFile.WriteReg(3, -42)
		Expect(regFile.ReadReg(3)).To(Equal(int16(-42)))
	})

	It("should discard writes to R0", func() {
		regFile.WriteReg(insts.RegZero, 7)
		Expect(regFile.ReadReg(insts.RegZero)).To(Equal(int16(0)))
		Expect(regFile.R[0]).To(Equal(int16(0)))
	})

	It("should ignore invalid registers", func() {
		regFile.WriteReg(insts.NoReg, 7)
		Expect(regFile.ReadReg(insts.NoReg)).To(Equal(int16(0)))
		Expect(regFile.Snapshot()).To(Equal([insts.NumRegs]int16{}))
	})

	It("should reset registers and PC", func() {
		regFile.WriteReg(1, 1)
		regFile.PC = 9
		regFile.Reset()
		Expect(regFile.ReadReg(1)).To(Equal(int16(0)))
		Expect(regFile.PC).To(Equal(0))
	})

	DescribeTable("ToSigned16",
		func(in int64, want int16) {
			Expect(emu.ToSigned16(in)).To(Equal(want))
		},
		Entry("0x8000 is the most negative value", int64(0x8000), int16(-32768)),
		Entry("0xFFFF is -1", int64(0xFFFF), int16(-1)),
		Entry("0x7FFF stays positive", int64(0x7FFF), int16(32767)),
		Entry("0x10005 wraps", int64(0x10005), int16(5)),
		Entry("negative values wrap", int64(-32769), int16(32767)),
	)
})

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should store halfwords big-endian", func() {
		memory.Write16(10, 0xBEEF)

		Expect(memory.Read8(10)).To(Equal(byte(0xBE)))
		Expect(memory.Read8(11)).To(Equal(byte(0xEF)))
		Expect(memory.Read16(10)).To(Equal(uint16(0xBEEF)))
	})

	It("should mask odd halfword addresses", func() {
		memory.Write16(0x401, 0x1234)
		Expect(memory.Read16(0x400)).To(Equal(uint16(0x1234)))
		Expect(memory.Read8(0)).To(Equal(byte(0x12)))
	})

	DescribeTable("EffectiveAddress",
		func(base int16, offset int64, want uint16) {
			Expect(emu.EffectiveAddress(base, offset)).To(Equal(want))
		},
		Entry("in range", int16(100), int64(4), uint16(104)),
		Entry("odd bit cleared", int16(3), int64(0), uint16(2)),
		Entry("0x401 clears the odd bit and wraps to 0", int16(0x400), int64(1), uint16(0x000)),
		Entry("largest even address", int16(0x3FF), int64(0), uint16(0x3FE)),
		Entry("negative wraps", int16(-2), int64(0), uint16(0x3FE)),
	)

	It("should dump a bounded window", func() {
		memory.Write8(0, 1)
		memory.Write8(31, 2)

		dump := memory.Dump(32)
		Expect(dump).To(HaveLen(32))
		Expect(dump[0]).To(Equal(byte(1)))
		Expect(dump[31]).To(Equal(byte(2)))

		Expect(memory.Dump(5000)).To(HaveLen(emu.MemorySize))
		Expect(memory.Dump(-1)).To(BeEmpty())
	})

	It("should reset to zero", func() {
		memory.Write16(0, 0xFFFF)
		memory.Reset()
		Expect(memory.Read16(0)).To(Equal(uint16(0)))
	})
})
