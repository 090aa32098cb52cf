package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/risc16sim/benchmarks"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

var _ = Describe("Programs", func() {
	for _, b := range benchmarks.Programs() {
		Context(b.Name, func() {
			It("should reach the expected state functionally", func() {
				e, err := benchmarks.RunFunctional(b)
				Expect(err).NotTo(HaveOccurred())
				Expect(benchmarks.VerifyFunctional(b, e)).To(Succeed())
			})

			It("should reach the expected state in the pipeline", func() {
				result := benchmarks.Run(b, pipeline.WithLogger(GinkgoLogr))
				Expect(benchmarks.Verify(b, result)).To(Succeed())
			})

			It("should reach the expected state with writeback flush", func() {
				result := benchmarks.Run(b, pipeline.WithWritebackFlush())
				Expect(benchmarks.Verify(b, result)).To(Succeed())
			})

			It("should match the functional emulator", func() {
				e, err := benchmarks.RunFunctional(b)
				Expect(err).NotTo(HaveOccurred())

				result := benchmarks.Run(b, pipeline.WithDCache(cache.DefaultConfig()))
				Expect(result.Registers).To(Equal(e.RegFile().Snapshot()))
				Expect(result.Memory().Dump(1024)).To(Equal(e.Memory().Dump(1024)))
			})

			It("should retire each instruction once with writeback flush", func() {
				e, err := benchmarks.RunFunctional(b)
				Expect(err).NotTo(HaveOccurred())

				result := benchmarks.Run(b, pipeline.WithWritebackFlush())
				Expect(result.Instructions).To(Equal(e.InstructionCount()))
			})
		})
	}

	It("should have unique names", func() {
		seen := map[string]bool{}
		for _, b := range benchmarks.Programs() {
			Expect(seen).NotTo(HaveKey(b.Name))
			seen[b.Name] = true
		}
	})

	It("should look programs up by name", func() {
		b, ok := benchmarks.ByName("branch_loop")
		Expect(ok).To(BeTrue())
		Expect(b.ExpectedRegs[2]).To(Equal(int16(55)))

		_, ok = benchmarks.ByName("missing")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Run", func() {
	result := func(name string, opts ...pipeline.PipelineOption) benchmarks.Result {
		b, ok := benchmarks.ByName(name)
		Expect(ok).To(BeTrue())
		return benchmarks.Run(b, opts...)
	}

	It("should time straight-line code", func() {
		r := result("straight_line_alu")

		Expect(r.Cycles).To(Equal(uint64(14)))
		Expect(r.Instructions).To(Equal(uint64(9)))
		Expect(r.Stalls).To(BeZero())
		Expect(r.Flushes).To(Equal(uint64(2)))
		Expect(r.Finished).To(BeTrue())
	})

	It("should drop the duplicate halt with writeback flush", func() {
		r := result("straight_line_alu", pipeline.WithWritebackFlush())

		Expect(r.Cycles).To(Equal(uint64(13)))
		Expect(r.Instructions).To(Equal(uint64(8)))
	})

	It("should count one stall per load-use pair", func() {
		r := result("load_use_chain")

		Expect(r.Stalls).To(Equal(uint64(2)))
		Expect(r.Cycles).To(Equal(uint64(19)))
	})

	It("should not stall on store data or shifts", func() {
		Expect(result("memory_copy").Stalls).To(BeZero())
		Expect(result("shifts").Stalls).To(BeZero())
	})

	It("should reproduce the branch scenario timing", func() {
		r := result("branch_over_addi")

		Expect(r.Cycles).To(Equal(uint64(15)))
		Expect(r.Instructions).To(Equal(uint64(6)))
		Expect(r.CPI).To(Equal(2.5))
		Expect(r.IPC).To(Equal(0.4))
	})

	It("should collect data cache statistics", func() {
		r := result("memory_copy", pipeline.WithDCache(cache.DefaultConfig()))

		Expect(r.DCacheHits + r.DCacheMisses).To(Equal(uint64(8)))
		Expect(r.DCacheMisses).To(Equal(uint64(2)))
	})

	It("should report an unfinished run", func() {
		b := benchmarks.Benchmark{Name: "spin", Source: "spin: j spin"}
		r := benchmarks.Run(b)

		Expect(r.Finished).To(BeFalse())
		Expect(r.Cycles).To(Equal(uint64(benchmarks.DefaultMaxCycles)))
		Expect(benchmarks.Verify(b, r)).To(MatchError(ContainSubstring("did not finish")))
	})

	It("should report register mismatches", func() {
		b, _ := benchmarks.ByName("branch_loop")
		r := benchmarks.Run(b)
		b.ExpectedRegs[2] = 54

		Expect(benchmarks.Verify(b, r)).To(MatchError(ContainSubstring("R2 = 55, want 54")))
	})

	It("should report memory mismatches", func() {
		b, _ := benchmarks.ByName("memory_copy")
		r := benchmarks.Run(b)
		b.ExpectedMemory = map[uint16]uint16{64: 2}

		Expect(benchmarks.Verify(b, r)).To(MatchError(ContainSubstring("mem[0x40]")))
	})
})

var _ = Describe("Harness", func() {
	var (
		out     *bytes.Buffer
		harness *benchmarks.Harness
		results []benchmarks.Result
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config := benchmarks.DefaultConfig()
		config.Output = out
		config.Verbose = true

		harness = benchmarks.NewHarness(config)
		harness.AddBenchmarks(benchmarks.Programs())
		results = harness.RunAll()
	})

	It("should run every benchmark", func() {
		Expect(results).To(HaveLen(len(benchmarks.Programs())))
		for _, r := range results {
			Expect(r.Cycles).NotTo(BeZero())
			Expect(r.Instructions).NotTo(BeZero())
			Expect(r.Finished).To(BeTrue())
		}
	})

	It("should print a readable report", func() {
		harness.PrintResults(results)

		text := out.String()
		Expect(text).To(ContainSubstring("Benchmark: branch_loop"))
		Expect(text).To(ContainSubstring("--- D-Cache ---"))
		Expect(text).To(ContainSubstring("Registers:"))
	})

	It("should print CSV with one row per benchmark", func() {
		harness.PrintCSV(results)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(len(results) + 1))
		Expect(lines[0]).To(HavePrefix("name,cycles,instructions"))
		Expect(lines[1]).To(HavePrefix("straight_line_alu,14,9,0,2,"))
	})

	It("should print JSON", func() {
		Expect(harness.PrintJSON(results)).To(Succeed())

		var decoded []map[string]any
		Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(len(results)))
		Expect(decoded[0]).To(HaveKeyWithValue("name", "straight_line_alu"))
	})

	It("should add a single benchmark", func() {
		h := benchmarks.NewHarness(benchmarks.HarnessConfig{})
		b, _ := benchmarks.ByName("shifts")
		h.AddBenchmark(b)

		rs := h.RunAll()
		Expect(rs).To(HaveLen(1))
		Expect(rs[0].DCacheHits + rs[0].DCacheMisses).To(BeZero())
	})
})
