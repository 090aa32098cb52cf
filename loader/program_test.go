package loader_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/risc16sim/insts"
	"github.com/sarchlab/risc16sim/loader"
)

var _ = Describe("Program Loader", func() {
	Describe("Parse", func() {
		It("should strip comments and blank lines", func() {
			prog := loader.Parse(`
# header comment
addi R1, R0, 5   # set R1

    sub R2, R1, R1
`)
			Expect(prog.Len()).To(Equal(2))
			Expect(prog.At(0).Text).To(Equal("addi R1, R0, 5"))
			Expect(prog.At(1).Text).To(Equal("sub R2, R1, R1"))
		})

		It("should decode every instruction once", func() {
			prog := loader.Parse("add R1, R2, R3\nhalt")
			Expect(prog.At(0).Op).To(Equal(insts.OpADD))
			Expect(prog.At(1).Op).To(Equal(insts.OpHALT))
		})

		It("should map inline labels to their instruction slot", func() {
			prog := loader.Parse("loop: addi R1, R0, 5\nsub R2, R1, R1\ndone: halt")

			slot, ok := prog.Resolve("loop")
			Expect(ok).To(BeTrue())
			Expect(slot).To(Equal(0))

			slot, ok = prog.Resolve("done")
			Expect(ok).To(BeTrue())
			Expect(slot).To(Equal(2))
			Expect(prog.At(2).Op).To(Equal(insts.OpHALT))
		})

		It("should point a label on its own line at the next instruction", func() {
			prog := loader.Parse("addi R1, R0, 1\nfunc:\n\n# body\naddi R2, R0, 2")

			slot, ok := prog.Resolve("func")
			Expect(ok).To(BeTrue())
			Expect(slot).To(Equal(1))
			Expect(prog.Len()).To(Equal(2))
		})

		It("should let a trailing label point past the last instruction", func() {
			prog := loader.Parse("halt\nend:")

			slot, _ := prog.Resolve("end")
			Expect(slot).To(Equal(1))
			Expect(prog.At(slot)).To(BeNil())
		})

		It("should ignore labels inside comments", func() {
			prog := loader.Parse("halt # not: a label")

			_, ok := prog.Resolve("halt # not")
			Expect(ok).To(BeFalse())
			Expect(prog.Labels).To(BeEmpty())
		})

		It("should truncate programs beyond instruction memory", func() {
			var sb strings.Builder
			for i := 0; i < loader.MaxInstructions+10; i++ {
				fmt.Fprintf(&sb, "addi R1, R1, %d\n", i)
			}

			prog := loader.Parse(sb.String())

			Expect(prog.Len()).To(Equal(loader.MaxInstructions))
			Expect(prog.At(loader.MaxInstructions - 1).Imm).To(Equal(int64(loader.MaxInstructions - 1)))
			Expect(prog.At(loader.MaxInstructions)).To(BeNil())
		})

		It("should return nil for negative slots", func() {
			prog := loader.Parse("halt")
			Expect(prog.At(-1)).To(BeNil())
		})

		It("should not share labels between programs", func() {
			first := loader.Parse("a: halt")
			second := loader.Parse("b: halt")

			_, ok := second.Resolve("a")
			Expect(ok).To(BeFalse())
			Expect(first.Labels).To(HaveKey("a"))
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load a program from a file", func() {
			path := filepath.Join(tempDir, "prog.s")
			Expect(os.WriteFile(path, []byte("start: addi R1, R0, 1\nj start\n"), 0644)).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Len()).To(Equal(2))
			Expect(prog.Labels).To(HaveKeyWithValue("start", 0))
		})

		It("should fail for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.s"))
			Expect(err).To(HaveOccurred())
		})
	})
})
