package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/i960sim/emu"
)

var _ = Describe("COBR Format", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("compare and branch", func() {
		It("should take cmpibl on a signed less", func() {
			e.RegFile().R[3] = 5
			e.RegFile().R[4] = 7
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x3C, 3, 4, false, 0x40)))

			e.Step()

			Expect(e.RegFile().CondCode()).To(Equal(uint32(emu.CondCodeLess)))
			Expect(e.RegFile().IP).To(Equal(uint32(0x1040)))
		})

		It("should fall through cmpibl on equality", func() {
			e.RegFile().R[3] = 7
			e.RegFile().R[4] = 7
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x3C, 3, 4, false, 0x40)))

			e.Step()

			Expect(e.RegFile().CondCode()).To(Equal(uint32(emu.CondCodeEqual)))
			Expect(e.RegFile().IP).To(Equal(uint32(0x1004)))
		})

		It("should compare cmpob variants unsigned", func() {
			e.RegFile().R[3] = 0xFFFFFFFF
			e.RegFile().R[4] = 1

			// cmpobg r3, r4 — unsigned greater, taken
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x31, 3, 4, false, 0x20)))

			e.Step()

			Expect(e.RegFile().IP).To(Equal(uint32(0x1020)))
		})

		It("should treat the first operand as a literal under M1", func() {
			e.RegFile().R[4] = 7

			// cmpibl 5, r4, +0x40
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x3C, 5, 4, true, 0x40)))

			e.Step()

			Expect(e.RegFile().IP).To(Equal(uint32(0x1040)))
		})
	})

	Describe("bit test and branch", func() {
		It("should take bbs backward when the bit is set", func() {
			e.RegFile().R[3] = 5
			e.RegFile().R[4] = 0x00000020 // bit 5 set
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x37, 3, 4, false, -0x10)))

			e.Step()

			Expect(e.RegFile().CondCode()).To(Equal(uint32(emu.CondCodeEqual)))
			Expect(e.RegFile().IP).To(Equal(uint32(0xFF0)))
		})

		It("should fall through bbs when the bit is clear", func() {
			e.RegFile().R[3] = 6
			e.RegFile().R[4] = 0x00000020
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x37, 3, 4, false, -0x10)))

			e.Step()

			Expect(e.RegFile().CondCode()).To(Equal(uint32(emu.CondCodeFalse)))
			Expect(e.RegFile().IP).To(Equal(uint32(0x1004)))
		})

		It("should take bbc when the bit is clear", func() {
			e.RegFile().R[3] = 6
			e.RegFile().R[4] = 0x00000020
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x30, 3, 4, false, 0x10)))

			e.Step()

			Expect(e.RegFile().CondCode()).To(Equal(uint32(emu.CondCodeEqual)))
			Expect(e.RegFile().IP).To(Equal(uint32(0x1010)))
		})
	})

	Describe("test condition", func() {
		It("should write 1 when the condition holds", func() {
			e.RegFile().SetCondCode(emu.CondCodeEqual)

			// teste r6
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x22, 6, 0, false, 0)))

			e.Step()

			Expect(e.RegFile().R[6]).To(Equal(uint32(1)))
			Expect(e.RegFile().IP).To(Equal(uint32(0x1004)))
		})

		It("should write 0 when the condition fails", func() {
			e.RegFile().SetCondCode(emu.CondCodeLess)
			e.RegFile().R[6] = 99

			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x22, 6, 0, false, 0)))

			e.Step()

			Expect(e.RegFile().R[6]).To(Equal(uint32(0)))
		})

		It("should treat testno as a zero-code test", func() {
			e.RegFile().SetCondCode(0)

			// testno r6
			e.LoadProgram(0x1000, programBytes(
				encodeCOBR(0x20, 6, 0, false, 0)))

			e.Step()

			Expect(e.RegFile().R[6]).To(Equal(uint32(1)))
		})
	})
})
