package emu_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/i960sim/emu"
)

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
		})
	})

	Describe("LoadProgram", func() {
		It("should set the IP to the entry point", func() {
			e.LoadProgram(0x1000, []byte{0, 0, 0, 0})

			Expect(e.RegFile().IP).To(Equal(uint32(0x1000)))
		})

		It("should load program bytes into memory", func() {
			e.LoadProgram(0x2000, []byte{0xDE, 0xAD, 0xBE, 0xEF})

			Expect(e.Memory().ReadByte(0x2000)).To(Equal(uint8(0xDE)))
			Expect(e.Memory().ReadByte(0x2003)).To(Equal(uint8(0xEF)))
		})
	})

	Describe("Step", func() {
		It("should advance the IP by four for one-word encodings", func() {
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x59, 0, 6, 4, 3, false, false)))

			e.Step()

			Expect(e.RegFile().IP).To(Equal(uint32(0x1004)))
		})

		It("should advance the IP by eight for two-word encodings", func() {
			e.LoadProgram(0x1000, programBytes(
				encodeMEMB(0x8C, 16, 0, 12, 0, 0), 0x4000))

			e.Step()

			Expect(e.RegFile().IP).To(Equal(uint32(0x1008)))
			Expect(e.RegFile().R[16]).To(Equal(uint32(0x4000)))
		})

		It("should execute a straight-line sequence", func() {
			// addo 1, 0, g0 ; addo 2, g0, g1 ; addo g0, g1, g2
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x59, 0, 16, 0, 1, true, true),
				encodeREG(0x59, 0, 17, 16, 2, true, false),
				encodeREG(0x59, 0, 18, 17, 16, false, false)))

			for i := 0; i < 3; i++ {
				e.Step()
			}

			Expect(e.RegFile().R[16]).To(Equal(uint32(1)))
			Expect(e.RegFile().R[17]).To(Equal(uint32(3)))
			Expect(e.RegFile().R[18]).To(Equal(uint32(4)))
			Expect(e.InstructionCount()).To(Equal(uint64(3)))
		})

		It("should report the instruction limit", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(2))
			e.LoadProgram(0x1000, programBytes(
				encodeCTRL(0x08, 0))) // b . (spin)

			Expect(e.Step().Err).To(BeNil())
			Expect(e.Step().Err).To(BeNil())
			Expect(e.Step().Err).To(HaveOccurred())
		})
	})

	Describe("Run", func() {
		It("should stop at the instruction limit", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(10))
			e.LoadProgram(0x1000, programBytes(encodeCTRL(0x08, 0)))

			err := e.Run()

			Expect(err).To(HaveOccurred())
			Expect(e.InstructionCount()).To(Equal(uint64(10)))
		})
	})

	Describe("fault reporting", func() {
		It("should forward faults to the configured handler", func() {
			var seen []emu.Fault

			e = emu.NewEmulator(
				emu.WithFaultHandler(emu.FaultHandlerFunc(func(f emu.Fault) {
					seen = append(seen, f)
				})),
			)

			// divo with a zero divisor
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x70, 0xB, 6, 4, 0, true, false)))
			e.RegFile().R[4] = 1
			e.Step()

			Expect(seen).To(HaveLen(1))
			Expect(seen[0].Code).To(Equal(uint32(emu.FaultZeroDivide)))
			Expect(seen[0].Type()).To(Equal(uint16(3)))
			Expect(seen[0].Subtype()).To(Equal(uint16(2)))
		})

		It("should clear the step fault between instructions", func() {
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x70, 0xB, 6, 4, 0, true, false), // faults
				encodeREG(0x59, 0, 16, 0, 1, true, true)))  // clean

			Expect(e.Step().Fault).NotTo(BeNil())
			Expect(e.Step().Fault).To(BeNil())
		})
	})

	Describe("tracing", func() {
		It("should render executed instructions through the disassembler", func() {
			var buf bytes.Buffer

			e = emu.NewEmulator(emu.WithTrace(&buf))
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x59, 1, 6, 5, 4, false, false)))

			e.Step()

			Expect(buf.String()).To(ContainSubstring("addi\tr4, r5, r6"))
			Expect(buf.String()).To(ContainSubstring("00001000:"))
		})
	})

	Describe("Reset", func() {
		It("should restore a pristine state", func() {
			e.LoadProgram(0x1000, programBytes(
				encodeREG(0x59, 0, 16, 0, 1, true, true)))
			e.Step()

			e.Reset()

			Expect(e.RegFile().IP).To(Equal(uint32(0)))
			Expect(e.RegFile().R[16]).To(Equal(uint32(0)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
			Expect(e.Memory().ReadWord(0x1000)).To(Equal(uint32(0)))
		})
	})
})
