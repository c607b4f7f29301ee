package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/i960sim/emu"
)

var _ = Describe("Bit Primitives", func() {
	It("should select single bits modulo 32", func() {
		Expect(emu.BitSelect(0x20, 5)).To(Equal(uint32(1)))
		Expect(emu.BitSelect(0x20, 4)).To(Equal(uint32(0)))
		Expect(emu.BitSelect(0x20, 37)).To(Equal(uint32(1)))
	})

	It("should build masks modulo 32", func() {
		Expect(emu.BitMask(0)).To(Equal(uint32(1)))
		Expect(emu.BitMask(31)).To(Equal(uint32(0x80000000)))
		Expect(emu.BitMask(33)).To(Equal(uint32(2)))
	})

	It("should extract bit fields", func() {
		Expect(emu.Extract(0xABCD1234, 8, 8)).To(Equal(uint32(0x12)))
		Expect(emu.Extract(0xABCD1234, 0, 4)).To(Equal(uint32(4)))
	})

	It("should return the full shifted value for wide counts", func() {
		Expect(emu.Extract(0xABCD1234, 8, 32)).To(Equal(uint32(0x00ABCD12)))
	})

	It("should deposit masked bits", func() {
		Expect(emu.Modify(0xAAAAAAAA, 0x12345678, 0x0F0F0F0F)).
			To(Equal(uint32(0xA2A4A6A8)))
		Expect(emu.Modify(0xFFFFFFFF, 0, 0xFF)).To(Equal(uint32(0xFFFFFF00)))
	})

	It("should restore a bit through setbit after clrbit", func() {
		x := uint32(0xDEADBEEF)
		for pos := uint32(0); pos < 32; pos++ {
			Expect(emu.SetBit(emu.ClrBit(x, pos), pos)).
				To(Equal(x | emu.BitMask(pos)))
		}
	})

	It("should make notbit an involution", func() {
		x := uint32(0x12345678)
		for pos := uint32(0); pos < 32; pos++ {
			Expect(emu.NotBit(emu.NotBit(x, pos), pos)).To(Equal(x))
		}
	})

	It("should propagate carries through the adder chain", func() {
		r, co := emu.Add(0xFFFFFFFF, 1)
		Expect(r).To(Equal(uint32(0)))
		Expect(co).To(Equal(uint32(1)))

		r, co = emu.Adc(0xFFFFFFFF, 0, 1)
		Expect(r).To(Equal(uint32(0)))
		Expect(co).To(Equal(uint32(1)))

		r, co = emu.Adc(2, 3, 0)
		Expect(r).To(Equal(uint32(5)))
		Expect(co).To(Equal(uint32(0)))
	})

	It("should propagate borrows through the subtractor chain", func() {
		r, bo := emu.Sub(0, 1)
		Expect(r).To(Equal(uint32(0xFFFFFFFF)))
		Expect(bo).To(Equal(uint32(1)))

		r, bo = emu.Sbb(5, 3, 1)
		Expect(r).To(Equal(uint32(1)))
		Expect(bo).To(Equal(uint32(0)))
	})

	It("should detect signed addition overflow", func() {
		Expect(emu.AddOverflows(0x7FFFFFFF, 1, 0x80000000)).To(BeTrue())
		Expect(emu.AddOverflows(1, 2, 3)).To(BeFalse())
		Expect(emu.AddOverflows(0x80000000, 0x80000000, 0)).To(BeTrue())
	})

	It("should detect signed subtraction overflow", func() {
		Expect(emu.SubOverflows(0x80000000, 1, 0x7FFFFFFF)).To(BeTrue())
		Expect(emu.SubOverflows(5, 3, 2)).To(BeFalse())
	})
})
