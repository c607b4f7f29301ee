package emu

import (
	"math"
	"math/bits"

	"github.com/sarchlab/i960sim/insts"
)

// executeREG executes a REG-format instruction. Operands a and b are
// registers or, per the mode bits, 5-bit literals; c is always a
// register index. The major opcode selects the block; the four-bit
// sub-opcode (bits 7..10) selects the operation within it. Reserved
// rows inside a block behave as their table neighbors; blocks the
// decoder tables do not list raise invalid-opcode.
func (e *Emulator) executeREG(inst *insts.Instruction) {
	a := e.regFile.R[inst.Src1]
	if inst.M1 {
		a = uint32(inst.Src1)
	}
	b := e.regFile.R[inst.Src2]
	if inst.M2 {
		b = uint32(inst.Src2)
	}
	c := uint32(inst.SrcDst)

	switch inst.Major >> 3 {
	case 0x0B: // 0x58..0x5F, core ops
		e.regCore(inst, a, b, c)
	case 0x0C: // 0x60..0x67, supplement ops
		e.regSupp(inst, a, b, c)
	case 0x0D: // 0x68..0x6F, FPU functions
		e.regFPU(inst, a, b, c)
	case 0x0E: // 0x70..0x77, multiply and divide
		e.regMulDiv(inst, a, b, c)
	case 0x0F: // 0x78..0x7F, conditional ops and FPU ALU
		e.regCond(inst, a, b, c)
	default:
		e.onUndef()
	}
}

// regFPU dispatches floating-point encodings. The core carries no FPU
// numerical kernel; every FPU encoding is an invalid opcode here.
func (e *Emulator) regFPU(inst *insts.Instruction, a, b, c uint32) {
	e.onUndef()
}

/*
 * 0x58..0x5F core block
 */
func (e *Emulator) regCore(inst *insts.Instruction, a, b, c uint32) {
	switch inst.Major & 7 {
	case 0:
		e.regLogic(inst, a, b, c)
	case 1:
		e.reg59(inst, a, b, c)
	case 2:
		e.reg5A(inst, a, b, c)
	case 3:
		e.reg5B(inst, a, b, c)
	default: // 0x5C..0x5F, moves and eshro
		e.reg5C(inst, a, b, c)
	}
}

// regLogic executes the 0x58x bitwise and bit-manipulation rows: a
// 16-row truth table spanning the two-operand boolean functions plus
// the four bit ops. Row 5 is a filler duplicating notand.
func (e *Emulator) regLogic(inst *insts.Instruction, a, b, c uint32) {
	var q uint32

	switch inst.Sub {
	case 0x0: // notbit
		q = NotBit(b, a)
	case 0x1: // and
		q = a & b
	case 0x2: // andnot
		q = ^a & b
	case 0x3: // setbit
		q = SetBit(b, a)
	case 0x4, 0x5: // notand (5 is a filler)
		q = a & ^b
	case 0x6: // xor
		q = a ^ b
	case 0x7: // or
		q = a | b
	case 0x8: // nor
		q = ^(a | b)
	case 0x9: // xnor
		q = ^(a ^ b)
	case 0xA: // not
		q = ^a
	case 0xB: // ornot
		q = ^a | b
	case 0xC: // clrbit
		q = ClrBit(b, a)
	case 0xD: // notor
		q = a | ^b
	case 0xE: // nand
		q = ^(a & b)
	case 0xF: // alterbit
		if e.regFile.CarryIn() != 0 {
			q = SetBit(b, a)
		} else {
			q = ClrBit(b, a)
		}
	}

	e.regFile.R[c] = q
}

// reg59 splits the 0x59x row: sub-opcodes 8..15 are the shifter,
// 0..3 the adder, 4..7 the extended byte/short compares.
func (e *Emulator) reg59(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&8 != 0:
		e.regShift(inst, a, b, c)
	case inst.Sub&4 != 0:
		e.regCmpExt(inst, a, b, c)
	default:
		e.regAdd(inst, a, b, c)
	}
}

// regAdd executes addo/addi/subo/subi: sub-opcode bit 0 selects the
// integer (overflow-checked) variant, bit 1 subtract.
func (e *Emulator) regAdd(inst *insts.Instruction, a, b, c uint32) {
	sub := inst.Sub&2 != 0
	integer := inst.Sub&1 != 0

	var r uint32
	var overflow bool
	if sub {
		r = b - a
		overflow = SubOverflows(b, a, r)
	} else {
		r = b + a
		overflow = AddOverflows(a, b, r)
	}

	e.regFile.R[c] = r

	if integer && overflow {
		e.onOverflow()
	}
}

// regCmpExt executes cmpob/cmpib/cmpos/cmpis: sub-opcode bit 1
// selects short over byte, bit 0 signed over unsigned.
func (e *Emulator) regCmpExt(inst *insts.Instruction, a, b, c uint32) {
	short := inst.Sub&2 != 0
	signed := inst.Sub&1 != 0

	narrow := func(x uint32) uint32 {
		if short {
			if signed {
				return uint32(int32(int16(x)))
			}
			return uint32(uint16(x))
		}
		if signed {
			return uint32(int32(int8(x)))
		}
		return uint32(uint8(x))
	}

	e.cmp(narrow(a), narrow(b), signed)
}

// regShift executes the 0x598..0x59F shifter rows. Shift counts of 32
// or more produce zero for the logical shifts and saturate at 31 for
// the arithmetic ones. Rows 1 and 7 are fillers.
func (e *Emulator) regShift(inst *insts.Instruction, a, b, c uint32) {
	switch inst.Sub & 7 {
	case 0, 1: // shro (1 is a filler)
		if a < 32 {
			e.regFile.R[c] = b >> a
		} else {
			e.regFile.R[c] = 0
		}
	case 2: // shrdi
		e.regShrdi(a, b, c)
	case 3: // shri
		n := a
		if n > 31 {
			n = 31
		}
		e.regFile.R[c] = uint32(int32(b) >> n)
	case 4: // shlo
		if a < 32 {
			e.regFile.R[c] = b << a
		} else {
			e.regFile.R[c] = 0
		}
	case 5, 7: // rotate (7 is a filler)
		e.regFile.R[c] = bits.RotateLeft32(b, int(a&31))
	case 6: // shli
		e.regShli(a, b, c)
	}
}

// regShrdi performs the signed arithmetic shift rounded toward zero:
// the result is incremented when the discarded bits were non-zero and
// the pre-shift value was negative.
func (e *Emulator) regShrdi(a, b, c uint32) {
	n := a
	if n > 31 {
		n = 31
	}

	r := uint32(int32(b) >> n)

	if int32(b) < 0 && b != r<<n { // round to zero
		r++
	}

	e.regFile.R[c] = r
}

// regShli performs the integer left shift: overflow when any bit
// shifted past the sign position differs from the original sign.
func (e *Emulator) regShli(a, b, c uint32) {
	n := a
	if n > 32 {
		n = 32
	}

	x := int64(int32(b))
	r := uint64(x) << n

	e.regFile.R[c] = uint32(r)

	if (r^uint64(x))>>31 != 0 {
		e.onOverflow()
	}
}

// reg5A splits the 0x5Ax row: sub-opcodes 8..15 are the misc group,
// 0..7 the compare group.
func (e *Emulator) reg5A(inst *insts.Instruction, a, b, c uint32) {
	if inst.Sub&8 != 0 {
		e.regMisc(inst, a, b, c)
	} else {
		e.regCmpGroup(inst, a, b, c)
	}
}

// regCmpGroup executes cmpo/cmpi, concmpo/concmpi, and the
// post-increment/decrement compares cmpinc/cmpdec.
func (e *Emulator) regCmpGroup(inst *insts.Instruction, a, b, c uint32) {
	signed := inst.Sub&1 != 0
	dec := inst.Sub&2 != 0
	incdec := inst.Sub&4 != 0

	if dec && !incdec {
		e.concmp(a, b, signed)
	} else {
		e.cmp(a, b, signed)
	}

	if incdec {
		if dec {
			e.regFile.R[c] = b - 1
		} else {
			e.regFile.R[c] = b + 1
		}
	}
}

// regMisc executes scanbyte, bswap and chkbit (0x5AC..0x5AE).
func (e *Emulator) regMisc(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&2 != 0: // chkbit
		if BitSelect(b, a) != 0 {
			e.setCond(CondCodeEqual)
		} else {
			e.setCond(CondCodeFalse)
		}
	case inst.Sub&1 != 0: // bswap
		e.regFile.R[c] = bits.ReverseBytes32(a)
	default: // scanbyte
		d := a ^ b
		if d&0xFF == 0 || d&0xFF00 == 0 ||
			d&0xFF0000 == 0 || d&0xFF000000 == 0 {
			e.setCond(CondCodeEqual)
		} else {
			e.setCond(CondCodeFalse)
		}
	}
}

// reg5B splits the 0x5Bx row between the carry adder (addc/subc) and
// the interrupt-control pair (intdis/inten).
func (e *Emulator) reg5B(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&4 == 0:
		e.regAddCarry(inst, a, b, c)
	case inst.Sub&1 != 0:
		e.regInten()
	default:
		e.regIntdis()
	}
}

// regAddCarry executes addc/subc with AC bit 1 as carry-in. The
// condition code receives a two-bit result: carry out in bit 1,
// signed overflow in bit 0.
func (e *Emulator) regAddCarry(inst *insts.Instruction, a, b, c uint32) {
	cin := e.regFile.CarryIn()

	var r, co uint32
	var overflow bool
	if inst.Sub&2 != 0 {
		r, co = Sbb(a, b, cin)
		overflow = SubOverflows(a, b, r)
	} else {
		r, co = Adc(a, b, cin)
		overflow = AddOverflows(a, b, r)
	}

	e.regFile.R[c] = r

	cc := co << 1
	if overflow {
		cc |= 1
	}
	e.setCond(cc)
}

// regIntdis sets the ICON global-interrupt-enable bit. Supervisor-only.
//
// The write polarity follows the original implementation literally:
// intdis sets ICON bit 10 and inten clears it, which reads inverted
// against the names if GIE is active-high. Flagged for review.
func (e *Emulator) regIntdis() {
	icon := e.memory.ReadWord(ICONAddr)

	if e.checkSupervisor() {
		e.memory.WriteWord(ICONAddr, SetBit(icon, ICONGIEPos))
	}
}

// regInten clears the ICON global-interrupt-enable bit. Supervisor-only.
func (e *Emulator) regInten() {
	icon := e.memory.ReadWord(ICONAddr)

	if e.checkSupervisor() {
		e.memory.WriteWord(ICONAddr, ClrBit(icon, ICONGIEPos))
	}
}

// reg5C splits the 0x5Cx..0x5Fx rows between the register moves
// (mov/movl/movt/movq) and the extended shift eshro.
func (e *Emulator) reg5C(inst *insts.Instruction, a, b, c uint32) {
	if inst.Sub&4 != 0 {
		e.regMove(inst, a, b, c)
	} else {
		e.regEshro(inst, a, b, c)
	}
}

// regMove copies a 1/2/3/4-word register group. The width comes from
// the low two bits of the major opcode; the trailing words always
// move register-to-register while word zero honors a literal operand.
func (e *Emulator) regMove(inst *insts.Instruction, a, b, c uint32) {
	src := uint32(inst.Src1)
	r := &e.regFile.R

	switch inst.Major & 3 {
	case 3:
		r[c|3] = r[src|3]
		fallthrough
	case 2:
		r[c|2] = r[src|2]
		fallthrough
	case 1:
		r[c|1] = r[src|1]
		fallthrough
	case 0:
		r[c] = a
	}
}

// regEshro shifts the 64-bit pair (r[src2|1], b) right by a mod 32
// and writes the low word of the result.
func (e *Emulator) regEshro(inst *insts.Instruction, a, b, c uint32) {
	hi := e.regFile.R[inst.Src2|1]
	wide := uint64(hi)<<32 | uint64(b)

	e.regFile.R[c] = uint32(wide >> (a & 31))
}

/*
 * 0x60..0x67 supplement block
 */
func (e *Emulator) regSupp(inst *insts.Instruction, a, b, c uint32) {
	switch inst.Major & 7 {
	case 0, 2: // synmov group, K/S series only
		e.onUndef()
	case 1, 3: // atomics (3 is a filler)
		e.regAtomic(inst, a, b, c)
	case 4:
		e.reg64(inst, a, b, c)
	case 5:
		e.reg65(inst, a, b, c)
	case 6:
		e.reg66(inst, a, b, c)
	case 7:
		e.reg67(inst, a, b, c)
	}
}

// regAtomic executes atmod/atadd: a locked read-modify-write of the
// word at a &^ 3, leaving the old value in c.
func (e *Emulator) regAtomic(inst *insts.Instruction, a, b, c uint32) {
	src := a &^ 3

	e.memory.Lock()
	old := e.memory.ReadWord(src)

	var x uint32
	if inst.Sub&2 != 0 { // atadd
		x = old + b
	} else { // atmod
		x = Modify(old, e.regFile.R[c], b)
	}

	e.memory.WriteWord(src, x)
	e.memory.Unlock()

	e.regFile.R[c] = old
}

// reg64 executes spanbit/scanbit and modac.
func (e *Emulator) reg64(inst *insts.Instruction, a, b, c uint32) {
	if inst.Sub&4 != 0 { // modac
		old := e.regFile.AC
		e.regFile.AC = Modify(old, b, a)
		e.regFile.R[c] = old
		return
	}

	// spanbit searches for the most significant clear bit.
	x := a
	if inst.Sub&1 == 0 {
		x = ^a
	}
	e.regScanBit(x, c)
}

// regScanBit locates the most significant set bit of x: the bit
// number with condition code equal, or all-ones with code false when
// there is none.
func (e *Emulator) regScanBit(x, c uint32) {
	if x == 0 {
		e.regFile.R[c] = ^uint32(0)
		e.setCond(CondCodeFalse)
		return
	}

	e.regFile.R[c] = uint32(bits.Len32(x) - 1)
	e.setCond(CondCodeEqual)
}

// reg65 executes the in-place bit-field edits (modify/extract) and
// the control-register exchanges (modtc/modpc).
func (e *Emulator) reg65(inst *insts.Instruction, a, b, c uint32) {
	ctl := inst.Sub&4 != 0
	hi := inst.Sub&1 != 0

	switch {
	case ctl && hi:
		e.regModpc(inst, a, b, c)
	case ctl:
		old := e.regFile.TC
		e.regFile.TC = Modify(old, b, a&0x00FF00FF)
		e.regFile.R[c] = old
	case hi: // extract
		if b <= 31 {
			e.regFile.R[c] = Extract(e.regFile.R[c], a, b)
		}
	default: // modify
		e.regFile.R[c] = Modify(e.regFile.R[c], b, a)
	}
}

// regModpc exchanges masked process-control bits. A non-zero mask is
// supervisor-only; the mask arrives in both a and b.
func (e *Emulator) regModpc(inst *insts.Instruction, a, b, c uint32) {
	mask := b

	if mask != 0 && !e.checkSupervisor() {
		return
	}

	old := e.regFile.PC
	e.regFile.PC = Modify(old, e.regFile.R[c], mask)
	e.regFile.R[c] = old

	// Pending interrupts would be re-evaluated here once interrupt
	// delivery exists.
}

// reg66 executes calls and the trace/frame no-ops (mark, fmark,
// flushreg, syncf).
func (e *Emulator) reg66(inst *insts.Instruction, a, b, c uint32) {
	if inst.Sub&8 != 0 {
		// mark/fmark: trace support not implemented.
		// flushreg/syncf: nothing to do.
		return
	}

	if e.callsHandler != nil {
		e.callsHandler.Calls(a)
	} else {
		e.logger.WithField("vector", a).
			Warn("calls without a dispatch handler")
	}
}

// reg67 executes the extended multiply/divide pair emul/ediv; the
// conversion rows above them are FPU encodings and fault.
func (e *Emulator) reg67(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&4 != 0:
		e.regFPU(inst, a, b, c)
	case inst.Sub&1 != 0:
		e.regEdiv(inst, a, b, c)
	default:
		wide := uint64(a) * uint64(b)
		e.regFile.R[c] = uint32(wide)
		e.regFile.R[c|1] = uint32(wide >> 32)
	}
}

// regEdiv divides the 64-bit pair (r[src2|1], b) by a, leaving the
// remainder and quotient in c and c|1.
func (e *Emulator) regEdiv(inst *insts.Instruction, a, b, c uint32) {
	hi := e.regFile.R[inst.Src2|1]
	wide := uint64(hi)<<32 | uint64(b)

	if e.divCheck(a) {
		e.regFile.R[c] = uint32(wide % uint64(a))
		e.regFile.R[c|1] = uint32(wide / uint64(a))
	} else {
		e.regFile.R[c] = b
		e.regFile.R[c|1] = 0
	}
}

/*
 * 0x70..0x77 multiply and divide block
 */
func (e *Emulator) regMulDiv(inst *insts.Instruction, a, b, c uint32) {
	if inst.Major&4 != 0 {
		e.regMulDivInt(inst, a, b, c)
	} else {
		e.regMulDivOrd(inst, a, b, c)
	}
}

// regMulDivOrd executes mulo, remo and divo.
func (e *Emulator) regMulDivOrd(inst *insts.Instruction, a, b, c uint32) {
	if inst.Sub&8 == 0 { // mulo
		e.regFile.R[c] = a * b
		return
	}

	if !e.divCheck(a) {
		return
	}

	if inst.Sub&2 != 0 { // divo
		e.regFile.R[c] = b / a
	} else { // remo
		e.regFile.R[c] = b % a
	}
}

// regMulDivInt executes muli, remi, modi and divi.
func (e *Emulator) regMulDivInt(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&8 == 0:
		e.regMuli(a, b, c)
	case inst.Sub&2 != 0:
		e.regDivi(a, b, c)
	default:
		e.regRemi(inst, a, b, c)
	}
}

// regMuli multiplies signed and raises overflow when the 64-bit
// product does not fit in 32 bits.
func (e *Emulator) regMuli(a, b, c uint32) {
	wide := int64(int32(a)) * int64(int32(b))

	e.regFile.R[c] = uint32(wide)

	if wide < math.MinInt32 || wide > math.MaxInt32 {
		e.onOverflow()
	}
}

// regRemi executes remi and, with sub-opcode bit 0, modi: the
// remainder is compensated by the divisor when the operands differ in
// sign and the remainder is non-zero.
func (e *Emulator) regRemi(inst *insts.Instruction, a, b, c uint32) {
	if !e.divCheck(a) {
		return
	}

	r := uint32(int32(b) % int32(a))
	e.regFile.R[c] = r

	if inst.Sub&1 != 0 && r != 0 && int32(a^b) < 0 { // modi
		e.regFile.R[c] = r + a
	}
}

// regDivi divides signed; the only overflow case is the most negative
// value divided by minus one, which wraps to itself.
func (e *Emulator) regDivi(a, b, c uint32) {
	if !e.divCheck(a) {
		return
	}

	e.regFile.R[c] = uint32(int32(b) / int32(a))

	if int32(a) == -1 && int32(b) == math.MinInt32 {
		e.onOverflow()
	}
}

/*
 * 0x78..0x7F conditional block
 */
func (e *Emulator) regCond(inst *insts.Instruction, a, b, c uint32) {
	switch {
	case inst.Sub&8 != 0: // FPU ALU rows
		e.regFPU(inst, a, b, c)
	case inst.Sub&4 != 0: // selcc
		if e.checkCond(inst.Cond()) {
			e.regFile.R[c] = b
		} else {
			e.regFile.R[c] = a
		}
	default: // addcc/subcc
		if e.checkCond(inst.Cond()) {
			e.regAdd(inst, a, b, c)
		}
	}
}
