package emu

import "github.com/sarchlab/i960sim/insts"

// executeCOBR executes a COBR-format instruction: test-condition into
// a register (0x20..0x27), bit-test-and-branch (0x30, 0x37), or
// compare-and-branch (the rest of 0x30..0x3F). Operand a is a
// register or 5-bit literal per the M1 bit; operand b is always a
// register. The 13-bit displacement is relative to the instruction's
// own address.
func (e *Emulator) executeCOBR(inst *insts.Instruction, instAddr uint32) {
	a := e.regFile.R[inst.SrcDst]
	if inst.M1 {
		a = uint32(inst.SrcDst)
	}
	b := e.regFile.R[inst.Src2]

	efa := instAddr + uint32(inst.Disp)

	switch {
	case inst.Major&0x10 == 0:
		e.cobrTest(inst)
	case inst.Major == 0x30 || inst.Major == 0x37:
		e.cobrBitBranch(inst, a, b, efa)
	default:
		e.cobrCmpBranch(inst, a, b, efa)
	}
}

// cobrTest writes the condition-match result (0 or 1) into the
// destination register; no branch.
func (e *Emulator) cobrTest(inst *insts.Instruction) {
	var x uint32
	if e.checkCond(inst.Cond()) {
		x = 1
	}
	e.regFile.R[inst.SrcDst] = x
}

// cobrBitBranch selects bit a of b and branches when it matches the
// sense encoded in opcode bit 24 (bbc: clear, bbs: set). The
// condition code records the match as equal or false.
func (e *Emulator) cobrBitBranch(inst *insts.Instruction, a, b, efa uint32) {
	sense := uint32(inst.Major) & 1
	ok := BitSelect(b, a) == sense

	if ok {
		e.setCond(CondCodeEqual)
		e.branch(efa)
	} else {
		e.setCond(CondCodeFalse)
	}
}

// cobrCmpBranch compares a and b, signed when opcode bit 27 is set,
// and branches when the encoded condition holds for the new code.
func (e *Emulator) cobrCmpBranch(inst *insts.Instruction, a, b, efa uint32) {
	signed := inst.Major&0x08 != 0

	e.cmp(a, b, signed)
	e.branchCond(inst.Cond(), efa)
}
