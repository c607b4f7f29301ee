package emu

import "github.com/sarchlab/i960sim/insts"

// executeCTRL executes a CTRL-format instruction. The 24-bit signed,
// word-aligned displacement is relative to the instruction's own
// address. Bit 28 of the opcode selects the sub-family: clear for
// b/call/ret/bal, set for conditional branch or conditional fault.
//
// Opcode rows 0x00..0x07 and 0x0C..0x0F are fillers and behave as
// their neighbors, matching the hardware decoder.
func (e *Emulator) executeCTRL(inst *insts.Instruction, instAddr uint32) {
	efa := instAddr + uint32(inst.Disp)

	if inst.Major&0x10 == 0 {
		switch inst.Major & 3 {
		case 0:
			e.branch(efa)
		case 1:
			e.call(efa)
		case 2:
			e.ret()
		case 3:
			e.branchAndLink(efa, RegLP)
		}
		return
	}

	if inst.Major&0x08 == 0 {
		e.branchCond(inst.Cond(), efa)
	} else {
		e.faultCond(inst.Cond())
	}
}
