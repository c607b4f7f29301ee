package emu

import "github.com/sarchlab/i960sim/insts"

// executeMEM executes a MEM-format instruction: the non-memory
// functions (bx/balx/callx/lda), the loads, and the stores. The
// effective address comes from the addressing-mode table; the
// reserved mode raises invalid-opcode.
func (e *Emulator) executeMEM(inst *insts.Instruction, instAddr uint32) {
	if inst.Mode == insts.MEMModeReserved {
		e.onUndef()
		return
	}

	efa := e.memEFA(inst, instAddr)
	c := uint32(inst.SrcDst)

	switch {
	case inst.Major&4 != 0:
		e.memFuncs(inst, efa, c)
	case inst.Major&2 != 0:
		e.memStore(inst, efa, c)
	default:
		e.memLoad(inst, efa, c)
	}
}

// memEFA computes the effective address for the instruction's
// addressing mode: any combination of displacement, base register and
// scaled index, or the IP-relative form (instruction address + 8 +
// displacement).
func (e *Emulator) memEFA(inst *insts.Instruction, instAddr uint32) uint32 {
	if inst.Mode == insts.MEMModeIPRel {
		return instAddr + 8 + inst.Disp32
	}

	flags := inst.MemFlags()

	var efa uint32
	if flags&insts.MemUseDisp != 0 {
		if inst.Format == insts.FormatMEMA {
			efa += inst.Offset
		} else {
			efa += inst.Disp32
		}
	}
	if flags&insts.MemUseBase != 0 {
		efa += e.regFile.R[inst.Src2]
	}
	if flags&insts.MemUseIndex != 0 {
		efa += e.regFile.R[inst.Src1] << inst.ScaleShift
	}

	return efa
}

// memFuncs executes the non-memory functions: lda when opcode bit 27
// is set, otherwise bx, balx (link in c) or callx.
func (e *Emulator) memFuncs(inst *insts.Instruction, efa, c uint32) {
	if inst.Major&8 != 0 { // lda
		e.regFile.R[c] = efa
		return
	}

	switch inst.Major & 3 {
	case 0: // bx
		e.branch(efa)
	case 1: // balx
		e.branchAndLink(efa, c)
	default: // callx (3 is a filler)
		e.call(efa)
	}
}

// memLoad executes the load set. Opcode bits 27..29 select the width,
// bit 30 the signed byte/short variants; multi-word loads read
// ascending consecutive words.
func (e *Emulator) memLoad(inst *insts.Instruction, efa, c uint32) {
	signed := inst.Major&0x40 != 0
	r := &e.regFile.R

	switch inst.Major >> 3 & 7 {
	case 0: // ldob / ldib
		x := e.memory.ReadByte(efa)
		if signed {
			r[c] = uint32(int32(int8(x)))
		} else {
			r[c] = uint32(x)
		}
	case 1: // ldos / ldis
		x := e.memory.ReadShort(efa)
		if signed {
			r[c] = uint32(int32(int16(x)))
		} else {
			r[c] = uint32(x)
		}
	case 2: // ld
		r[c] = e.memory.ReadWord(efa)
	case 3: // ldl
		r[c] = e.memory.ReadWord(efa)
		r[c|1] = e.memory.ReadWord(efa + 4)
	case 4, 5: // ldt (5 is a filler)
		r[c] = e.memory.ReadWord(efa)
		r[c|1] = e.memory.ReadWord(efa + 4)
		r[c|2] = e.memory.ReadWord(efa + 8)
	default: // ldq (7 is a filler)
		r[c] = e.memory.ReadWord(efa)
		r[c|1] = e.memory.ReadWord(efa + 4)
		r[c|2] = e.memory.ReadWord(efa + 8)
		r[c|3] = e.memory.ReadWord(efa + 12)
	}
}

// memStore executes the store set, mirroring the loads. The signed
// narrow stores raise integer overflow when the value does not fit
// the target width; the store itself is already committed.
func (e *Emulator) memStore(inst *insts.Instruction, efa, c uint32) {
	signed := inst.Major&0x40 != 0
	r := &e.regFile.R

	switch inst.Major >> 3 & 7 {
	case 0: // stob / stib
		x := int32(r[c])
		e.memory.WriteByte(efa, uint32(x))
		if signed && x != int32(int8(x)) {
			e.onOverflow()
		}
	case 1: // stos / stis
		x := int32(r[c])
		e.memory.WriteShort(efa, uint32(x))
		if signed && x != int32(int16(x)) {
			e.onOverflow()
		}
	case 2: // st
		e.memory.WriteWord(efa, r[c])
	case 3: // stl
		e.memory.WriteWord(efa, r[c])
		e.memory.WriteWord(efa+4, r[c|1])
	case 4, 5: // stt (5 is a filler)
		e.memory.WriteWord(efa, r[c])
		e.memory.WriteWord(efa+4, r[c|1])
		e.memory.WriteWord(efa+8, r[c|2])
	default: // stq (7 is a filler)
		e.memory.WriteWord(efa, r[c])
		e.memory.WriteWord(efa+4, r[c|1])
		e.memory.WriteWord(efa+8, r[c|2])
		e.memory.WriteWord(efa+12, r[c|3])
	}
}
