package emu

import "github.com/sarchlab/i960sim/insts"

// Frame discipline: frames are 64-byte aligned and the 16-register
// local window is saved at the caller's frame pointer.
const (
	frameAlign = 64
	windowSize = 16
)

// branch transfers control to efa.
func (e *Emulator) branch(efa uint32) {
	e.regFile.IP = efa
}

// branchAndLink saves the address of the next instruction into the
// link register, then branches. IP was advanced at fetch, so it
// already names the next instruction.
func (e *Emulator) branchAndLink(efa uint32, link uint32) {
	e.regFile.R[link] = e.regFile.IP
	e.branch(efa)
}

// saveWindow stores the 16 local registers at efa.
func (e *Emulator) saveWindow(efa uint32) {
	for i := uint32(0); i < windowSize; i++ {
		e.memory.WriteWord(efa+i*4, e.regFile.R[i])
	}
}

// loadWindow reloads the 16 local registers from efa.
func (e *Emulator) loadWindow(efa uint32) {
	for i := uint32(0); i < windowSize; i++ {
		e.regFile.R[i] = e.memory.ReadWord(efa+i*4)
	}
}

// call allocates a new 64-byte-aligned frame, saves the local window
// at the current frame pointer, and transfers control to efa.
func (e *Emulator) call(efa uint32) {
	r := &e.regFile.R
	fp := (r[RegSP] + frameAlign - 1) &^ (frameAlign - 1)

	r[RegRIP] = e.regFile.IP // save next instruction address

	e.saveWindow(r[RegFP])

	r[RegPFP] = r[RegFP]
	r[RegFP] = fp
	r[RegSP] = fp + frameAlign

	e.branch(efa)
}

// Previous-frame-pointer return types. Only the local return is
// implemented; the fault, system and interrupt returns are TBD and
// raise invalid-opcode rather than guess.
const (
	callLocal   = 0
	callFault   = 1
	callSystem  = 2
	callSystemT = 3
	callIntrS   = 6
	callIntr    = 7
)

// ret restores the caller's frame: the local window is reloaded from
// the previous frame pointer and control returns to the saved RIP.
func (e *Emulator) ret() {
	r := &e.regFile.R

	if r[RegPFP]&7 != callLocal {
		e.onUndef()
		return
	}

	r[RegFP] = r[RegPFP] &^ (frameAlign - 1)

	e.loadWindow(r[RegFP])

	e.branch(r[RegRIP])
}

// branchCond branches to efa when the condition test passes.
func (e *Emulator) branchCond(cond insts.Cond, efa uint32) {
	if e.checkCond(cond) {
		e.branch(efa)
	}
}

// faultCond raises the constraint-range fault when the condition test
// passes.
func (e *Emulator) faultCond(cond insts.Cond) {
	if e.checkCond(cond) {
		e.fault(FaultConstraintRange)
	}
}
