package emu

import "github.com/sarchlab/i960sim/insts"

// setCond replaces the AC condition code, preserving the other bits.
func (e *Emulator) setCond(cc uint32) {
	e.regFile.SetCondCode(cc)
}

// cmp compares a against b with the requested signedness and encodes
// the ordering into the condition code: less=4, equal=2, greater=1.
func (e *Emulator) cmp(a, b uint32, signed bool) {
	var lt bool
	if signed {
		lt = int32(a) < int32(b)
	} else {
		lt = a < b
	}

	switch {
	case lt:
		e.setCond(CondCodeLess)
	case a == b:
		e.setCond(CondCodeEqual)
	default:
		e.setCond(CondCodeGreater)
	}
}

// concmp refines the condition code for the range-check idiom: when
// the previous compare did not report "less", the code becomes equal
// if a <= b and greater otherwise. With the less bit set it is a
// no-op.
func (e *Emulator) concmp(a, b uint32, signed bool) {
	if e.regFile.AC&CondCodeLess != 0 {
		return
	}

	var le bool
	if signed {
		le = int32(a) <= int32(b)
	} else {
		le = a <= b
	}

	if le {
		e.setCond(CondCodeEqual)
	} else {
		e.setCond(CondCodeGreater)
	}
}

// checkCond evaluates a condition test against the AC condition code.
// A zero test passes only when the code is zero; a non-zero test
// passes when it overlaps the code.
func (e *Emulator) checkCond(cond insts.Cond) bool {
	cc := e.regFile.CondCode()
	if cond == insts.CondNo {
		return cc == 0
	}
	return cc&uint32(cond) != 0
}
