package emu

import "github.com/sirupsen/logrus"

// Architectural fault codes: fault type in the high 16 bits, subtype
// in the low 16.
const (
	FaultInvalidOpcode   = 0x00020001
	FaultIntegerOverflow = 0x00030001
	FaultZeroDivide      = 0x00030002
	FaultConstraintRange = 0x00050001
	FaultTypeMismatch    = 0x000A0001
)

// Fault describes one raised architectural fault.
type Fault struct {
	Code uint32 // packed (type << 16) | subtype
	IP   uint32 // instruction pointer after the faulting instruction was fetched
}

// Type returns the fault type, the high 16 bits of the code.
func (f Fault) Type() uint16 {
	return uint16(f.Code >> 16)
}

// Subtype returns the fault subtype, the low 16 bits of the code.
func (f Fault) Subtype() uint16 {
	return uint16(f.Code)
}

// FaultHandler receives architectural faults. A handler may be
// abortive or may post the fault for later delivery; the core raises
// and continues either way.
type FaultHandler interface {
	Fault(fault Fault)
}

// FaultHandlerFunc adapts a function to the FaultHandler interface.
type FaultHandlerFunc func(fault Fault)

// Fault calls f.
func (f FaultHandlerFunc) Fault(fault Fault) {
	f(fault)
}

// CallsHandler implements the architectural supervisor call dispatch
// invoked by the calls instruction.
type CallsHandler interface {
	Calls(vector uint32)
}

// CallsHandlerFunc adapts a function to the CallsHandler interface.
type CallsHandlerFunc func(vector uint32)

// Calls calls f.
func (f CallsHandlerFunc) Calls(vector uint32) {
	f(vector)
}

// fault reports a fault through the configured handler and records it
// for the current step.
func (e *Emulator) fault(code uint32) {
	f := Fault{Code: code, IP: e.regFile.IP}
	e.lastFault = &f

	e.logger.WithFields(logrus.Fields{
		"type":    f.Type(),
		"subtype": f.Subtype(),
		"ip":      f.IP,
	}).Debug("fault raised")

	if e.faultHandler != nil {
		e.faultHandler.Fault(f)
	}
}

// onUndef raises the invalid-opcode fault.
func (e *Emulator) onUndef() {
	e.fault(FaultInvalidOpcode)
}

// onOverflow applies the integer-overflow policy: with the AC mask
// bit set the sticky flag is raised, otherwise the fault is.
func (e *Emulator) onOverflow() {
	if BitSelect(e.regFile.AC, ACOverflowM) != 0 {
		e.regFile.AC = SetBit(e.regFile.AC, ACOverflow)
	} else {
		e.fault(FaultIntegerOverflow)
	}
}

// divCheck raises division-by-zero for a zero divisor and reports
// whether the division may proceed.
func (e *Emulator) divCheck(d uint32) bool {
	if d == 0 {
		e.fault(FaultZeroDivide)
	}
	return d != 0
}

// checkSupervisor raises a type-mismatch fault outside supervisor
// mode and reports whether the operation may proceed.
func (e *Emulator) checkSupervisor() bool {
	if !e.regFile.Supervisor() {
		e.logger.WithField("ip", e.regFile.IP).
			Warn("supervisor-only operation in user mode")
		e.fault(FaultTypeMismatch)
		return false
	}
	return true
}
