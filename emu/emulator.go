package emu

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/i960sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Fault is the architectural fault the instruction raised, if any.
	Fault *Fault

	// Err is set on a host-level condition (instruction limit).
	Err error
}

// Emulator executes i960 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  Memory
	decoder *insts.Decoder
	disasm  *insts.Disassembler

	faultHandler FaultHandler
	callsHandler CallsHandler

	logger   *logrus.Logger
	traceOut io.Writer

	lastFault *Fault

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory sets the memory capability the core consumes.
func WithMemory(m Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = m
	}
}

// WithFaultHandler sets the fault reporter.
func WithFaultHandler(h FaultHandler) EmulatorOption {
	return func(e *Emulator) {
		e.faultHandler = h
	}
}

// WithCallsHandler sets the supervisor-call dispatch.
func WithCallsHandler(h CallsHandler) EmulatorOption {
	return func(e *Emulator) {
		e.callsHandler = h
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = l
	}
}

// WithTrace renders each executed instruction to w before execution.
func WithTrace(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.traceOut = w
	}
}

// WithMaxInstructions sets the maximum number of instructions to
// execute. A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new i960 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		decoder: insts.NewDecoder(),
		disasm:  insts.NewDisassembler(),
		logger:  logrus.New(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewSparseMemory()
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram places a program image in memory and sets the entry
// point. A SparseMemory (the default) takes the image in one write;
// any other Memory receives it byte by byte through WriteByte.
func (e *Emulator) LoadProgram(entry uint32, program []byte) {
	if m, ok := e.memory.(*SparseMemory); ok {
		m.LoadBytes(entry, program)
	} else {
		for i, x := range program {
			e.memory.WriteByte(entry+uint32(i), uint32(x))
		}
	}
	e.regFile.IP = entry
}

// Reset restores the emulator to its initial state over a fresh
// memory image.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewSparseMemory()
	e.lastFault = nil
	e.instructionCount = 0
}

// Step executes a single instruction: fetch at IP, advance IP past
// the encoding (4 or 8 bytes), execute. The result reports any fault
// the instruction raised.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	instAddr := e.regFile.IP
	word := e.memory.ReadWord(instAddr)

	inst := e.decoder.Decode(word)
	e.regFile.IP += 4

	if inst.ExtraWord() {
		inst.Disp32 = e.memory.ReadWord(instAddr + 4)
		e.regFile.IP += 4
	}

	if e.traceOut != nil {
		e.traceLine(instAddr, word, inst.Disp32)
	}

	e.lastFault = nil
	e.execute(inst, instAddr)
	e.instructionCount++

	return StepResult{Fault: e.lastFault}
}

// Run executes instructions until a host-level stop condition.
// Architectural faults are reported through the fault handler and do
// not stop execution.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
	}
}

// execute dispatches a decoded instruction to its format executor.
func (e *Emulator) execute(inst *insts.Instruction, instAddr uint32) {
	switch inst.Format {
	case insts.FormatCTRL:
		e.executeCTRL(inst, instAddr)
	case insts.FormatCOBR:
		e.executeCOBR(inst, instAddr)
	case insts.FormatREG:
		e.executeREG(inst)
	case insts.FormatMEMA, insts.FormatMEMB:
		e.executeMEM(inst, instAddr)
	}
}

// traceLine renders one instruction through the disassembler.
func (e *Emulator) traceLine(instAddr, word, disp uint32) {
	var sb strings.Builder
	e.disasm.Disassemble(&sb, instAddr, word, disp)
	fmt.Fprintf(e.traceOut, "%08x:\t%s\n", instAddr, sb.String())
}
