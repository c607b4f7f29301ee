package emu

import (
	"encoding/binary"
	"sync"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// Interrupt-control register location and layout. The register lives
// in the memory-mapped peripheral space; intdis and inten edit its
// global-interrupt-enable bit through the memory capability.
const (
	ICONAddr   = 0xFF008510
	ICONGIEPos = 10
)

// Memory is the capability the core consumes: byte, short and word
// access against a flat 32-bit little-endian address space, plus an
// advisory lock pair fencing atomic read-modify-write. Values are
// carried in 32-bit words and truncated on narrow writes.
type Memory interface {
	ReadByte(addr uint32) uint8
	ReadShort(addr uint32) uint16
	ReadWord(addr uint32) uint32

	WriteByte(addr uint32, x uint32)
	WriteShort(addr uint32, x uint32)
	WriteWord(addr uint32, x uint32)

	// Lock and Unlock fence atomic RMW. For a single emulated core
	// they may be no-ops; over a shared memory image they must
	// serialize the RMW window across masters.
	Lock()
	Unlock()
}

// SparseMemory implements Memory over an akita storage component
// spanning the full 4 GiB address space. Unwritten locations read
// as zero.
type SparseMemory struct {
	storage *mem.Storage
	mu      sync.Mutex
}

// NewSparseMemory creates an empty 4 GiB sparse memory.
func NewSparseMemory() *SparseMemory {
	return &SparseMemory{
		storage: mem.NewStorage(1 << 32),
	}
}

func (m *SparseMemory) read(addr uint32, n uint64) []byte {
	data, err := m.storage.Read(uint64(addr), n)
	if err != nil {
		return make([]byte, n)
	}
	return data
}

// ReadByte returns the byte at addr.
func (m *SparseMemory) ReadByte(addr uint32) uint8 {
	return m.read(addr, 1)[0]
}

// ReadShort returns the little-endian 16-bit value at addr.
func (m *SparseMemory) ReadShort(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(m.read(addr, 2))
}

// ReadWord returns the little-endian 32-bit value at addr.
func (m *SparseMemory) ReadWord(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(m.read(addr, 4))
}

// WriteByte stores the low byte of x at addr.
func (m *SparseMemory) WriteByte(addr uint32, x uint32) {
	_ = m.storage.Write(uint64(addr), []byte{uint8(x)})
}

// WriteShort stores the low 16 bits of x at addr, little-endian.
func (m *SparseMemory) WriteShort(addr uint32, x uint32) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(x))
	_ = m.storage.Write(uint64(addr), buf)
}

// WriteWord stores x at addr, little-endian.
func (m *SparseMemory) WriteWord(addr uint32, x uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, x)
	_ = m.storage.Write(uint64(addr), buf)
}

// Lock acquires the RMW fence.
func (m *SparseMemory) Lock() {
	m.mu.Lock()
}

// Unlock releases the RMW fence.
func (m *SparseMemory) Unlock() {
	m.mu.Unlock()
}

// LoadBytes places a program or data image at base.
func (m *SparseMemory) LoadBytes(base uint32, data []byte) {
	_ = m.storage.Write(uint64(base), data)
}

// InterruptsEnabled reports the state of the ICON global-interrupt-
// enable bit.
func (m *SparseMemory) InterruptsEnabled() bool {
	return BitSelect(m.ReadWord(ICONAddr), ICONGIEPos) != 0
}
