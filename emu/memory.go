package emu

import "encoding/binary"

const (
	// MemorySize is the size of data memory in bytes.
	MemorySize = 1024
	// AddressMask reduces effective addresses to an even byte address in
	// [0, MemorySize-2].
	AddressMask = 0x3FE
)

// Memory is the byte-addressable data memory.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zeroed data memory.
func NewMemory() *Memory {
	return &Memory{}
}

// EffectiveAddress computes base+offset and masks it into range. Odd and
// out-of-range components are cleared rather than faulting.
func EffectiveAddress(base int16, offset int64) uint16 {
	return uint16((int64(base) + offset) & AddressMask)
}

// Read8 reads a byte. The address wraps at MemorySize.
func (m *Memory) Read8(addr uint16) byte {
	return m.data[int(addr)%MemorySize]
}

// Write8 writes a byte. The address wraps at MemorySize.
func (m *Memory) Write8(addr uint16, value byte) {
	m.data[int(addr)%MemorySize] = value
}

// Read16 reads a big-endian halfword at the masked address.
func (m *Memory) Read16(addr uint16) uint16 {
	a := addr & AddressMask
	return binary.BigEndian.Uint16(m.data[a : a+2])
}

// Write16 writes a big-endian halfword at the masked address.
func (m *Memory) Write16(addr uint16, value uint16) {
	a := addr & AddressMask
	binary.BigEndian.PutUint16(m.data[a:a+2], value)
}

// Dump returns a copy of the first limit bytes. The limit is clamped to
// [0, MemorySize].
func (m *Memory) Dump(limit int) []byte {
	limit = max(0, min(limit, MemorySize))
	out := make([]byte, limit)
	copy(out, m.data[:limit])
	return out
}

// Reset zeroes all memory.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
}
