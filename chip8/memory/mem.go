package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	// Size is the total addressable memory.
	Size = 0x1000
	// ProgramStart is where programs are loaded and where execution begins.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest program that fits above the reserved region.
	MaxProgramSize = Size - int(ProgramStart)

	addressMask uint16 = Size - 1
)

// ErrProgramTooLarge is returned when a program does not fit in program space.
var ErrProgramTooLarge = errors.New("program too large")

// Memory is the 4K address space of the interpreter.
// Addresses wrap at 0xFFF, the region below ProgramStart is read-only
// once the font has been installed.
type Memory struct {
	data [Size]byte
}

// New returns memory with the font installed and an empty program space.
func New() Memory {
	var m Memory
	m.Reset()
	return m
}

// Reset zeroes memory and reinstalls the font set.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontAddress:], fontSet[:])
}

// LoadProgram copies program into memory starting at ProgramStart.
// On error memory is left untouched.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	clear(m.data[ProgramStart:])
	copy(m.data[ProgramStart:], program)
	return nil
}

// Read returns the byte at address.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&addressMask]
}

// ReadWord returns the big-endian word at address and address+1.
func (m *Memory) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address), m.Read(address+1))
}

// Write stores value at address. Writes into the reserved region are dropped.
func (m *Memory) Write(address uint16, value byte) {
	address &= addressMask
	if IsReserved(address) {
		slog.Warn("Dropped write to reserved memory",
			"address", fmt.Sprintf("0x%03X", address),
			"value", fmt.Sprintf("0x%02X", value))
		return
	}
	m.data[address] = value
}

// Slice copies length bytes starting at address, wrapping at the end of memory.
func (m *Memory) Slice(address uint16, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = m.Read(address + uint16(i))
	}
	return out
}

// IsReserved reports whether address falls in the interpreter region.
func IsReserved(address uint16) bool {
	return address&addressMask < ProgramStart
}
