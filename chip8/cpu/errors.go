package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode is returned when an instruction word matches no known instruction.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrStackOverflow is returned by a call with all stack slots in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// ExecError reports a fatal error together with the instruction that raised it.
// Once returned, the CPU is halted and keeps returning the same error.
type ExecError struct {
	PC          uint16
	Instruction Instruction
	Err         error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: 0x%04X (%s) at 0x%03X", e.Err, e.Instruction.Word, e.Instruction, e.PC)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
