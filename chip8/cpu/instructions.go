package cpu

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/valerio/go-chip8/chip8/bit"
)

// Op identifies one of the 35 CHIP-8 instructions.
type Op uint8

const (
	OpInvalid   Op = iota
	OpSys          // 0NNN
	OpCls          // 00E0
	OpRet          // 00EE
	OpJp           // 1NNN
	OpCall         // 2NNN
	OpSeVxByte     // 3XNN
	OpSneVxByte    // 4XNN
	OpSeVxVy       // 5XY0
	OpLdVxByte     // 6XNN
	OpAddVxByte    // 7XNN
	OpLdVxVy       // 8XY0
	OpOr           // 8XY1
	OpAnd          // 8XY2
	OpXor          // 8XY3
	OpAddVxVy      // 8XY4
	OpSub          // 8XY5
	OpShr          // 8XY6
	OpSubn         // 8XY7
	OpShl          // 8XYE
	OpSneVxVy      // 9XY0
	OpLdI          // ANNN
	OpJpV0         // BNNN
	OpRnd          // CXNN
	OpDrw          // DXYN
	OpSkp          // EX9E
	OpSknp         // EXA1
	OpLdVxDT       // FX07
	OpLdVxK        // FX0A
	OpLdDTVx       // FX15
	OpLdSTVx       // FX18
	OpAddIVx       // FX1E
	OpLdFVx        // FX29
	OpLdBVx        // FX33
	OpLdIVx        // FX55
	OpLdVxI        // FX65
)

// Instruction is a decoded instruction word. Only the operand fields used by
// Op are meaningful.
type Instruction struct {
	Op   Op
	Word uint16
	X    uint8
	Y    uint8
	N    uint8
	NN   uint8
	NNN  uint16
}

// Decode splits word into its operand fields and identifies the instruction.
// Words that match no instruction decode to OpInvalid.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    bit.Nibble(word, 2),
		Y:    bit.Nibble(word, 1),
		N:    bit.Nibble(word, 0),
		NN:   bit.Low(word),
		NNN:  bit.Address(word),
	}
	in.Op = decodeOp(word, in.N, in.NN)
	return in
}

func decodeOp(word uint16, n, nn uint8) Op {
	switch bit.Nibble(word, 3) {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCls
		case 0x00EE:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeVxByte
	case 0x4:
		return OpSneVxByte
	case 0x5:
		if n == 0x0 {
			return OpSeVxVy
		}
	case 0x6:
		return OpLdVxByte
	case 0x7:
		return OpAddVxByte
	case 0x8:
		if op, ok := aluOps[n]; ok {
			return op
		}
	case 0x9:
		if n == 0x0 {
			return OpSneVxVy
		}
	case 0xA:
		return OpLdI
	case 0xB:
		return OpJpV0
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDrw
	case 0xE:
		switch nn {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF:
		if op, ok := miscOps[nn]; ok {
			return op
		}
	}
	return OpInvalid
}

// aluOps maps the low nibble of 8XYN words.
var aluOps = map[uint8]Op{
	0x0: OpLdVxVy,
	0x1: OpOr,
	0x2: OpAnd,
	0x3: OpXor,
	0x4: OpAddVxVy,
	0x5: OpSub,
	0x6: OpShr,
	0x7: OpSubn,
	0xE: OpShl,
}

// miscOps maps the low byte of FXNN words.
var miscOps = map[uint8]Op{
	0x07: OpLdVxDT,
	0x0A: OpLdVxK,
	0x15: OpLdDTVx,
	0x18: OpLdSTVx,
	0x1E: OpAddIVx,
	0x29: OpLdFVx,
	0x33: OpLdBVx,
	0x55: OpLdIVx,
	0x65: OpLdVxI,
}

// instructionSet maps each Op to its entry in the CHIP-8 instruction set,
// which carries the mnemonic. SYS has no entry.
var instructionSet = map[Op]*chip8.Instruction{
	OpCls:       chip8.Cls,
	OpRet:       chip8.Ret,
	OpJp:        chip8.Jp,
	OpCall:      chip8.Call,
	OpSeVxByte:  chip8.Se,
	OpSneVxByte: chip8.Sne,
	OpSeVxVy:    chip8.Se,
	OpLdVxByte:  chip8.Ld,
	OpAddVxByte: chip8.Add,
	OpLdVxVy:    chip8.Ld,
	OpOr:        chip8.Or,
	OpAnd:       chip8.And,
	OpXor:       chip8.Xor,
	OpAddVxVy:   chip8.Add,
	OpSub:       chip8.Sub,
	OpShr:       chip8.Shr,
	OpSubn:      chip8.Subn,
	OpShl:       chip8.Shl,
	OpSneVxVy:   chip8.Sne,
	OpLdI:       chip8.Ld,
	OpJpV0:      chip8.Jp,
	OpRnd:       chip8.Rnd,
	OpDrw:       chip8.Drw,
	OpSkp:       chip8.Skp,
	OpSknp:      chip8.Sknp,
	OpLdVxDT:    chip8.Ld,
	OpLdVxK:     chip8.Ld,
	OpLdDTVx:    chip8.Ld,
	OpLdSTVx:    chip8.Ld,
	OpAddIVx:    chip8.Add,
	OpLdFVx:     chip8.Ld,
	OpLdBVx:     chip8.Ld,
	OpLdIVx:     chip8.Ld,
	OpLdVxI:     chip8.Ld,
}

// Name returns the upper case mnemonic, e.g. "DRW", or "???" for invalid words.
func (in Instruction) Name() string {
	if in.Op == OpSys {
		return "SYS"
	}
	if ins, ok := instructionSet[in.Op]; ok {
		return strings.ToUpper(ins.Name)
	}
	return "???"
}

// String returns the instruction mnemonic with its operands, e.g. "DRW V1, V2, 5".
func (in Instruction) String() string {
	operands := in.operands()
	if operands == "" {
		return in.Name()
	}
	return in.Name() + " " + operands
}

func (in Instruction) operands() string {
	switch in.Op {
	case OpCls, OpRet:
		return ""
	case OpSys, OpJp, OpCall:
		return fmt.Sprintf("0x%03X", in.NNN)
	case OpSeVxByte, OpSneVxByte, OpLdVxByte, OpAddVxByte, OpRnd:
		return fmt.Sprintf("V%X, 0x%02X", in.X, in.NN)
	case OpSeVxVy, OpSneVxVy, OpLdVxVy, OpOr, OpAnd, OpXor, OpAddVxVy, OpSub, OpShr, OpSubn, OpShl:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case OpLdI:
		return fmt.Sprintf("I, 0x%03X", in.NNN)
	case OpJpV0:
		return fmt.Sprintf("V0, 0x%03X", in.NNN)
	case OpDrw:
		return fmt.Sprintf("V%X, V%X, %d", in.X, in.Y, in.N)
	case OpSkp, OpSknp:
		return fmt.Sprintf("V%X", in.X)
	case OpLdVxDT:
		return fmt.Sprintf("V%X, DT", in.X)
	case OpLdVxK:
		return fmt.Sprintf("V%X, K", in.X)
	case OpLdDTVx:
		return fmt.Sprintf("DT, V%X", in.X)
	case OpLdSTVx:
		return fmt.Sprintf("ST, V%X", in.X)
	case OpAddIVx:
		return fmt.Sprintf("I, V%X", in.X)
	case OpLdFVx:
		return fmt.Sprintf("F, V%X", in.X)
	case OpLdBVx:
		return fmt.Sprintf("B, V%X", in.X)
	case OpLdIVx:
		return fmt.Sprintf("[I], V%X", in.X)
	case OpLdVxI:
		return fmt.Sprintf("V%X, [I]", in.X)
	default:
		return fmt.Sprintf("0x%04X", in.Word)
	}
}
