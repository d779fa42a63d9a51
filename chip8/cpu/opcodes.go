package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// execute runs a decoded instruction. PC already points past it.
func (c *CPU) execute(in Instruction) error {
	switch in.Op {
	case OpSys:
		// machine code routines are not supported
	case OpCls:
		c.display.Clear()
	case OpRet:
		return c.ret()
	case OpJp:
		c.pc = in.NNN
	case OpCall:
		return c.call(in.NNN)
	case OpSeVxByte:
		c.skipIf(c.v[in.X] == in.NN)
	case OpSneVxByte:
		c.skipIf(c.v[in.X] != in.NN)
	case OpSeVxVy:
		c.skipIf(c.v[in.X] == c.v[in.Y])
	case OpLdVxByte:
		c.v[in.X] = in.NN
	case OpAddVxByte:
		c.v[in.X] += in.NN
	case OpLdVxVy:
		c.v[in.X] = c.v[in.Y]
	case OpOr:
		c.logic(in.X, c.v[in.X]|c.v[in.Y])
	case OpAnd:
		c.logic(in.X, c.v[in.X]&c.v[in.Y])
	case OpXor:
		c.logic(in.X, c.v[in.X]^c.v[in.Y])
	case OpAddVxVy:
		sum, carry := bit.CheckedAdd(c.v[in.X], c.v[in.Y])
		c.v[in.X] = sum
		c.setFlag(carry)
	case OpSub:
		diff, borrow := bit.CheckedSub(c.v[in.X], c.v[in.Y])
		c.v[in.X] = diff
		c.setFlag(!borrow)
	case OpSubn:
		diff, borrow := bit.CheckedSub(c.v[in.Y], c.v[in.X])
		c.v[in.X] = diff
		c.setFlag(!borrow)
	case OpShr:
		c.shr(in.X, in.Y)
	case OpShl:
		c.shl(in.X, in.Y)
	case OpSneVxVy:
		c.skipIf(c.v[in.X] != c.v[in.Y])
	case OpLdI:
		c.i = in.NNN
	case OpJpV0:
		c.jpV0(in)
	case OpRnd:
		c.v[in.X] = c.rng.Byte() & in.NN
	case OpDrw:
		c.drw(in.X, in.Y, in.N)
	case OpSkp:
		c.skipIf(c.keypad.IsPressed(c.v[in.X]))
	case OpSknp:
		c.skipIf(!c.keypad.IsPressed(c.v[in.X]))
	case OpLdVxDT:
		c.v[in.X] = c.timers.Delay()
	case OpLdVxK:
		c.state = AwaitingKey
		c.waitRegister = in.X
		c.lastKeys = c.keypad.State()
	case OpLdDTVx:
		c.timers.SetDelay(c.v[in.X])
	case OpLdSTVx:
		c.timers.SetSound(c.v[in.X])
	case OpAddIVx:
		c.i = (c.i + uint16(c.v[in.X])) & addressMask
	case OpLdFVx:
		c.i = memory.GlyphAddress(c.v[in.X])
	case OpLdBVx:
		c.bcd(c.v[in.X])
	case OpLdIVx:
		c.store(in.X)
	case OpLdVxI:
		c.load(in.X)
	default:
		return ErrInvalidOpcode
	}

	return nil
}

func (c *CPU) call(address uint16) error {
	if int(c.sp) >= StackDepth {
		return ErrStackOverflow
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = address
	return nil
}

func (c *CPU) ret() error {
	if c.sp == 0 {
		return ErrStackUnderflow
	}
	c.sp--
	c.pc = c.stack[c.sp]
	return nil
}

// logic stores the result of a bitwise op, then clears VF when the
// COSMAC behaviour is enabled.
func (c *CPU) logic(x, result uint8) {
	c.v[x] = result
	if c.quirks.LogicResetsVF {
		c.v[flagRegister] = 0
	}
}

func (c *CPU) shiftSource(x, y uint8) uint8 {
	if c.quirks.ShiftUsesVY {
		return c.v[y]
	}
	return c.v[x]
}

func (c *CPU) shr(x, y uint8) {
	value := c.shiftSource(x, y)
	c.v[x] = value >> 1
	c.setFlag(bit.IsSet(0, value))
}

func (c *CPU) shl(x, y uint8) {
	value := c.shiftSource(x, y)
	c.v[x] = value << 1
	c.setFlag(bit.IsSet(7, value))
}

func (c *CPU) jpV0(in Instruction) {
	offset := c.v[0]
	if c.quirks.JumpUsesVX {
		offset = c.v[in.X]
	}
	c.pc = (in.NNN + uint16(offset)) & addressMask
}

func (c *CPU) drw(x, y, n uint8) {
	sprite := c.mem.Slice(c.i, int(n))
	collision := c.display.DrawSprite(c.v[x], c.v[y], sprite, c.quirks.WrapSprites)
	c.setFlag(collision)
}

func (c *CPU) bcd(value uint8) {
	c.mem.Write(c.i, value/100)
	c.mem.Write(c.i+1, (value/10)%10)
	c.mem.Write(c.i+2, value%10)
}

func (c *CPU) store(x uint8) {
	for r := uint16(0); r <= uint16(x); r++ {
		c.mem.Write(c.i+r, c.v[r])
	}
	if c.quirks.LoadStoreIncrementsI {
		c.i = (c.i + uint16(x) + 1) & addressMask
	}
}

func (c *CPU) load(x uint8) {
	for r := uint16(0); r <= uint16(x); r++ {
		c.v[r] = c.mem.Read(c.i + r)
	}
	if c.quirks.LoadStoreIncrementsI {
		c.i = (c.i + uint16(x) + 1) & addressMask
	}
}
