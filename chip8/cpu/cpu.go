package cpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// StackDepth is the number of nested calls the stack can hold.
	StackDepth = 16

	flagRegister = 0xF
	addressMask  = 0x0FFF
)

// State is the execution state of the CPU.
type State uint8

const (
	// Running executes one instruction per Step.
	Running State = iota
	// AwaitingKey is entered by LD VX, K. Step only watches the keypad until
	// a key goes down.
	AwaitingKey
	// Halted is entered after a fatal error.
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting key"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// CPU is the interpreter engine. It owns memory, display, keypad and timers;
// callers only see copies of that state.
type CPU struct {
	// registers
	v     [16]uint8
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    uint8

	mem     memory.Memory
	display video.FrameBuffer
	keypad  input.Keypad
	timers  timer.Timers

	// execution state
	state        State
	waitRegister uint8
	lastKeys     [input.KeyCount]bool
	haltErr      error
	cycles       uint64

	quirks Quirks
	rng    RandomSource
}

// New returns a CPU with the font installed and PC at the program start.
// A nil rng selects a randomly seeded source.
func New(quirks Quirks, rng RandomSource) *CPU {
	if rng == nil {
		rng = NewRandom()
	}

	c := &CPU{
		quirks: quirks,
		rng:    rng,
	}
	c.Reset()
	return c
}

// Reset restores the power-on state, clearing memory.
func (c *CPU) Reset() {
	c.mem.Reset()
	c.resetState()
}

func (c *CPU) resetState() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.stack = [StackDepth]uint16{}
	c.sp = 0

	c.display.Clear()
	c.keypad.Reset()
	c.timers.Reset()

	c.state = Running
	c.waitRegister = 0
	c.lastKeys = [input.KeyCount]bool{}
	c.haltErr = nil
	c.cycles = 0
}

// Load resets the CPU and copies program to the program start. If program
// does not fit, the CPU is left as it was.
func (c *CPU) Load(program []byte) error {
	mem := memory.New()
	if err := mem.LoadProgram(program); err != nil {
		return err
	}

	c.mem = mem
	c.resetState()
	return nil
}

// Step runs a single fetch-decode-execute cycle. It never blocks: while
// waiting for a key it only samples the keypad. After a fatal error every
// call returns that same error.
func (c *CPU) Step() error {
	switch c.state {
	case Halted:
		return c.haltErr
	case AwaitingKey:
		c.pollKeypad()
		return nil
	}

	pc := c.pc
	instr := Decode(c.mem.ReadWord(pc))
	c.pc = (c.pc + 2) & addressMask

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("exec",
			"pc", fmt.Sprintf("0x%03X", pc),
			"opcode", fmt.Sprintf("0x%04X", instr.Word),
			"instr", instr.String())
	}

	if err := c.execute(instr); err != nil {
		c.state = Halted
		c.haltErr = &ExecError{PC: pc, Instruction: instr, Err: err}
		return c.haltErr
	}

	c.cycles++
	return nil
}

// Tick decrements the delay and sound timers once.
func (c *CPU) Tick() {
	c.timers.Tick()
}

// pollKeypad resumes execution when a key that was up at the previous
// sample is now down. The lowest such key is stored in the wait register.
func (c *CPU) pollKeypad() {
	current := c.keypad.State()
	for key, down := range current {
		if down && !c.lastKeys[key] {
			c.v[c.waitRegister] = uint8(key)
			c.state = Running
			slog.Debug("Key wait satisfied", "key", fmt.Sprintf("%X", key), "register", fmt.Sprintf("V%X", c.waitRegister))
			break
		}
	}
	c.lastKeys = current
}

func (c *CPU) setFlag(condition bool) {
	if condition {
		c.v[flagRegister] = 1
	} else {
		c.v[flagRegister] = 0
	}
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc = (c.pc + 2) & addressMask
	}
}

// SetKey updates one key of the keypad.
func (c *CPU) SetKey(key uint8, down bool) { c.keypad.Set(key, down) }

// SetKeys replaces the whole keypad state.
func (c *CPU) SetKeys(keys [input.KeyCount]bool) { c.keypad.SetAll(keys) }

// Frame returns a copy of the display.
func (c *CPU) Frame() video.Frame { return c.display.Frame() }

// Dirty reports whether the display changed since ClearDirty.
func (c *CPU) Dirty() bool { return c.display.Dirty() }
func (c *CPU) ClearDirty() { c.display.ClearDirty() }

// ToneActive reports whether the sound timer is running.
func (c *CPU) ToneActive() bool { return c.timers.ToneActive() }

// ReadMemory returns a copy of length bytes starting at address.
func (c *CPU) ReadMemory(address uint16, length int) []byte {
	return c.mem.Slice(address, length)
}

// Getters for register display
func (c *CPU) GetPC() uint16          { return c.pc }
func (c *CPU) GetI() uint16           { return c.i }
func (c *CPU) GetV(reg uint8) uint8   { return c.v[reg&0x0F] }
func (c *CPU) GetDelayTimer() uint8   { return c.timers.Delay() }
func (c *CPU) GetSoundTimer() uint8   { return c.timers.Sound() }
func (c *CPU) GetStackDepth() int     { return int(c.sp) }
func (c *CPU) GetCycles() uint64      { return c.cycles }
func (c *CPU) GetState() State        { return c.state }
func (c *CPU) Quirks() Quirks         { return c.quirks }

// Snapshot is a copy of the register file for status displays.
type Snapshot struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	Stack  []uint16
	Delay  uint8
	Sound  uint8
	State  State
	Cycles uint64
	// WaitRegister is the target of LD VX, K while State is AwaitingKey.
	WaitRegister uint8
}

// Snapshot copies the current register state.
func (c *CPU) Snapshot() Snapshot {
	stack := make([]uint16, c.sp)
	copy(stack, c.stack[:c.sp])

	return Snapshot{
		V:      c.v,
		I:      c.i,
		PC:     c.pc,
		Stack:  stack,
		Delay:  c.timers.Delay(),
		Sound:  c.timers.Sound(),
		State:  c.state,
		Cycles: c.cycles,

		WaitRegister: c.waitRegister,
	}
}

// StateText describes the execution state, naming the register a key wait
// will fill.
func (s Snapshot) StateText() string {
	if s.State == AwaitingKey {
		return fmt.Sprintf("%s (V%X)", s.State, s.WaitRegister)
	}
	return s.State.String()
}
