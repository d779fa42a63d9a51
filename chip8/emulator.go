package chip8

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator represents the root struct and entry point for running the emulation.
// It is not safe for concurrent use.
type Emulator struct {
	cpu     *cpu.CPU
	program []byte
	frames  uint64

	quirks cpu.Quirks
	rng    cpu.RandomSource
}

// Option configures an Emulator.
type Option func(*Emulator)

// WithQuirks selects interpreter variant behaviours.
func WithQuirks(q cpu.Quirks) Option {
	return func(e *Emulator) { e.quirks = q }
}

// WithRandom sets the source used by RND.
func WithRandom(rng cpu.RandomSource) Option {
	return func(e *Emulator) { e.rng = rng }
}

// New creates a new emulator instance with no program loaded.
func New(opts ...Option) *Emulator {
	e := &Emulator{}
	for _, opt := range opts {
		opt(e)
	}
	e.cpu = cpu.New(e.quirks, e.rng)

	return e
}

// NewWithFile creates a new emulator instance and loads the file specified into it.
func NewWithFile(path string, opts ...Option) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	e := New(opts...)
	if err := e.Load(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))
	return e, nil
}

// Load resets the machine and installs program at 0x200. On error the
// emulator keeps its previous state.
func (e *Emulator) Load(program []byte) error {
	if err := e.cpu.Load(program); err != nil {
		return err
	}

	e.program = append(e.program[:0], program...)
	e.frames = 0
	return nil
}

// Reset restores the power-on state and reloads the last loaded program.
func (e *Emulator) Reset() {
	if err := e.cpu.Load(e.program); err != nil {
		slog.Error("Failed to reload program", "error", err)
		return
	}
	e.frames = 0
	slog.Info("Emulator reset", "bytes", len(e.program))
}

// Step executes a single instruction.
func (e *Emulator) Step() error {
	return e.cpu.Step()
}

// Tick decrements the timers once. Call it at 60 Hz.
func (e *Emulator) Tick() {
	e.cpu.Tick()
}

// RunFrame executes up to instructions steps, stopping at the first error,
// then ticks the timers once.
func (e *Emulator) RunFrame(instructions int) error {
	for i := 0; i < instructions; i++ {
		if err := e.cpu.Step(); err != nil {
			return err
		}
	}

	e.cpu.Tick()
	e.frames++
	return nil
}

// Frame returns a copy of the current display.
func (e *Emulator) Frame() video.Frame { return e.cpu.Frame() }

// Dirty reports whether the display changed since the last ClearDirty.
func (e *Emulator) Dirty() bool { return e.cpu.Dirty() }

func (e *Emulator) ClearDirty() { e.cpu.ClearDirty() }

// ToneActive reports whether the buzzer should sound.
func (e *Emulator) ToneActive() bool { return e.cpu.ToneActive() }

// SetKey implements input.KeySink.
func (e *Emulator) SetKey(key uint8, down bool) { e.cpu.SetKey(key, down) }

func (e *Emulator) SetKeys(keys [input.KeyCount]bool) { e.cpu.SetKeys(keys) }

// Halted reports whether a fatal error stopped execution.
func (e *Emulator) Halted() bool { return e.cpu.GetState() == cpu.Halted }

func (e *Emulator) Snapshot() cpu.Snapshot { return e.cpu.Snapshot() }

// Frames returns the number of frames run since the last load or reset.
func (e *Emulator) Frames() uint64 { return e.frames }

// Instructions returns the number of instructions executed since the last
// load or reset.
func (e *Emulator) Instructions() uint64 { return e.cpu.GetCycles() }

func (e *Emulator) Quirks() cpu.Quirks { return e.quirks }

var _ input.KeySink = (*Emulator)(nil)
