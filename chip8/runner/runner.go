package runner

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator is the part of chip8.Emulator the run loop drives.
type Emulator interface {
	input.KeySink
	RunFrame(instructions int) error
	Frame() video.Frame
	ToneActive() bool
	Snapshot() cpu.Snapshot
	Frames() uint64
	Reset()
}

// Config holds the pacing parameters of the run loop.
type Config struct {
	// InstructionsPerFrame is the number of steps between two timer ticks.
	InstructionsPerFrame int
	// Limiter paces frames. Nil runs unthrottled.
	Limiter timing.Limiter
}

// Runner drives an emulator and a backend: it runs a frame worth of
// instructions, ticks the timers, renders and dispatches input.
type Runner struct {
	emu     Emulator
	backend backend.Backend
	input   *input.Manager
	limiter timing.Limiter
	ipf     int

	running bool
	paused  bool
}

func New(emu Emulator, be backend.Backend, config Config) *Runner {
	r := &Runner{
		emu:     emu,
		backend: be,
		input:   input.NewManager(emu),
		limiter: config.Limiter,
		ipf:     config.InstructionsPerFrame,
	}
	if r.limiter == nil {
		r.limiter = timing.NewNoOpLimiter()
	}
	if r.ipf < 1 {
		r.ipf = timing.InstructionsPerFrame(timing.DefaultInstructionsPerSecond)
	}

	r.setupHandlers()
	return r
}

func (r *Runner) setupHandlers() {
	r.input.On(action.EmulatorQuit, event.Press, func() {
		r.running = false
	})
	r.input.On(action.EmulatorPauseToggle, event.Press, func() {
		r.paused = !r.paused
		if r.paused {
			slog.Info("Emulation paused")
		} else {
			r.limiter.Reset()
			slog.Info("Emulation resumed")
		}
	})
	r.input.On(action.EmulatorReset, event.Press, func() {
		r.emu.Reset()
	})

	handler, ok := r.backend.(backend.ActionHandler)
	if !ok {
		return
	}
	for _, act := range []action.Action{
		action.EmulatorSnapshot,
		action.DebugLogLevelIncrease,
		action.DebugLogLevelDecrease,
	} {
		r.input.On(act, event.Press, func() { handler.HandleAction(act) })
	}
}

// Paused reports whether execution is suspended.
func (r *Runner) Paused() bool {
	return r.paused
}

// Run loops until the backend asks to quit, the backend fails or the
// emulator hits a fatal error. Quitting returns nil.
func (r *Runner) Run() error {
	r.running = true
	r.limiter.Reset()

	for r.running {
		if !r.paused {
			if err := r.emu.RunFrame(r.ipf); err != nil {
				slog.Error("Emulation stopped", "error", err, "frames", r.emu.Frames())
				// show the state execution stopped in
				if _, uerr := r.backend.Update(r.emu.Frame(), r.status()); uerr != nil {
					slog.Warn("Final backend update failed", "error", uerr)
				}
				return err
			}
		}

		events, err := r.backend.Update(r.emu.Frame(), r.status())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}

		for _, evt := range events {
			r.input.Trigger(evt.Action, evt.Type)
		}

		if r.running {
			r.limiter.WaitForNextFrame()
		}
	}

	slog.Info("Emulation finished", "frames", r.emu.Frames(), "instructions", r.emu.Snapshot().Cycles)
	return nil
}

func (r *Runner) status() backend.Status {
	return backend.Status{
		CPU:    r.emu.Snapshot(),
		Tone:   r.emu.ToneActive(),
		Paused: r.paused,
		Frame:  r.emu.Frames(),
	}
}
