package backend

import (
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, log filters)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and returns the input events collected since
	// the previous call.
	Update(frame video.Frame, status Status) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to emulator actions
// themselves, e.g. taking a snapshot of what they display.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// InputEvent is a single action produced by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Status is the machine state shown next to the display.
type Status struct {
	CPU    cpu.Snapshot
	Tone   bool
	Paused bool
	Frame  uint64
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title string
	Scale int // window scale, ignored by text backends
}
