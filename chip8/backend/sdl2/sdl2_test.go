//go:build sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/veandco/go-sdl2/sdl"
)

func keyEvent(typ uint32, key sdl.Keycode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Repeat: repeat, Keysym: sdl.Keysym{Sym: key}}
}

func TestSDL2Backend_keyEvents(t *testing.T) {
	b := New()

	b.handleEvent(keyEvent(sdl.KEYDOWN, sdl.K_x, 0))
	b.handleEvent(keyEvent(sdl.KEYDOWN, sdl.K_x, 1))
	b.handleEvent(keyEvent(sdl.KEYUP, sdl.K_x, 0))
	b.handleEvent(keyEvent(sdl.KEYDOWN, sdl.K_ESCAPE, 0))
	b.handleEvent(keyEvent(sdl.KEYUP, sdl.K_ESCAPE, 0))
	b.handleEvent(keyEvent(sdl.KEYDOWN, sdl.K_k, 0))

	assert.Equal(t, []backend.InputEvent{
		{Action: action.Key0, Type: event.Press},
		{Action: action.Key0, Type: event.Release},
		{Action: action.EmulatorQuit, Type: event.Press},
	}, b.events)
}

func TestSDL2Backend_keyMappingCoversKeypad(t *testing.T) {
	seen := make(map[action.Action]bool)
	for _, act := range keyMapping {
		seen[act] = true
	}
	for key := uint8(0); key < 16; key++ {
		assert.True(t, seen[action.ForKey(key)], "key %X", key)
	}
}
