package input

import "github.com/valerio/go-chip8/chip8/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// The keypad uses the usual QWERTY layout:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var DefaultKeyMap = map[string]action.Action{
	"1": action.Key1,
	"2": action.Key2,
	"3": action.Key3,
	"4": action.KeyC,
	"q": action.Key4,
	"w": action.Key5,
	"e": action.Key6,
	"r": action.KeyD,
	"a": action.Key7,
	"s": action.Key8,
	"d": action.Key9,
	"f": action.KeyE,
	"z": action.KeyA,
	"x": action.Key0,
	"c": action.KeyB,
	"v": action.KeyF,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"F5":     action.EmulatorReset,
	"F9":     action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
