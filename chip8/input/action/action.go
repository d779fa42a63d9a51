package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hex keypad, the value of each action is the key index
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorPauseToggle
	EmulatorReset
	EmulatorSnapshot
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

// Info describes an action for logs and help output.
type Info struct {
	Description string
	Category    Category
}

var infos = map[Action]Info{
	EmulatorPauseToggle:   {"Pause/Resume", CategoryEmulator},
	EmulatorReset:         {"Reset", CategoryEmulator},
	EmulatorSnapshot:      {"Snapshot", CategoryEmulator},
	EmulatorQuit:          {"Quit", CategoryEmulator},
	DebugLogLevelIncrease: {"Log level up", CategoryDebug},
	DebugLogLevelDecrease: {"Log level down", CategoryDebug},
}

// GetInfo returns the description and category of act.
func GetInfo(act Action) Info {
	if key, ok := KeypadKey(act); ok {
		return Info{Description: fmt.Sprintf("Key %X", key), Category: CategoryKeypad}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryEmulator}
}

// KeypadKey returns the keypad index for a keypad action.
func KeypadKey(act Action) (uint8, bool) {
	if act >= Key0 && act <= KeyF {
		return uint8(act - Key0), true
	}
	return 0, false
}

// ForKey returns the keypad action for key index 0x0-0xF.
func ForKey(key uint8) Action {
	return Key0 + Action(key&0x0F)
}
