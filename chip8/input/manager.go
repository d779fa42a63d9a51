package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// KeySink receives keypad state changes, usually the emulator.
type KeySink interface {
	SetKey(key uint8, down bool)
}

// Manager handles input actions and their associated callbacks.
// Keypad actions go straight to the sink, everything else is dispatched to
// the callbacks registered with On.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	sink          KeySink
	now           func() time.Time
}

func NewManager(sink KeySink) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		sink:          sink,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := action.KeypadKey(act); ok {
		// keypad state is never debounced, games poll it every frame
		if m.sink != nil {
			m.sink.SetKey(key, evt != event.Release)
		}
		return
	}

	// Debounce Press and Release events
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		if last, ok := m.lastTriggered[act][evt]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
