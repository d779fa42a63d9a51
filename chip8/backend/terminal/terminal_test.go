package terminal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

func newSimBackend(t *testing.T) (*Backend, tcell.SimulationScreen, *time.Time) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	screen := tcell.NewSimulationScreen("UTF-8")
	b := New()
	clock := time.Unix(1000, 0)
	b.now = func() time.Time { return clock }

	require.NoError(t, b.initWithScreen(screen, backend.BackendConfig{Title: "test"}))
	screen.SetSize(100, 40)
	t.Cleanup(func() { b.Cleanup() })

	return b, screen, &clock
}

func cellAt(screen tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := screen.GetContents()
	runes := cells[y*w+x].Runes
	if len(runes) == 0 {
		return ' '
	}
	return runes[0]
}

func TestTerminal_keypadPressHoldRelease(t *testing.T) {
	b, screen, clock := newSimBackend(t)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	events, err := b.Update(video.Frame{}, backend.Status{})
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key4, Type: event.Press}}, events)

	*clock = clock.Add(50 * time.Millisecond)
	events, err = b.Update(video.Frame{}, backend.Status{})
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key4, Type: event.Hold}}, events)

	*clock = clock.Add(keyTimeout)
	events, err = b.Update(video.Frame{}, backend.Status{})
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: action.Key4, Type: event.Release}}, events)
}

func TestTerminal_controlKeys(t *testing.T) {
	testCases := []struct {
		desc string
		key  tcell.Key
		r    rune
		want action.Action
	}{
		{desc: "escape quits", key: tcell.KeyEscape, want: action.EmulatorQuit},
		{desc: "space pauses", key: tcell.KeyRune, r: ' ', want: action.EmulatorPauseToggle},
		{desc: "F5 resets", key: tcell.KeyF5, want: action.EmulatorReset},
		{desc: "F9 snapshots", key: tcell.KeyF9, want: action.EmulatorSnapshot},
		{desc: "plus raises log level", key: tcell.KeyRune, r: '+', want: action.DebugLogLevelIncrease},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			b, screen, _ := newSimBackend(t)

			screen.InjectKey(tC.key, tC.r, tcell.ModNone)
			events, err := b.Update(video.Frame{}, backend.Status{})
			require.NoError(t, err)
			assert.Equal(t, []backend.InputEvent{{Action: tC.want, Type: event.Press}}, events)
		})
	}
}

func TestTerminal_unmappedKeyIgnored(t *testing.T) {
	b, screen, _ := newSimBackend(t)

	screen.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	events, err := b.Update(video.Frame{}, backend.Status{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTerminal_rendersHalfBlocks(t *testing.T) {
	b, screen, _ := newSimBackend(t)

	var frame video.Frame
	frame[0][0] = true
	frame[1][0] = true
	frame[2][5] = true
	frame[31][63] = true

	_, err := b.Update(frame, backend.Status{})
	require.NoError(t, err)

	// the display starts inside the border at (1, 1)
	assert.Equal(t, '█', cellAt(screen, 1, 1))
	assert.Equal(t, '▀', cellAt(screen, 6, 2))
	assert.Equal(t, '▄', cellAt(screen, 64, 16))
	assert.Equal(t, ' ', cellAt(screen, 2, 1))
	assert.Equal(t, '┌', cellAt(screen, 0, 0))
}

func TestTerminal_statusLine(t *testing.T) {
	b, screen, _ := newSimBackend(t)

	status := backend.Status{Tone: true}
	status.CPU.PC = 0x2AE
	_, err := b.Update(video.Frame{}, status)
	require.NoError(t, err)

	cells, w, _ := screen.GetContents()
	var line []rune
	for x := 0; x < 12; x++ {
		line = append(line, cells[statusY*w+x].Runes...)
	}
	assert.Equal(t, "PC 0x2AE  I ", string(line))
}

func TestTerminal_changeLogLevel(t *testing.T) {
	b, _, _ := newSimBackend(t)
	assert.Equal(t, slog.LevelInfo, b.logLevel.Level())

	b.HandleAction(action.DebugLogLevelIncrease)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level())
	b.HandleAction(action.DebugLogLevelIncrease)
	assert.Equal(t, slog.LevelDebug, b.logLevel.Level())

	b.HandleAction(action.DebugLogLevelDecrease)
	b.HandleAction(action.DebugLogLevelDecrease)
	b.HandleAction(action.DebugLogLevelDecrease)
	b.HandleAction(action.DebugLogLevelDecrease)
	assert.Equal(t, slog.LevelError, b.logLevel.Level())
}

func TestTerminal_capturesLogs(t *testing.T) {
	b, _, _ := newSimBackend(t)

	slog.Info("hello from test")
	entries := b.logBuffer.GetRecent(1, slog.LevelDebug)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello from test", entries[0].Message)
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
	var _ backend.ActionHandler = (*Backend)(nil)
}
