package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// two pixel rows per terminal cell
	gameAreaHeight = height / 2
	statusY        = gameAreaHeight + 2
	logsY          = statusY + 4
	minTermWidth   = width + 2
	minTermHeight  = logsY + 3
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals only report key presses, a key counts as held while repeats keep
// arriving.
const keyTimeout = 150 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	logBuffer  *render.LogBuffer
	logLevel   *slog.LevelVar
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	currentFrame video.Frame
	now          func() time.Time
}

// New creates a new terminal backend
func New() *Backend {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	return &Backend{
		logLevel: level,
		now:      time.Now,
	}
}

// SetLogLevel sets the lowest level captured in the log pane.
func (t *Backend) SetLogLevel(level slog.Level) {
	t.logLevel.Set(level)
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initWithScreen(screen, config)
}

func (t *Backend) initWithScreen(screen tcell.Screen, config backend.BackendConfig) error {
	t.config = config
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	t.logBuffer = render.NewLogBuffer(100)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))
	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame video.Frame, status backend.Status) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	select {
	case <-t.signals:
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	// Check for released keys (were active last frame but not this frame)
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	t.currentFrame = frame
	t.render(frame, status)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if action.GetInfo(act).Category == action.CategoryKeypad {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF9:     "F9",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) == 1 {
			mapping[runes[0]] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}

	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render(frame video.Frame, status backend.Status) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	t.drawBorder(status)
	t.drawScreen(frame)
	t.drawStatus(status, termWidth)
	t.drawLogs(termWidth, termHeight)

	help := " 1234/QWER/ASDF/ZXCV=keypad SPACE=pause F5=reset F9=snapshot +/-=log level ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (t *Backend) drawBorder(status backend.Status) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	right := width + 1
	bottom := gameAreaHeight + 1

	for x := 1; x < right; x++ {
		t.screen.SetContent(x, 0, '─', nil, style)
		t.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := 1; y < bottom; y++ {
		t.screen.SetContent(0, y, '│', nil, style)
		t.screen.SetContent(right, y, '│', nil, style)
	}
	t.screen.SetContent(0, 0, '┌', nil, style)
	t.screen.SetContent(right, 0, '┐', nil, style)
	t.screen.SetContent(0, bottom, '└', nil, style)
	t.screen.SetContent(right, bottom, '┘', nil, style)

	title := " " + t.config.Title + " "
	if status.Paused {
		title += "[PAUSED] "
	}
	t.drawText(2, 0, width-2, title, tcell.StyleDefault.Foreground(tcell.ColorYellow))
}

func (t *Backend) drawScreen(frame video.Frame) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			char := render.HalfBlock(frame[y][x], frame[y+1][x])
			t.screen.SetContent(x+1, y/2+1, char, nil, style)
		}
	}
}

func (t *Backend) drawStatus(status backend.Status, termWidth int) {
	snap := status.CPU
	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)

	tone := ""
	if status.Tone {
		tone = "  ♪ TONE"
	}
	line := fmt.Sprintf("PC 0x%03X  I 0x%03X  SP %d  DT %3d  ST %3d  %s%s",
		snap.PC, snap.I, len(snap.Stack), snap.Delay, snap.Sound, snap.StateText(), tone)
	t.drawText(0, statusY, termWidth, line, style)

	for row := 0; row < 2; row++ {
		line = ""
		for reg := row * 8; reg < row*8+8; reg++ {
			line += fmt.Sprintf("V%X %02X  ", reg, snap.V[reg])
		}
		t.drawText(0, statusY+1+row, termWidth, line, style)
	}
}

func (t *Backend) drawLogs(termWidth, termHeight int) {
	title := fmt.Sprintf("─ Logs [%s] ", render.LevelTag(t.logLevel.Level()))
	t.drawText(0, logsY-1, termWidth, title, tcell.StyleDefault.Foreground(tcell.ColorYellow))

	rows := termHeight - 1 - logsY
	entries := t.logBuffer.GetRecent(rows, t.logLevel.Level())
	for i, entry := range entries {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		switch {
		case entry.Level >= slog.LevelError:
			style = style.Foreground(tcell.ColorRed)
		case entry.Level >= slog.LevelWarn:
			style = style.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = style.Foreground(tcell.ColorGray)
		}
		t.drawText(0, logsY+i, termWidth, render.FormatLogEntry(entry), style)
	}
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= maxWidth {
			return
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
