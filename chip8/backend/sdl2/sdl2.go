//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultScale  = 10
	bytesPerPixel = 4
	pixelOn       = 0xFF
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.BackendConfig

	events       []backend.InputEvent
	pixels       []byte
	currentFrame video.Frame
	toneShown    bool
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame video.Frame, status backend.Status) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if status.Tone != s.toneShown {
		s.toneShown = status.Tone
		title := s.config.Title
		if status.Tone {
			title += " ♪"
		}
		s.window.SetTitle(title)
	}

	s.currentFrame = frame
	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	events := s.events
	s.events = nil
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		debug.TakeSnapshot(s.currentFrame)
	}
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.push(action.EmulatorQuit, event.Press)

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		if e.Type == sdl.KEYDOWN {
			if e.Repeat != 0 {
				return
			}
			s.push(act, event.Press)
		} else if e.Type == sdl.KEYUP {
			// only the keypad tracks releases
			if _, keypad := action.KeypadKey(act); keypad {
				s.push(act, event.Release)
			}
		}
	}
}

func (s *Backend) push(act action.Action, evt event.Type) {
	s.events = append(s.events, backend.InputEvent{Action: act, Type: evt})
}

// sdlKeyNames converts SDL keys to key names used in default mappings
var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_p:      "p",
	sdl.K_F5:     "F5",
	sdl.K_F9:     "F9",
	sdl.K_ESCAPE: "Escape",
	sdl.K_EQUALS: "=",
	sdl.K_MINUS:  "-",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()

func (s *Backend) renderFrame(frame video.Frame) error {
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			var v byte
			if frame[y][x] {
				v = pixelOn
			}
			idx := (y*video.FramebufferWidth + x) * bytesPerPixel
			// ABGR byte order for little-endian RGBA8888
			s.pixels[idx] = 0xFF
			s.pixels[idx+1] = v
			s.pixels[idx+2] = v
			s.pixels[idx+3] = v
		}
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}
