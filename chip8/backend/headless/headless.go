package headless

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig

	// DumpState, when set, receives a table of the final machine state on Cleanup.
	DumpState io.Writer
	// LogLevel is the level of the stderr log handler installed by Init.
	LogLevel slog.Level

	lastFrame  video.Frame
	lastStatus backend.Status
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		LogLevel:       slog.LevelInfo,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: h.LogLevel,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update processes a frame and handles snapshots
func (h *Backend) Update(frame video.Frame, status backend.Status) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.frameCount++
	h.lastFrame = frame
	h.lastStatus = status

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}

		if h.snapshotConfig.Enabled {
			slog.Info("Headless execution completed", "frames", h.frameCount, "snapshots_saved_to", h.snapshotConfig.Directory)
		} else {
			slog.Info("Headless execution completed", "frames", h.frameCount)
		}

		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}

	return events, nil
}

// HandleAction saves a snapshot on request.
func (h *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		h.saveSnapshot(h.lastFrame)
	}
}

func (h *Backend) Cleanup() error {
	if h.DumpState == nil {
		return nil
	}
	if _, err := io.WriteString(h.DumpState, FormatState(h.lastFrame, h.lastStatus)); err != nil {
		return fmt.Errorf("failed to write state dump: %w", err)
	}
	return nil
}

// Frames returns the number of frames processed so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chip8-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	// Extract ROM name for snapshot filenames
	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

func (h *Backend) saveSnapshot(frame video.Frame) {
	baseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)

	if _, err := debug.SaveFrameText(frame, baseName, h.snapshotConfig.Directory); err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "error", err)
	}
}
