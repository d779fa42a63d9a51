package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/runner"
	"github.com/valerio/go-chip8/chip8/statsview"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Frontend to use: terminal, sdl2 or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "ips",
			Usage: "Instructions executed per second",
			Value: timing.DefaultInstructionsPerSecond,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive backends: adaptive or ticker",
			Value: "adaptive",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random number generator (default: random)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Minimum log level: debug, info, warn or error",
			Value: "info",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "dump-state",
			Usage: "Print the final machine state when a headless run ends",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: 10,
		},
		cli.BoolFlag{
			Name:  "quirk-shift-vy",
			Usage: "8XY6/8XYE shift VY into VX",
		},
		cli.BoolFlag{
			Name:  "quirk-load-store-i",
			Usage: "FX55/FX65 advance I past the last register",
		},
		cli.BoolFlag{
			Name:  "quirk-jump-vx",
			Usage: "BNNN jumps to NNN plus VX instead of V0",
		},
		cli.BoolFlag{
			Name:  "quirk-vf-reset",
			Usage: "8XY1/8XY2/8XY3 clear VF",
		},
		cli.BoolFlag{
			Name:  "quirk-wrap-sprites",
			Usage: "Sprites wrap around the screen edges instead of clipping",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics (requires -tags statsview)",
		},
		cli.StringFlag{
			Name:  "statsview-addr",
			Usage: "Listen address of the runtime statistics server",
			Value: statsview.DefaultAddress,
		},
	}
	app.Action = runEmulator

	return app
}

func runEmulator(c *cli.Context) error {
	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	stderrLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(stderrLogger)

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	if c.Bool("statsview") {
		stats := statsview.New(c.String("statsview-addr"))
		stats.Start()
		defer stats.Stop()
	}

	opts := []chip8.Option{chip8.WithQuirks(quirksFromFlags(c))}
	if c.IsSet("seed") {
		opts = append(opts, chip8.WithRandom(cpu.NewSeededRandom(c.Uint64("seed"))))
	}

	emu, err := chip8.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}

	be, limiter, err := createBackend(c, romPath, level)
	if err != nil {
		return err
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	config := backend.BackendConfig{
		Title: "CHIP-8 - " + romName,
		Scale: c.Int("scale"),
	}
	if err := be.Init(config); err != nil {
		return err
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
		// the terminal backend captures logs while it owns the screen
		slog.SetDefault(stderrLogger)
	}()

	ipf := timing.InstructionsPerFrame(c.Int("ips"))
	slog.Info("Starting emulation", "rom", romName, "instructions_per_frame", ipf, "quirks", fmt.Sprintf("%+v", emu.Quirks()))

	return runner.New(emu, be, runner.Config{
		InstructionsPerFrame: ipf,
		Limiter:              limiter,
	}).Run()
}

func createBackend(c *cli.Context, romPath string, level slog.Level) (backend.Backend, timing.Limiter, error) {
	switch name := c.String("backend"); name {
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}

		h := headless.New(frames, snapshotConfig)
		h.LogLevel = level
		if c.Bool("dump-state") {
			h.DumpState = os.Stdout
		}
		return h, timing.NewNoOpLimiter(), nil

	case "terminal":
		limiter, err := newLimiter(c.String("limiter"))
		if err != nil {
			return nil, nil, err
		}
		t := terminal.New()
		t.SetLogLevel(level)
		return t, limiter, nil

	case "sdl2":
		limiter, err := newLimiter(c.String("limiter"))
		if err != nil {
			return nil, nil, err
		}
		return sdl2.New(), limiter, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

func newLimiter(name string) (timing.Limiter, error) {
	switch name {
	case "adaptive":
		return timing.NewAdaptiveLimiter(), nil
	case "ticker":
		return timing.NewTickerLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", name)
	}
}

func quirksFromFlags(c *cli.Context) cpu.Quirks {
	return cpu.Quirks{
		ShiftUsesVY:          c.Bool("quirk-shift-vy"),
		LoadStoreIncrementsI: c.Bool("quirk-load-store-i"),
		JumpUsesVX:           c.Bool("quirk-jump-vx"),
		LogicResetsVF:        c.Bool("quirk-vf-reset"),
		WrapSprites:          c.Bool("quirk-wrap-sprites"),
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
