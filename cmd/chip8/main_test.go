package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/timing"
)

func writeROM(t *testing.T, program []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	require.NoError(t, os.WriteFile(path, program, 0o644))
	return path
}

// LD I, 0x050; DRW V0, V0, 5; JP 0x204
var drawLoop = []byte{0xA0, 0x50, 0xD0, 0x05, 0x12, 0x04}

func TestRun_headless(t *testing.T) {
	rom := writeROM(t, drawLoop)
	dir := t.TempDir()

	err := newApp().Run([]string{"chip8",
		"--backend", "headless",
		"--frames", "3",
		"--snapshot-interval", "3",
		"--snapshot-dir", dir,
		"--log-level", "warn",
		rom,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "test_frame_3.txt"))
}

func TestRun_fatalErrorIsReturned(t *testing.T) {
	// RET with an empty stack
	rom := writeROM(t, []byte{0x00, 0xEE})

	err := newApp().Run([]string{"chip8", "--backend", "headless", "--frames", "3", "--rom", rom})
	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
}

func TestRun_errors(t *testing.T) {
	rom := writeROM(t, drawLoop)

	testCases := []struct {
		desc string
		args []string
	}{
		{desc: "no rom", args: []string{"chip8", "--backend", "headless", "--frames", "1"}},
		{desc: "missing rom file", args: []string{"chip8", "--backend", "headless", "--frames", "1", "nope.ch8"}},
		{desc: "headless without frames", args: []string{"chip8", "--backend", "headless", rom}},
		{desc: "unknown backend", args: []string{"chip8", "--backend", "vga", rom}},
		{desc: "bad log level", args: []string{"chip8", "--log-level", "loud", rom}},
		{desc: "unknown limiter", args: []string{"chip8", "--limiter", "sundial", rom}},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Error(t, newApp().Run(tC.args))
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	level, err = parseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())
}

func TestNewLimiter(t *testing.T) {
	l, err := newLimiter("ticker")
	require.NoError(t, err)
	assert.IsType(t, &timing.TickerLimiter{}, l)
	l.(*timing.TickerLimiter).Stop()

	l, err = newLimiter("adaptive")
	require.NoError(t, err)
	assert.IsType(t, &timing.AdaptiveLimiter{}, l)

	_, err = newLimiter("")
	assert.Error(t, err)
}
