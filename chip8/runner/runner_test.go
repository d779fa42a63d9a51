package runner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/runner"
	"github.com/valerio/go-chip8/chip8/video"
)

// MockBackend returns predetermined events per frame and records what it was shown.
type MockBackend struct {
	script    map[int][]backend.InputEvent
	quitAfter int
	err       error

	updateCalls int
	statuses    []backend.Status
	lastFrame   video.Frame
	handled     []action.Action
}

func (m *MockBackend) Init(config backend.BackendConfig) error { return nil }

func (m *MockBackend) Update(frame video.Frame, status backend.Status) ([]backend.InputEvent, error) {
	m.updateCalls++
	m.lastFrame = frame
	m.statuses = append(m.statuses, status)
	if m.err != nil {
		return nil, m.err
	}

	events := m.script[m.updateCalls]
	if m.quitAfter > 0 && m.updateCalls >= m.quitAfter {
		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}
	return events, nil
}

func (m *MockBackend) Cleanup() error { return nil }

func (m *MockBackend) HandleAction(act action.Action) {
	m.handled = append(m.handled, act)
}

func press(act action.Action) backend.InputEvent {
	return backend.InputEvent{Action: act, Type: event.Press}
}

func newEmulator(t *testing.T, program ...byte) *chip8.Emulator {
	t.Helper()
	emu := chip8.New(chip8.WithRandom(cpu.NewSequenceRandom()))
	require.NoError(t, emu.Load(program))
	return emu
}

// LD V0, 1; ADD V1, V0; JP 0x202
var counter = []byte{0x60, 0x01, 0x81, 0x04, 0x12, 0x02}

func TestRunner_quit(t *testing.T) {
	emu := newEmulator(t, counter...)
	mock := &MockBackend{quitAfter: 3}

	err := runner.New(emu, mock, runner.Config{InstructionsPerFrame: 10}).Run()
	require.NoError(t, err)

	assert.Equal(t, 3, mock.updateCalls)
	assert.Equal(t, uint64(3), emu.Frames())
	assert.Equal(t, uint64(30), emu.Snapshot().Cycles)
	assert.Equal(t, uint64(3), mock.statuses[2].Frame)
}

func TestRunner_ticksOncePerFrame(t *testing.T) {
	// LD V0, 10; LD DT, V0; JP 0x204
	emu := newEmulator(t, 0x60, 0x0A, 0xF0, 0x15, 0x12, 0x04)
	mock := &MockBackend{quitAfter: 4}

	require.NoError(t, runner.New(emu, mock, runner.Config{InstructionsPerFrame: 50}).Run())
	assert.Equal(t, uint8(6), emu.Snapshot().Delay)
}

func TestRunner_pause(t *testing.T) {
	emu := newEmulator(t, counter...)
	mock := &MockBackend{
		script:    map[int][]backend.InputEvent{1: {press(action.EmulatorPauseToggle)}},
		quitAfter: 5,
	}

	r := runner.New(emu, mock, runner.Config{InstructionsPerFrame: 4})
	require.NoError(t, r.Run())

	assert.True(t, r.Paused())
	assert.Equal(t, uint64(1), emu.Frames(), "no frames run while paused")
	assert.Equal(t, 5, mock.updateCalls, "rendering continues while paused")
	assert.True(t, mock.statuses[4].Paused)
}

func TestRunner_keypadEvents(t *testing.T) {
	// LD V2, K; LD V3, 1; JP 0x204
	emu := newEmulator(t, 0xF2, 0x0A, 0x63, 0x01, 0x12, 0x04)
	mock := &MockBackend{
		script: map[int][]backend.InputEvent{
			2: {press(action.KeyB)},
		},
		quitAfter: 4,
	}

	require.NoError(t, runner.New(emu, mock, runner.Config{InstructionsPerFrame: 3}).Run())

	snap := emu.Snapshot()
	assert.Equal(t, uint8(0xB), snap.V[2])
	assert.Equal(t, uint8(1), snap.V[3])
	assert.Equal(t, cpu.AwaitingKey, mock.statuses[1].CPU.State)
}

func TestRunner_reset(t *testing.T) {
	emu := newEmulator(t, counter...)
	mock := &MockBackend{
		script:    map[int][]backend.InputEvent{2: {press(action.EmulatorReset)}},
		quitAfter: 3,
	}

	require.NoError(t, runner.New(emu, mock, runner.Config{InstructionsPerFrame: 10}).Run())

	// only the last frame ran after the reset
	assert.Equal(t, uint64(1), emu.Frames())
	assert.Equal(t, uint64(10), emu.Snapshot().Cycles)
}

func TestRunner_backendActions(t *testing.T) {
	emu := newEmulator(t, counter...)
	mock := &MockBackend{
		script: map[int][]backend.InputEvent{
			1: {press(action.EmulatorSnapshot), press(action.DebugLogLevelIncrease)},
		},
		quitAfter: 2,
	}

	require.NoError(t, runner.New(emu, mock, runner.Config{}).Run())
	assert.Equal(t, []action.Action{action.EmulatorSnapshot, action.DebugLogLevelIncrease}, mock.handled)
}

func TestRunner_fatalError(t *testing.T) {
	// LD V0, 1; RET
	emu := newEmulator(t, 0x60, 0x01, 0x00, 0xEE)
	mock := &MockBackend{quitAfter: 10}

	err := runner.New(emu, mock, runner.Config{InstructionsPerFrame: 10}).Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)

	// the halted state is still presented once
	assert.Equal(t, 1, mock.updateCalls)
	assert.Equal(t, cpu.Halted, mock.statuses[0].CPU.State)
}

func TestRunner_backendError(t *testing.T) {
	emu := newEmulator(t, counter...)
	boom := errors.New("boom")
	mock := &MockBackend{err: boom}

	err := runner.New(emu, mock, runner.Config{}).Run()
	assert.ErrorIs(t, err, boom)
}

func TestRunner_rendersFrame(t *testing.T) {
	// LD I, 0x050; DRW V0, V0, 5; JP 0x204
	emu := newEmulator(t, 0xA0, 0x50, 0xD0, 0x05, 0x12, 0x04)
	mock := &MockBackend{quitAfter: 1}

	require.NoError(t, runner.New(emu, mock, runner.Config{InstructionsPerFrame: 3}).Run())
	assert.Equal(t, emu.Frame(), mock.lastFrame)
	assert.True(t, mock.lastFrame[0][0])
}
