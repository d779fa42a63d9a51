package chip8

import (
	"testing"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// counts, draws and loops without ever halting
var benchProgram = []byte{
	0x60, 0x00, // LD V0, 0
	0x61, 0x00, // LD V1, 0
	0xA0, 0x50, // LD I, 0x050
	0x70, 0x01, // ADD V0, 1
	0x80, 0x14, // ADD V0, V1
	0xD0, 0x15, // DRW V0, V1, 5
	0xC2, 0xFF, // RND V2, 0xFF
	0x12, 0x06, // JP 0x206
}

func BenchmarkEmulatorStep(b *testing.B) {
	emu := New(WithRandom(cpu.NewSeededRandom(1)))
	if err := emu.Load(benchProgram); err != nil {
		b.Fatalf("Failed to load program: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := emu.Step(); err != nil {
			b.Fatalf("Step failed: %v", err)
		}
	}
}

func BenchmarkEmulatorHeadless(b *testing.B) {
	emu := New(WithRandom(cpu.NewSeededRandom(1)))
	if err := emu.Load(benchProgram); err != nil {
		b.Fatalf("Failed to load program: %v", err)
	}

	hBackend := headless.New(0, headless.SnapshotConfig{})
	if err := hBackend.Init(backend.BackendConfig{Title: "Benchmark"}); err != nil {
		b.Fatalf("Failed to initialize backend: %v", err)
	}
	defer hBackend.Cleanup()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := emu.RunFrame(12); err != nil {
			b.Fatalf("Frame failed: %v", err)
		}
		if _, err := hBackend.Update(emu.Frame(), backend.Status{}); err != nil {
			b.Fatalf("Backend update failed: %v", err)
		}
	}
}
