// Package statsview serves live runtime charts (heap, goroutines, GC pauses)
// and pprof endpoints while the emulator runs. The server is only compiled
// in with the statsview build tag; other builds get a stub that logs a warning.
package statsview
