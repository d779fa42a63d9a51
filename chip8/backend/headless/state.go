package headless

import (
	"fmt"
	"strings"

	tm "github.com/buger/goterm"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/video"
)

// FormatState renders the registers, timers and display as text tables.
func FormatState(frame video.Frame, status backend.Status) string {
	snap := status.CPU

	var sb strings.Builder
	sb.WriteString(tm.Bold("Machine state") + "\n")

	regs := tm.NewTable(0, 8, 1, ' ', 0)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			reg := row*4 + col
			fmt.Fprintf(regs, "V%X\t0x%02X\t", reg, snap.V[reg])
		}
		fmt.Fprintln(regs)
	}
	sb.WriteString(regs.String())

	misc := tm.NewTable(0, 8, 1, ' ', 0)
	fmt.Fprintf(misc, "PC\tI\tSP\tDT\tST\tTone\tState\tCycles\tFrames\n")
	fmt.Fprintf(misc, "0x%03X\t0x%03X\t%d\t%d\t%d\t%t\t%s\t%d\t%d\n",
		snap.PC, snap.I, len(snap.Stack), snap.Delay, snap.Sound,
		status.Tone, snap.StateText(), snap.Cycles, status.Frame)
	sb.WriteString(misc.String())

	if len(snap.Stack) > 0 {
		frames := make([]string, len(snap.Stack))
		for i, addr := range snap.Stack {
			frames[i] = fmt.Sprintf("0x%03X", addr)
		}
		sb.WriteString("Stack: " + strings.Join(frames, " ") + "\n")
	}

	sb.WriteString(frame.String())
	return sb.String()
}
