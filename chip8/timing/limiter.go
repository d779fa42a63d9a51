package timing

import "time"

// Limiter paces the run loop to the timer frequency.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TickerLimiter paces frames on a time.Ticker. Ticks missed while a frame
// ran long are dropped, so it never bursts to catch up.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
}

// NewTickerLimiter ticks once per frame at TimerHz.
func NewTickerLimiter() *TickerLimiter {
	return newTickerLimiter(FrameDuration())
}

func newTickerLimiter(period time.Duration) *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period and discards a tick left over from before a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
	select {
	case <-t.ticker.C:
	default:
	}
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}

const (
	// TimerHz is the rate the delay and sound timers count down at. One
	// frame of the run loop corresponds to one timer tick.
	TimerHz = 60

	// DefaultInstructionsPerSecond is a speed most games are written for.
	DefaultInstructionsPerSecond = 700
)

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TimerHz
}

// InstructionsPerFrame returns how many instructions to run between two
// timer ticks for the given clock rate, rounded to nearest and never below one.
func InstructionsPerFrame(ips int) int {
	n := (ips + TimerHz/2) / TimerHz
	if n < 1 {
		return 1
	}
	return n
}
