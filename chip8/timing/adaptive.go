package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	startTime       time.Time
	frameCounter    int64

	now func() time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	a := &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		now:             time.Now,
	}
	a.Reset()
	return a
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			time.Sleep(sleepTime - time.Millisecond)
		}
		// busy-wait the last stretch, higher accuracy.
		for a.now().Before(a.nextFrameTime) {
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind, don't try to catch up
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%TimerHz == 0 {
		elapsed := a.now().Sub(a.startTime)
		expected := time.Duration(a.frameCounter) * a.targetFrameTime
		drift := elapsed - expected

		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(-drift / 10)
			slog.Debug("Frame timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"fps", float64(a.frameCounter)/elapsed.Seconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.startTime = a.now()
	a.nextFrameTime = a.startTime
	a.frameCounter = 0
}
