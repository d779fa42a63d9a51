package timer

// Timers holds the delay and sound countdowns. Both count down by one per
// Tick and stop at zero; the tone is active while the sound timer is non-zero.
type Timers struct {
	delay uint8
	sound uint8
}

// Tick decrements both timers once, clamping at zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

func (t *Timers) Delay() uint8 { return t.delay }
func (t *Timers) Sound() uint8 { return t.sound }

func (t *Timers) SetDelay(value uint8) { t.delay = value }
func (t *Timers) SetSound(value uint8) { t.sound = value }

// ToneActive reports whether the buzzer should be sounding.
func (t *Timers) ToneActive() bool {
	return t.sound > 0
}

func (t *Timers) Reset() {
	*t = Timers{}
}
