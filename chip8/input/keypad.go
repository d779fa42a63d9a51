package input

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad holds the down state of the 16 hex keys. Key indices are taken
// modulo 16, so a register holding 0x1A refers to key A.
type Keypad struct {
	keys [KeyCount]bool
}

// Set updates a single key.
func (k *Keypad) Set(key uint8, down bool) {
	k.keys[key&0x0F] = down
}

// SetAll replaces the whole keypad state.
func (k *Keypad) SetAll(keys [KeyCount]bool) {
	k.keys = keys
}

func (k *Keypad) IsPressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// State returns a copy of the keypad state.
func (k *Keypad) State() [KeyCount]bool {
	return k.keys
}

func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}
