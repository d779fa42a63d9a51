package video

import "strings"

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32

	spriteWidth = 8
)

// Frame is a copy of the display contents, indexed [y][x].
type Frame [FramebufferHeight][FramebufferWidth]bool

// Pixel returns the pixel at x, y. Out of range coordinates read as clear.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= FramebufferWidth || y >= FramebufferHeight {
		return false
	}
	return f[y][x]
}

// Count returns the number of set pixels.
func (f *Frame) Count() int {
	n := 0
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				n++
			}
		}
	}
	return n
}

// String renders the frame as text, '#' for set pixels and '.' for clear ones.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow((FramebufferWidth + 1) * FramebufferHeight)
	for y := range f {
		for x := range f[y] {
			if f[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FrameBuffer is the monochrome 64x32 display. The zero value is a clear screen.
type FrameBuffer struct {
	frame Frame
	dirty bool
}

// NewFrameBuffer creates a clear frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) GetPixel(x, y int) bool {
	return fb.frame.Pixel(x, y)
}

// Frame returns a copy of the current display contents.
func (fb *FrameBuffer) Frame() Frame {
	return fb.frame
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.frame = Frame{}
	fb.dirty = true
}

// DrawSprite XORs sprite, one byte per row with the MSB leftmost, onto the
// display. The origin wraps around the screen; pixels that fall past the right
// or bottom edge are clipped, or wrapped around when wrap is set.
// Returns true if any lit pixel was turned off.
func (fb *FrameBuffer) DrawSprite(x, y uint8, sprite []byte, wrap bool) bool {
	originX := int(x) % FramebufferWidth
	originY := int(y) % FramebufferHeight
	collision := false

	for row, line := range sprite {
		py := originY + row
		if py >= FramebufferHeight {
			if !wrap {
				break
			}
			py %= FramebufferHeight
		}

		for col := 0; col < spriteWidth; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}

			px := originX + col
			if px >= FramebufferWidth {
				if !wrap {
					break
				}
				px %= FramebufferWidth
			}

			if fb.frame[py][px] {
				collision = true
			}
			fb.frame[py][px] = !fb.frame[py][px]
		}
	}

	fb.dirty = true
	return collision
}

// Dirty reports whether the display changed since the last ClearDirty.
func (fb *FrameBuffer) Dirty() bool {
	return fb.dirty
}

func (fb *FrameBuffer) ClearDirty() {
	fb.dirty = false
}
