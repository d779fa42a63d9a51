package video

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var glyphZero = []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}

func TestDrawSprite_Basic(t *testing.T) {
	fb := NewFrameBuffer()

	collision := fb.DrawSprite(0, 0, []byte{0b10100000}, false)

	assert.False(t, collision)
	assert.True(t, fb.GetPixel(0, 0))
	assert.False(t, fb.GetPixel(1, 0))
	assert.True(t, fb.GetPixel(2, 0))
	assert.True(t, fb.Dirty())
}

func TestDrawSprite_Collision(t *testing.T) {
	tests := []struct {
		name      string
		first     byte
		second    byte
		collision bool
		remaining int
	}{
		{name: "disjoint pixels", first: 0xF0, second: 0x0F, collision: false, remaining: 8},
		{name: "overlapping pixel", first: 0x18, second: 0x10, collision: true, remaining: 1},
		{name: "same sprite erases", first: 0xFF, second: 0xFF, collision: true, remaining: 0},
		{name: "empty second sprite", first: 0xFF, second: 0x00, collision: false, remaining: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer()
			assert.False(t, fb.DrawSprite(10, 10, []byte{tt.first}, false))

			assert.Equal(t, tt.collision, fb.DrawSprite(10, 10, []byte{tt.second}, false))
			frame := fb.Frame()
			assert.Equal(t, tt.remaining, frame.Count())
		})
	}
}

func TestDrawSprite_Involution(t *testing.T) {
	fb := NewFrameBuffer()
	fb.DrawSprite(3, 4, []byte{0xAA, 0x55}, false)
	before := fb.Frame()

	for _, pos := range [][2]uint8{{0, 0}, {60, 30}, {20, 7}, {63, 31}} {
		fb.DrawSprite(pos[0], pos[1], glyphZero, false)
		fb.DrawSprite(pos[0], pos[1], glyphZero, false)
		assert.Equal(t, before, fb.Frame(), "double draw at %v must restore the frame", pos)
	}
}

func TestDrawSprite_OriginWraps(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(64+5, 32+2, []byte{0x80}, false)

	assert.True(t, fb.GetPixel(5, 2))
}

func TestDrawSprite_ClipsAtEdges(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(60, 30, []byte{0xFF, 0xFF, 0xFF, 0xFF}, false)
	frame := fb.Frame()

	// 4 columns x 2 rows remain on screen
	assert.Equal(t, 8, frame.Count())
	assert.True(t, frame.Pixel(63, 31))
	assert.False(t, frame.Pixel(0, 30), "columns must not wrap")
	assert.False(t, frame.Pixel(60, 0), "rows must not wrap")
}

func TestDrawSprite_WrapsWhenEnabled(t *testing.T) {
	fb := NewFrameBuffer()

	fb.DrawSprite(62, 31, []byte{0xF0, 0xF0}, true)
	frame := fb.Frame()

	assert.Equal(t, 8, frame.Count())
	assert.True(t, frame.Pixel(62, 31))
	assert.True(t, frame.Pixel(1, 31))
	assert.True(t, frame.Pixel(62, 0))
	assert.True(t, frame.Pixel(1, 0))
}

func TestClear(t *testing.T) {
	fb := NewFrameBuffer()
	fb.DrawSprite(0, 0, glyphZero, false)
	fb.ClearDirty()

	fb.Clear()

	frame := fb.Frame()
	assert.Zero(t, frame.Count())
	assert.True(t, fb.Dirty())
}

func TestFrame_IsACopy(t *testing.T) {
	fb := NewFrameBuffer()
	frame := fb.Frame()
	frame[0][0] = true

	assert.False(t, fb.GetPixel(0, 0))
}

func TestFrame_String(t *testing.T) {
	fb := NewFrameBuffer()
	fb.DrawSprite(0, 0, []byte{0xC0}, false)
	frame := fb.Frame()

	lines := strings.Split(strings.TrimSuffix(frame.String(), "\n"), "\n")
	assert.Len(t, lines, FramebufferHeight)
	assert.Equal(t, "##"+strings.Repeat(".", FramebufferWidth-2), lines[0])
	assert.Equal(t, strings.Repeat(".", FramebufferWidth), lines[1])
}

func TestFrame_PixelOutOfRange(t *testing.T) {
	var frame Frame
	assert.False(t, frame.Pixel(-1, 0))
	assert.False(t, frame.Pixel(FramebufferWidth, 0))
	assert.False(t, frame.Pixel(0, FramebufferHeight))
}
