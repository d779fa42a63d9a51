//go:build !sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestStub(t *testing.T) {
	var b backend.Backend = New()

	assert.ErrorIs(t, b.Init(backend.BackendConfig{}), ErrNotAvailable)
	_, err := b.Update(video.Frame{}, backend.Status{})
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.NoError(t, b.Cleanup())
}
