package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePin struct {
	high bool
}

func (p *fakePin) High() { p.high = true }
func (p *fakePin) Low()  { p.high = false }

func TestLED(t *testing.T) {
	pin := &fakePin{high: true}
	released := false
	l := newLED(pin, func() error {
		released = true
		return nil
	})
	assert.False(t, pin.high, "new led starts off")

	require.NoError(t, l.On())
	assert.True(t, pin.high)
	assert.True(t, l.IsOn())

	require.NoError(t, l.Toggle())
	assert.False(t, pin.high)

	require.NoError(t, l.Toggle())
	assert.True(t, pin.high)

	require.NoError(t, l.Close())
	assert.False(t, pin.high)
	assert.True(t, released)
}
