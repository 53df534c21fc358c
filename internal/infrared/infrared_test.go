package infrared

import (
	"testing"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"
)

type fakePin struct {
	state rpio.State
}

func (p *fakePin) Read() rpio.State { return p.state }

func TestDetected(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		state     rpio.State
		want      bool
	}{
		{"active low pulled down", true, rpio.Low, true},
		{"active low idle", true, rpio.High, false},
		{"active high raised", false, rpio.High, true},
		{"active high idle", false, rpio.Low, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSensor(&fakePin{state: tt.state}, tt.activeLow, nil)
			assert.Equal(t, tt.want, s.Detected())
		})
	}
}

func TestCloseReleasesGpio(t *testing.T) {
	released := 0
	s := newSensor(&fakePin{}, true, func() error {
		released++
		return nil
	})

	assert.NoError(t, s.Close())
	assert.Equal(t, 1, released)
}
