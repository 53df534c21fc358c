package led

import (
	"fmt"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/gpio"
	"github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

type outPin interface {
	High()
	Low()
}

type LED struct {
	pin     outPin
	on      bool
	release func() error
}

// New claims the pin as an output and leaves the light off.
func New(cfg config.IndicatorConfig) (*LED, error) {
	err := gpio.Open()
	if err != nil {
		return nil, fmt.Errorf("failed opening gpio for led - %w", err)
	}

	pin := rpio.Pin(cfg.Pin)
	pin.Output()

	logrus.WithField("pin", cfg.Pin).Info("led ready")
	return newLED(pin, gpio.Close), nil
}

func newLED(pin outPin, release func() error) *LED {
	l := &LED{pin: pin, release: release}
	l.Off()
	return l
}

func (l *LED) On() error {
	l.pin.High()
	l.on = true
	return nil
}

func (l *LED) Off() error {
	l.pin.Low()
	l.on = false
	return nil
}

func (l *LED) Toggle() error {
	if l.on {
		return l.Off()
	}
	return l.On()
}

func (l *LED) IsOn() bool {
	return l.on
}

func (l *LED) Close() error {
	l.Off()
	if l.release == nil {
		return nil
	}
	return l.release()
}
