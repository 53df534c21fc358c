// Package infrared reads a digital infrared obstacle module.
package infrared

import (
	"fmt"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/gpio"
	"github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

type inPin interface {
	Read() rpio.State
}

type Sensor struct {
	pin     inPin
	active  rpio.State
	release func() error
}

func New(cfg config.InfraredConfig) (*Sensor, error) {
	err := gpio.Open()
	if err != nil {
		return nil, fmt.Errorf("failed opening gpio for infrared - %w", err)
	}

	pin := rpio.Pin(cfg.Pin)
	pin.Input()
	pin.PullUp()

	logrus.WithFields(logrus.Fields{
		"pin":        cfg.Pin,
		"active_low": cfg.ActiveLow,
	}).Info("infrared sensor ready")
	return newSensor(pin, cfg.ActiveLow, gpio.Close), nil
}

func newSensor(pin inPin, activeLow bool, release func() error) *Sensor {
	active := rpio.High
	if activeLow {
		active = rpio.Low
	}
	return &Sensor{pin: pin, active: active, release: release}
}

// Detected reports whether something is in front of the module.
func (s *Sensor) Detected() bool {
	return s.pin.Read() == s.active
}

func (s *Sensor) Close() error {
	logrus.Info("closing infrared sensor")
	if s.release == nil {
		return nil
	}
	return s.release()
}
