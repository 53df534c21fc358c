package motor

import (
	"errors"
	"fmt"
	"math"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/gpio"
	"github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

// CycleLength of 100 makes one pwm step one percent of duty.
const CycleLength = uint32(100)

type pwmPin interface {
	DutyCycle(dutyLen, cycleLen uint32)
}

type outPin interface {
	High()
	Low()
}

// piSide is an L298N style bridge: one pwm enable pin and two direction pins.
type piSide struct {
	enable  pwmPin
	forward outPin
	reverse outPin
}

func (s *piSide) Set(duty float64) error {
	switch {
	case duty > 0:
		s.reverse.Low()
		s.forward.High()
	case duty < 0:
		s.forward.Low()
		s.reverse.High()
	default:
		s.forward.Low()
		s.reverse.Low()
	}

	dutyLen := uint32(mapToRange(math.Abs(duty), MinDuty, MaxDuty, 0, float64(CycleLength)))
	s.enable.DutyCycle(dutyLen, CycleLength)
	return nil
}

func newPiSide(enable, forward, reverse, freq int) *piSide {
	enablePin := rpio.Pin(enable)
	enablePin.Mode(rpio.Pwm)
	enablePin.Freq(freq * int(CycleLength))

	forwardPin := rpio.Pin(forward)
	forwardPin.Output()
	reversePin := rpio.Pin(reverse)
	reversePin.Output()

	return &piSide{
		enable:  enablePin,
		forward: forwardPin,
		reverse: reversePin,
	}
}

// NewPiPwm drives both sides from the Pi's own pwm and gpio pins.
func NewPiPwm(cfg config.PiPwmConfig) (*Differential, error) {
	err := gpio.Open()
	if err != nil {
		return nil, fmt.Errorf("failed opening gpio for motor - %w", err)
	}

	left := newPiSide(cfg.LeftEnable, cfg.LeftForward, cfg.LeftReverse, cfg.Frequency)
	right := newPiSide(cfg.RightEnable, cfg.RightForward, cfg.RightReverse, cfg.Frequency)

	logrus.WithFields(logrus.Fields{
		"left_enable":  cfg.LeftEnable,
		"right_enable": cfg.RightEnable,
		"freq":         cfg.Frequency,
	}).Info("pi pwm motor driver ready")

	d := NewDifferential(config.MotorDriverPiPWM, left, right, gpio.Close)
	if err := d.Stop(); err != nil {
		return nil, errors.Join(err, gpio.Close())
	}
	return d, nil
}
