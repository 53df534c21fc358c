package motor

import (
	"errors"
	"fmt"
	"math"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/googolgl/go-i2c"
	"github.com/googolgl/go-pca9685"
	"github.com/sirupsen/logrus"
)

const pcaMaxCount = 4095 // 12 bit off count

type channelSetter interface {
	SetChannel(chann, on, off int) error
}

// pcaSide drives one H-bridge from two PCA9685 channels. Only the channel for
// the current direction carries pwm.
type pcaSide struct {
	board   channelSetter
	forward int
	reverse int
}

func (s *pcaSide) Set(duty float64) error {
	active, idle := s.forward, s.reverse
	if duty < 0 {
		active, idle = s.reverse, s.forward
	}

	off := int(math.Round(mapToRange(math.Abs(duty), MinDuty, MaxDuty, 0, pcaMaxCount)))
	if err := s.board.SetChannel(idle, 0, 0); err != nil {
		return fmt.Errorf("failed clearing channel %d - %w", idle, err)
	}
	if err := s.board.SetChannel(active, 0, off); err != nil {
		return fmt.Errorf("failed setting channel %d to %d - %w", active, off, err)
	}
	return nil
}

func newPCADifferential(board channelSetter, cfg config.PCA9685Config, release func() error) *Differential {
	left := &pcaSide{board: board, forward: cfg.LeftForward, reverse: cfg.LeftReverse}
	right := &pcaSide{board: board, forward: cfg.RightForward, reverse: cfg.RightReverse}
	return NewDifferential(config.MotorDriverPCA9685, left, right, release)
}

// NewPCA9685 opens the I2C bus and drives both sides through a PCA9685 board.
func NewPCA9685(cfg config.PCA9685Config) (*Differential, error) {
	bus, err := i2c.New(cfg.Address, cfg.I2CDevice)
	if err != nil {
		return nil, fmt.Errorf("error starting i2c with address - %w", err)
	}

	board, err := pca9685.New(bus, nil)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("error getting pwm driver - %w", err)
	}

	err = board.SetFreq(float32(cfg.Frequency))
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("error setting pwm frequency %.0f - %w", cfg.Frequency, err)
	}

	logrus.WithFields(logrus.Fields{
		"device":  cfg.I2CDevice,
		"address": fmt.Sprintf("%#x", cfg.Address),
	}).Info("pca9685 motor driver ready")

	d := newPCADifferential(board, cfg, bus.Close)
	if err := d.Stop(); err != nil {
		return nil, errors.Join(err, bus.Close())
	}
	return d, nil
}
