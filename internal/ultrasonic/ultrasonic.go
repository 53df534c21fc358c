// Package ultrasonic reads an HC-SR04 ranging module over two gpio pins.
package ultrasonic

import (
	"fmt"
	"time"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/gpio"
	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

const (
	SpeedOfSound = 34300.0 // cm/s at about 20 celsius
	TriggerPulse = 10 * time.Microsecond
)

var ErrTimeout = fmt.Errorf("no echo: %w", robot.ErrSensorTimeout)

type outPin interface {
	High()
	Low()
}

type inPin interface {
	Read() rpio.State
}

type Sensor struct {
	trigger outPin
	echo    inPin

	timeout  time.Duration
	samples  int
	interval time.Duration

	now     func() time.Time
	sleep   func(time.Duration)
	release func() error
}

func New(cfg config.RangerConfig) (*Sensor, error) {
	err := gpio.Open()
	if err != nil {
		return nil, fmt.Errorf("failed opening gpio for ranger - %w", err)
	}

	trigger := rpio.Pin(cfg.TriggerPin)
	trigger.Output()
	trigger.Low()

	echo := rpio.Pin(cfg.EchoPin)
	echo.Input()
	echo.PullDown()

	logrus.WithFields(logrus.Fields{
		"trigger": cfg.TriggerPin,
		"echo":    cfg.EchoPin,
	}).Info("ultrasonic ranger ready")

	return newSensor(trigger, echo, cfg, gpio.Close), nil
}

func newSensor(trigger outPin, echo inPin, cfg config.RangerConfig, release func() error) *Sensor {
	samples := cfg.Samples
	if samples < 1 {
		samples = 1
	}
	return &Sensor{
		trigger:  trigger,
		echo:     echo,
		timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
		samples:  samples,
		interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
		now:      time.Now,
		sleep:    time.Sleep,
		release:  release,
	}
}

// Distance takes a single reading in centimeters.
func (s *Sensor) Distance() (float64, error) {
	s.trigger.High()
	s.sleep(TriggerPulse)
	s.trigger.Low()

	deadline := s.now().Add(s.timeout)
	for s.echo.Read() == rpio.Low {
		if s.now().After(deadline) {
			return 0, ErrTimeout
		}
	}

	start := s.now()
	deadline = start.Add(s.timeout)
	for s.echo.Read() == rpio.High {
		if s.now().After(deadline) {
			return 0, ErrTimeout
		}
	}

	// the pulse covers the way there and back
	elapsed := s.now().Sub(start)
	return elapsed.Seconds() * SpeedOfSound / 2, nil
}

// AverageDistance averages the readings that got an echo. It fails only when
// none did.
func (s *Sensor) AverageDistance() (float64, error) {
	var sum float64
	readings := 0
	for i := 0; i < s.samples; i++ {
		if i > 0 {
			s.sleep(s.interval)
		}

		distance, err := s.Distance()
		if err != nil {
			logrus.WithField("sample", i).WithError(err).Debug("ranger sample missed")
			continue
		}
		sum += distance
		readings++
	}

	if readings == 0 {
		return 0, ErrTimeout
	}
	return sum / float64(readings), nil
}

func (s *Sensor) Close() error {
	logrus.Info("closing ultrasonic ranger")
	s.trigger.Low()
	if s.release == nil {
		return nil
	}
	return s.release()
}
