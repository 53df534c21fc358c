// Package robot composes a ranging sensor, an indicator light, a motor driver
// and an optional infrared sensor into timed, open-loop drive and turn
// primitives.
package robot

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDutyCycle = 20

	// TurnCalibration is the wall-clock time one full rotation takes at the
	// configured duty cycle.
	TurnCalibration = 3.0 // seconds per 360 degrees

	DriverRanger    = "ranger"
	DriverIndicator = "indicator"
	DriverInfrared  = "infrared"
	DriverMotor     = "motor"
)

type Motor interface {
	Forward(dutyCycle float64) error
	Reverse(dutyCycle float64) error
	Left(dutyCycle float64) error
	Right(dutyCycle float64) error
	Stop() error
	Close() error
}

type Ranger interface {
	// AverageDistance returns an averaged reading in centimeters.
	AverageDistance() (float64, error)
	Close() error
}

type Indicator interface {
	Close() error
}

type Infrared interface {
	Close() error
}

// Drivers holds one opener per collaborator. Infrared may be nil.
type Drivers struct {
	Ranger    func() (Ranger, error)
	Indicator func() (Indicator, error)
	Infrared  func() (Infrared, error)
	Motor     func() (Motor, error)
}

type Option func(*Robot)

// WithSleep replaces time.Sleep for the blocking part of every motion.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Robot) {
		r.sleep = sleep
	}
}

type Robot struct {
	dutyCycle float64
	sleep     func(time.Duration)

	motor     Motor
	ranger    Ranger
	indicator Indicator
	infrared  Infrared

	closed bool
}

type closer struct {
	name string
	c    interface{ Close() error }
}

// New acquires every driver eagerly. On failure the drivers acquired so far
// are released again and a *DriverInitError is returned.
func New(dutyCycle float64, drivers Drivers, opts ...Option) (*Robot, error) {
	r := &Robot{
		dutyCycle: dutyCycle,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}

	acquired := make([]closer, 0, 4)
	fail := func(name string, err error) (*Robot, error) {
		initErr := &DriverInitError{Driver: name, Err: err}
		logrus.WithField("driver", name).WithError(err).Error("driver init failed, releasing acquired drivers")
		return nil, errors.Join(initErr, release(acquired))
	}

	if drivers.Ranger == nil {
		return fail(DriverRanger, errors.New("no opener"))
	}
	ranger, err := drivers.Ranger()
	if err != nil {
		return fail(DriverRanger, err)
	}
	r.ranger = ranger
	acquired = append(acquired, closer{DriverRanger, ranger})

	if drivers.Indicator == nil {
		return fail(DriverIndicator, errors.New("no opener"))
	}
	indicator, err := drivers.Indicator()
	if err != nil {
		return fail(DriverIndicator, err)
	}
	r.indicator = indicator
	acquired = append(acquired, closer{DriverIndicator, indicator})

	if drivers.Infrared != nil {
		infrared, err := drivers.Infrared()
		if err != nil {
			return fail(DriverInfrared, err)
		}
		r.infrared = infrared
		acquired = append(acquired, closer{DriverInfrared, infrared})
	}

	if drivers.Motor == nil {
		return fail(DriverMotor, errors.New("no opener"))
	}
	motor, err := drivers.Motor()
	if err != nil {
		return fail(DriverMotor, err)
	}
	r.motor = motor

	logrus.WithFields(logrus.Fields{
		"duty_cycle": dutyCycle,
		"infrared":   r.infrared != nil,
	}).Info("robot ready")
	return r, nil
}

// release closes in reverse acquisition order and never stops early.
func release(acquired []closer) error {
	var errs []error
	for i := len(acquired) - 1; i >= 0; i-- {
		if err := acquired[i].c.Close(); err != nil {
			errs = append(errs, &ReleaseError{Driver: acquired[i].name, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (r *Robot) DutyCycle() float64 {
	return r.dutyCycle
}

func (r *Robot) Indicator() Indicator {
	return r.indicator
}

// Infrared returns nil when the robot was built without an infrared sensor.
func (r *Robot) Infrared() Infrared {
	return r.infrared
}

// SetDriveMode drives forward for direction > 0 and in reverse for
// direction < 0. Zero issues nothing; it never stops the motor.
func (r *Robot) SetDriveMode(direction float64) error {
	switch {
	case direction > 0:
		return r.motor.Forward(r.dutyCycle)
	case direction < 0:
		return r.motor.Reverse(r.dutyCycle)
	}
	return nil
}

// Drive moves for |seconds|, forward when positive and in reverse when
// negative, then stops. The stop is issued even for zero or a failed start.
func (r *Robot) Drive(seconds float64) error {
	logrus.WithField("seconds", seconds).Debug("drive")
	err := r.SetDriveMode(seconds)
	if err != nil {
		err = fmt.Errorf("failed setting drive mode - %w", err)
	} else {
		r.sleep(toDuration(seconds))
	}
	return r.stop(err)
}

// Turn rotates clockwise for positive degrees and counterclockwise for
// negative ones, timed from TurnCalibration, then stops.
func (r *Robot) Turn(degrees float64) error {
	turnDuration := TurnCalibration * (degrees / 360.0)
	logrus.WithFields(logrus.Fields{
		"degrees": degrees,
		"seconds": turnDuration,
	}).Debug("turn")

	var err error
	switch {
	case degrees > 0:
		err = r.motor.Right(r.dutyCycle)
	case degrees < 0:
		err = r.motor.Left(r.dutyCycle)
	}
	if err != nil {
		err = fmt.Errorf("failed starting turn - %w", err)
	} else {
		r.sleep(toDuration(turnDuration))
	}
	return r.stop(err)
}

// DriveCurve approximates an arc by alternating short straight drives with
// one degree turns, |round(angle)| times.
func (r *Robot) DriveCurve(seconds, angle float64) error {
	if angle == 0 || math.IsNaN(angle) {
		return fmt.Errorf("curve angle must be non-zero, got %v: %w", angle, ErrInvalidArgument)
	}

	increment := 1.0
	if angle < 0 {
		increment = -1.0
	}
	step := seconds / math.Abs(angle)
	steps := int(math.Abs(math.Round(angle)))

	logrus.WithFields(logrus.Fields{
		"seconds": seconds,
		"angle":   angle,
		"steps":   steps,
	}).Debug("drive curve")

	for i := 0; i < steps; i++ {
		if err := r.Drive(step); err != nil {
			return fmt.Errorf("curve step %d failed - %w", i, err)
		}
		if err := r.Turn(increment); err != nil {
			return fmt.Errorf("curve step %d failed - %w", i, err)
		}
	}
	return nil
}

// Obstacle returns the distance to the nearest obstacle in centimeters, or
// false when the ranger produced no reading.
func (r *Robot) Obstacle() (float64, bool) {
	distance, err := r.ranger.AverageDistance()
	if err != nil {
		logrus.WithError(err).Debug("no obstacle reading")
		return 0, false
	}
	return distance, true
}

// Close releases every held driver, attempting all of them even when one
// fails. Errors come back joined as *ReleaseError values.
func (r *Robot) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	// reverse acquisition order, so the motor goes first
	held := []closer{
		{DriverRanger, r.ranger},
		{DriverIndicator, r.indicator},
	}
	if r.infrared != nil {
		held = append(held, closer{DriverInfrared, r.infrared})
	}
	held = append(held, closer{DriverMotor, r.motor})

	err := release(held)
	if err != nil {
		logrus.WithError(err).Error("robot released with errors")
	} else {
		logrus.Info("robot released")
	}
	return err
}

func (r *Robot) stop(cause error) error {
	if err := r.motor.Stop(); err != nil {
		return errors.Join(cause, fmt.Errorf("failed stopping motor - %w", err))
	}
	return cause
}

// toDuration saturates at the longest time.Duration rather than wrapping
// negative for huge or infinite inputs.
func toDuration(seconds float64) time.Duration {
	d := math.Abs(seconds) * float64(time.Second)
	switch {
	case math.IsNaN(d):
		return 0
	case d >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
