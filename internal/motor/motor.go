// Package motor drives a two sided (differential) wheel base.
package motor

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	MaxDuty = 100.0
	MinDuty = 0.0
)

// Side is one half of the wheel base. Set takes a signed duty in percent,
// positive for forward and negative for reverse.
type Side interface {
	Set(duty float64) error
}

// Differential turns forward/reverse/left/right commands into per side
// duties.
type Differential struct {
	name    string
	left    Side
	right   Side
	release func() error
}

func NewDifferential(name string, left, right Side, release func() error) *Differential {
	return &Differential{
		name:    name,
		left:    left,
		right:   right,
		release: release,
	}
}

func (d *Differential) Forward(dutyCycle float64) error {
	duty := clampDuty(dutyCycle)
	return d.apply("forward", duty, duty)
}

func (d *Differential) Reverse(dutyCycle float64) error {
	duty := clampDuty(dutyCycle)
	return d.apply("reverse", -duty, -duty)
}

// Left spins counterclockwise in place.
func (d *Differential) Left(dutyCycle float64) error {
	duty := clampDuty(dutyCycle)
	return d.apply("left", -duty, duty)
}

// Right spins clockwise in place.
func (d *Differential) Right(dutyCycle float64) error {
	duty := clampDuty(dutyCycle)
	return d.apply("right", duty, -duty)
}

func (d *Differential) Stop() error {
	return d.apply("stop", 0, 0)
}

// Close stops both sides and releases the backend, attempting both.
func (d *Differential) Close() error {
	logrus.WithField("motor", d.name).Info("closing motor driver")
	stopErr := d.Stop()

	var releaseErr error
	if d.release != nil {
		releaseErr = d.release()
	}
	return errors.Join(stopErr, releaseErr)
}

// apply sets both sides even when the first one fails, so a stop never
// leaves one wheel spinning.
func (d *Differential) apply(command string, left, right float64) error {
	logrus.WithFields(logrus.Fields{
		"motor": d.name,
		"left":  left,
		"right": right,
	}).Debug(command)

	var errs []error
	if err := d.left.Set(left); err != nil {
		errs = append(errs, fmt.Errorf("failed setting left side - %w", err))
	}
	if err := d.right.Set(right); err != nil {
		errs = append(errs, fmt.Errorf("failed setting right side - %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s command failed - %w", command, errors.Join(errs...))
	}
	return nil
}

func clampDuty(duty float64) float64 {
	if duty > MaxDuty {
		return MaxDuty
	} else if duty < MinDuty {
		return MinDuty
	}
	return duty
}

func mapToRange(value, min, max, minReturn, maxReturn float64) float64 {
	mappedValue := (maxReturn-minReturn)*(value-min)/(max-min) + minReturn

	if mappedValue > maxReturn {
		return maxReturn
	} else if mappedValue < minReturn {
		return minReturn
	} else {
		return mappedValue
	}
}
