package robot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for degenerate motion input such as a
	// zero-angle curve.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSensorTimeout is wrapped by rangers that got no echo in time.
	// Obstacle treats it as "nothing in range".
	ErrSensorTimeout = errors.New("sensor timeout")
)

// DriverInitError reports a collaborator that failed to acquire its hardware
// while a Robot was being built.
type DriverInitError struct {
	Driver string
	Err    error
}

func (e *DriverInitError) Error() string {
	return fmt.Sprintf("failed initializing %s driver - %s", e.Driver, e.Err)
}

func (e *DriverInitError) Unwrap() error {
	return e.Err
}

// ReleaseError reports a collaborator that failed to release its hardware.
type ReleaseError struct {
	Driver string
	Err    error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("failed releasing %s driver - %s", e.Driver, e.Err)
}

func (e *ReleaseError) Unwrap() error {
	return e.Err
}
