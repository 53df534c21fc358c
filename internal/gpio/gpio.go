// Package gpio shares the Pi's memory mapped GPIO between drivers. The first
// Open maps it and the last Close unmaps it.
package gpio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/stianeikeland/go-rpio/v4"
)

var ErrNotOpen = errors.New("gpio not open")

// swapped out in tests
var (
	rpioOpen  = rpio.Open
	rpioClose = rpio.Close
)

var (
	lock  sync.Mutex
	users int
)

func Open() error {
	lock.Lock()
	defer lock.Unlock()

	if users == 0 {
		err := rpioOpen()
		if err != nil {
			return fmt.Errorf("failed opening rpio - %w", err)
		}
		logrus.Debug("gpio memory mapped")
	}
	users++
	return nil
}

func Close() error {
	lock.Lock()
	defer lock.Unlock()

	if users == 0 {
		return ErrNotOpen
	}
	users--
	if users == 0 {
		err := rpioClose()
		if err != nil {
			return fmt.Errorf("failed closing rpio - %w", err)
		}
		logrus.Debug("gpio memory unmapped")
	}
	return nil
}
