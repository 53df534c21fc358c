package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/infrared"
	"github.com/Speshl/gorrc_rover/internal/led"
	"github.com/Speshl/gorrc_rover/internal/motor"
	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/Speshl/gorrc_rover/internal/routine"
	"github.com/Speshl/gorrc_rover/internal/ultrasonic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var errInterrupted = errors.New("interrupted")

type App struct {
	Cfg config.Config

	// swapped out in tests
	drivers func(config.Config) robot.Drivers
	signals func(chan<- os.Signal)
}

func NewApp(cfg config.Config) *App {
	return &App{
		Cfg:     cfg,
		drivers: Drivers,
		signals: func(c chan<- os.Signal) {
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		},
	}
}

// Drivers builds the hardware openers described by cfg.
func Drivers(cfg config.Config) robot.Drivers {
	drivers := robot.Drivers{
		Ranger: func() (robot.Ranger, error) {
			sensor, err := ultrasonic.New(cfg.RangerCfg)
			if err != nil {
				return nil, err
			}
			return sensor, nil
		},
		Indicator: func() (robot.Indicator, error) {
			light, err := led.New(cfg.IndicatorCfg)
			if err != nil {
				return nil, err
			}
			return light, nil
		},
		Motor: func() (robot.Motor, error) {
			return newMotor(cfg.MotorCfg)
		},
	}

	if cfg.InfraredCfg.Enabled {
		drivers.Infrared = func() (robot.Infrared, error) {
			sensor, err := infrared.New(cfg.InfraredCfg)
			if err != nil {
				return nil, err
			}
			return sensor, nil
		}
	}
	return drivers
}

func newMotor(cfg config.MotorConfig) (robot.Motor, error) {
	switch cfg.Driver {
	case config.MotorDriverPCA9685:
		d, err := motor.NewPCA9685(cfg.PCA9685Cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.MotorDriverPiPWM:
		d, err := motor.NewPiPwm(cfg.PiPwmCfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown motor driver %q", cfg.Driver)
}

// WithRobot builds a robot and hands it to f while listening for
// SIGINT/SIGTERM. A signal cancels the context passed to f but never the call
// in progress; the robot is torn down once f returns, signal or not.
func (a *App) WithRobot(ctx context.Context, f func(context.Context, *robot.Robot) error) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	// registered before any hardware is claimed so the default kill action
	// can never skip the release
	signalChannel := make(chan os.Signal, 1)
	a.signals(signalChannel)
	defer signal.Stop(signalChannel)

	//kill listener
	group.Go(func() error {
		select {
		case sig := <-signalChannel:
			logrus.Warnf("received signal: %s, stopping after current step", sig)
			return fmt.Errorf("%w by %s", errInterrupted, sig)
		case <-groupCtx.Done():
			return nil
		}
	})

	r, err := robot.New(a.Cfg.RobotCfg.DutyCycle, a.drivers(a.Cfg))
	if err != nil {
		cancel()
		return errors.Join(err, ignoreInterrupt(group.Wait()))
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()

	group.Go(func() error {
		defer cancel()
		return f(groupCtx, r)
	})
	return ignoreInterrupt(group.Wait())
}

func ignoreInterrupt(err error) error {
	if errors.Is(err, errInterrupted) {
		logrus.Info("interrupted, releasing robot")
		return nil
	}
	return err
}

// Run executes steps in order. A signal stops the routine before its next
// step.
func (a *App) Run(ctx context.Context, steps []routine.Step) error {
	return a.WithRobot(ctx, func(ctx context.Context, r *robot.Robot) error {
		return routine.NewRunner(r).Run(ctx, steps)
	})
}
