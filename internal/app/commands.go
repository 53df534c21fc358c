package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/Speshl/gorrc_rover/internal/routine"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func setupLogger(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.StampMilli,
	})
	return nil
}

// NewCommand builds the rover CLI. Flags default to the ROVER_ environment.
func NewCommand() *cobra.Command {
	cfg := config.GetConfig()
	noInfrared := !cfg.InfraredCfg.Enabled
	a := NewApp(cfg)

	cmd := &cobra.Command{
		Use:          "rover",
		Short:        "Drive a wheeled rover with timed open-loop commands",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.Cfg.InfraredCfg.Enabled = !noInfrared
			return setupLogger(a.Cfg.LogLevel)
		},
	}

	flags := cmd.PersistentFlags()
	flags.Float64Var(&a.Cfg.RobotCfg.DutyCycle, "duty-cycle", cfg.RobotCfg.DutyCycle, "percent of maximum motor speed")
	flags.StringVar(&a.Cfg.MotorCfg.Driver, "motor-driver", cfg.MotorCfg.Driver, "motor backend: pca9685 or pipwm")
	flags.BoolVar(&noInfrared, "no-infrared", noInfrared, "run without the infrared sensor")
	flags.StringVarP(&a.Cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newDriveCommand(a),
		newTurnCommand(a),
		newCurveCommand(a),
		newObstacleCommand(a),
		newRunCommand(a),
		newStatusCommand(a),
	)
	return cmd
}

func parseFloats(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, arg := range args {
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "bad number %q", arg)
		}
		values = append(values, value)
	}
	return values, nil
}

func newDriveCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "drive <seconds>",
		Short:   "Drive forward (positive) or in reverse (negative), then stop",
		Example: "  rover drive 2\n  rover drive -- -1.5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			return a.WithRobot(cmd.Context(), func(_ context.Context, r *robot.Robot) error {
				return pkgerrors.Wrap(r.Drive(values[0]), "drive failed")
			})
		},
	}
}

func newTurnCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "turn <degrees>",
		Short:   "Turn clockwise (positive) or counterclockwise (negative), then stop",
		Example: "  rover turn 90\n  rover turn -- -90",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			return a.WithRobot(cmd.Context(), func(_ context.Context, r *robot.Robot) error {
				return pkgerrors.Wrap(r.Turn(values[0]), "turn failed")
			})
		},
	}
}

func newCurveCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "curve <seconds> <degrees>",
		Short: "Drive an arc made of short drives and one degree turns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFloats(args)
			if err != nil {
				return err
			}
			return a.WithRobot(cmd.Context(), func(_ context.Context, r *robot.Robot) error {
				return pkgerrors.Wrap(r.DriveCurve(values[0], values[1]), "curve failed")
			})
		},
	}
}

func newObstacleCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "obstacle",
		Short: "Print the distance to the nearest obstacle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.WithRobot(cmd.Context(), func(_ context.Context, r *robot.Robot) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatObstacle(r.Obstacle()))
				return nil
			})
		},
	}
}

func newRunCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <step>...",
		Short: "Run a sequence of steps",
		Long: `Run a sequence of steps in order. Steps are:
  drive:<seconds>  turn:<degrees>  curve:<seconds>:<degrees>  wait:<seconds>
  obstacle  ir  led:on|off|toggle

Ctrl-C stops the routine once the current step has finished.`,
		Example: "  rover run led:on drive:2 turn:-90 curve:3:45 obstacle led:off",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := routine.Parse(args)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), steps)
		},
	}
}

func formatObstacle(distance float64, ok bool) string {
	if !ok {
		return "obstacle: none in range"
	}
	return fmt.Sprintf("obstacle: %.1f cm", distance)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewCommand().Execute(); err != nil {
		return 1
	}
	return 0
}
