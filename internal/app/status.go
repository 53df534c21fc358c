package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/prometheus/procfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type detector interface {
	Detected() bool
}

func newStatusCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print sensor readings and host load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := loadAvg()
			if err != nil {
				// sensors are still worth printing off a Pi
				logrus.WithError(err).Warn("host load unavailable")
			}
			return a.WithRobot(cmd.Context(), func(_ context.Context, r *robot.Robot) error {
				writeStatus(cmd.OutOrStdout(), r, load)
				return nil
			})
		},
	}
}

func loadAvg() (*procfs.LoadAvg, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("error: procfs could not be mounted: %w", err)
	}
	load, err := fs.LoadAvg()
	if err != nil {
		return nil, fmt.Errorf("error: failed reading load average: %w", err)
	}
	return load, nil
}

func writeStatus(w io.Writer, r *robot.Robot, load *procfs.LoadAvg) {
	fmt.Fprintf(w, "duty cycle: %.0f%%\n", r.DutyCycle())
	fmt.Fprintln(w, formatObstacle(r.Obstacle()))

	if sensor, ok := r.Infrared().(detector); ok {
		fmt.Fprintf(w, "infrared: detected=%t\n", sensor.Detected())
	} else {
		fmt.Fprintln(w, "infrared: not fitted")
	}

	if load != nil {
		fmt.Fprintf(w, "load: %.2f %.2f %.2f\n", load.Load1, load.Load5, load.Load15)
	}
}
