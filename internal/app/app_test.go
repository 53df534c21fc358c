package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/Speshl/gorrc_rover/internal/config"
	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/Speshl/gorrc_rover/internal/routine"
	"github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMotor struct {
	commands  []string
	closed    bool
	onForward func()
}

func (m *fakeMotor) Forward(float64) error {
	m.commands = append(m.commands, "forward")
	if m.onForward != nil {
		m.onForward()
	}
	return nil
}

func (m *fakeMotor) Reverse(float64) error { m.commands = append(m.commands, "reverse"); return nil }
func (m *fakeMotor) Left(float64) error    { m.commands = append(m.commands, "left"); return nil }
func (m *fakeMotor) Right(float64) error   { m.commands = append(m.commands, "right"); return nil }
func (m *fakeMotor) Stop() error           { m.commands = append(m.commands, "stop"); return nil }
func (m *fakeMotor) Close() error          { m.closed = true; return nil }

type fakeRanger struct {
	closeErr error
}

func (fakeRanger) AverageDistance() (float64, error) { return 0, robot.ErrSensorTimeout }
func (r fakeRanger) Close() error                    { return r.closeErr }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newTestApp(m *fakeMotor, ranger fakeRanger) *App {
	a := NewApp(config.Config{RobotCfg: config.RobotConfig{DutyCycle: 20}})
	a.drivers = func(config.Config) robot.Drivers {
		return robot.Drivers{
			Ranger:    func() (robot.Ranger, error) { return ranger, nil },
			Indicator: func() (robot.Indicator, error) { return nopCloser{}, nil },
			Motor:     func() (robot.Motor, error) { return m, nil },
		}
	}
	a.signals = func(chan<- os.Signal) {}
	return a
}

func TestWithRobotAlwaysCloses(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{})

	err := a.WithRobot(context.Background(), func(_ context.Context, r *robot.Robot) error {
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	assert.True(t, m.closed)
}

func TestWithRobotJoinsReleaseError(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{closeErr: errors.New("echo stuck")})

	err := a.WithRobot(context.Background(), func(_ context.Context, r *robot.Robot) error { return nil })
	var releaseErr *robot.ReleaseError
	require.ErrorAs(t, err, &releaseErr)
	assert.Equal(t, robot.DriverRanger, releaseErr.Driver)
	assert.True(t, m.closed)
}

func TestRun(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{})

	steps, err := routine.Parse([]string{"drive:0", "turn:0", "obstacle"})
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background(), steps))

	assert.Equal(t, []string{"stop", "stop"}, m.commands)
	assert.True(t, m.closed)
}

// interrupt wires the app's signal channel to the fake motor so a signal lands
// while the first forward command is running.
func interrupt(a *App, m *fakeMotor, sig os.Signal) {
	var signals chan<- os.Signal
	a.signals = func(c chan<- os.Signal) { signals = c }
	m.onForward = func() { signals <- sig }
}

func TestRunInterrupted(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{})
	interrupt(a, m, syscall.SIGTERM)

	steps, err := routine.Parse([]string{"drive:0.2", "drive:0", "turn:90"})
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background(), steps))

	// the running drive finishes, the rest of the routine is skipped
	assert.Equal(t, []string{"forward", "stop"}, m.commands)
	assert.True(t, m.closed)
}

func TestDriveCommandInterrupted(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{})
	interrupt(a, m, syscall.SIGINT)

	cmd := newDriveCommand(a)
	cmd.SetArgs([]string{"0.2"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, []string{"forward", "stop"}, m.commands)
	assert.True(t, m.closed)
}

func TestWithRobotListensBeforeRunning(t *testing.T) {
	m := &fakeMotor{}
	a := newTestApp(m, fakeRanger{})
	var registered chan<- os.Signal
	a.signals = func(c chan<- os.Signal) { registered = c }

	err := a.WithRobot(context.Background(), func(ctx context.Context, r *robot.Robot) error {
		require.NotNil(t, registered)
		assert.NoError(t, ctx.Err())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, m.closed)
}

func TestNewMotorUnknownDriver(t *testing.T) {
	_, err := newMotor(config.MotorConfig{Driver: "servo"})
	assert.ErrorContains(t, err, "servo")
}

func TestDriversInfraredOptional(t *testing.T) {
	cfg := config.Config{}
	assert.Nil(t, Drivers(cfg).Infrared)

	cfg.InfraredCfg.Enabled = true
	assert.NotNil(t, Drivers(cfg).Infrared)
}

func TestWriteStatus(t *testing.T) {
	a := newTestApp(&fakeMotor{}, fakeRanger{})

	var out bytes.Buffer
	err := a.WithRobot(context.Background(), func(_ context.Context, r *robot.Robot) error {
		writeStatus(&out, r, &procfs.LoadAvg{Load1: 0.5, Load5: 0.25, Load15: 0.1})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "duty cycle: 20%\nobstacle: none in range\ninfrared: not fitted\nload: 0.50 0.25 0.10\n", out.String())
}
