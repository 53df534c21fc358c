// Package routine parses and runs scripted sequences of rover steps such as
// "drive:2 turn:-90 curve:3:45".
package routine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Speshl/gorrc_rover/internal/robot"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	KindDrive    = "drive"
	KindTurn     = "turn"
	KindCurve    = "curve"
	KindWait     = "wait"
	KindObstacle = "obstacle"
	KindLED      = "led"
	KindInfrared = "ir"

	LEDOn     = "on"
	LEDOff    = "off"
	LEDToggle = "toggle"
)

// arity is the number of numeric arguments per kind. led takes a word.
var arity = map[string]int{
	KindDrive:    1,
	KindTurn:     1,
	KindCurve:    2,
	KindWait:     1,
	KindObstacle: 0,
	KindInfrared: 0,
}

type Step struct {
	Kind string
	Args []float64
	Mode string // led only
}

func (s Step) String() string {
	parts := []string{s.Kind}
	for _, arg := range s.Args {
		parts = append(parts, strconv.FormatFloat(arg, 'g', -1, 64))
	}
	if s.Mode != "" {
		parts = append(parts, s.Mode)
	}
	return strings.Join(parts, ":")
}

// Rover is what a routine drives. *robot.Robot satisfies it.
type Rover interface {
	Drive(seconds float64) error
	Turn(degrees float64) error
	DriveCurve(seconds, angle float64) error
	Obstacle() (float64, bool)
	Indicator() robot.Indicator
	Infrared() robot.Infrared
}

type switcher interface {
	On() error
	Off() error
	Toggle() error
}

type detector interface {
	Detected() bool
}

func Parse(tokens []string) ([]Step, error) {
	steps := make([]Step, 0, len(tokens))
	for _, token := range tokens {
		step, err := parseStep(token)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(token string) (Step, error) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	kind := strings.ToLower(parts[0])
	args := parts[1:]

	if kind == KindLED {
		if len(args) != 1 {
			return Step{}, fmt.Errorf("step %q: led needs one of on, off, toggle", token)
		}
		mode := strings.ToLower(args[0])
		switch mode {
		case LEDOn, LEDOff, LEDToggle:
			return Step{Kind: kind, Mode: mode}, nil
		}
		return Step{}, fmt.Errorf("step %q: unknown led mode %q", token, args[0])
	}

	want, ok := arity[kind]
	if !ok {
		return Step{}, fmt.Errorf("step %q: unknown kind %q", token, kind)
	}
	if len(args) != want {
		return Step{}, fmt.Errorf("step %q: %s takes %d argument(s), got %d", token, kind, want, len(args))
	}

	step := Step{Kind: kind, Args: make([]float64, 0, want)}
	for _, arg := range args {
		value, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Step{}, fmt.Errorf("step %q: bad number %q - %w", token, arg, err)
		}
		step.Args = append(step.Args, value)
	}
	return step, nil
}

type Runner struct {
	rover Rover
	sleep func(time.Duration)
}

func NewRunner(rover Rover) *Runner {
	return &Runner{
		rover: rover,
		sleep: time.Sleep,
	}
}

// Run executes the steps in order. Cancellation is checked before each step;
// a step that has started always runs to completion.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	log := logrus.WithField("run_id", uuid.New().String())
	log.WithField("steps", len(steps)).Info("starting routine")

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			log.WithField("step", i).Warn("routine cancelled")
			return err
		}

		stepLog := log.WithFields(logrus.Fields{
			"step": i,
			"kind": step.Kind,
		})
		stepLog.Infof("running %s", step)

		start := time.Now()
		err := r.runStep(stepLog, step)
		if err != nil {
			return fmt.Errorf("step %d (%s) failed - %w", i, step, err)
		}
		stepLog.WithField("took", time.Since(start).Round(time.Millisecond)).Debug("step done")
	}

	log.Info("routine finished")
	return nil
}

func (r *Runner) runStep(log *logrus.Entry, step Step) error {
	switch step.Kind {
	case KindDrive:
		return r.rover.Drive(step.Args[0])
	case KindTurn:
		return r.rover.Turn(step.Args[0])
	case KindCurve:
		return r.rover.DriveCurve(step.Args[0], step.Args[1])
	case KindWait:
		r.sleep(time.Duration(step.Args[0] * float64(time.Second)))
		return nil
	case KindObstacle:
		distance, ok := r.rover.Obstacle()
		if !ok {
			log.Info("no obstacle in range")
			return nil
		}
		log.WithField("cm", distance).Info("obstacle")
		return nil
	case KindLED:
		light, ok := r.rover.Indicator().(switcher)
		if !ok {
			return fmt.Errorf("indicator cannot be switched")
		}
		switch step.Mode {
		case LEDOn:
			return light.On()
		case LEDOff:
			return light.Off()
		default:
			return light.Toggle()
		}
	case KindInfrared:
		infrared := r.rover.Infrared()
		if infrared == nil {
			return fmt.Errorf("no infrared sensor fitted")
		}
		sensor, ok := infrared.(detector)
		if !ok {
			return fmt.Errorf("infrared sensor cannot be read")
		}
		log.WithField("detected", sensor.Detected()).Info("infrared")
		return nil
	}
	return fmt.Errorf("unknown step kind %q", step.Kind)
}
