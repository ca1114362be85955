// Package follow implements path following: a Task owns a segmented path, a cursor on it and a
// tracking state, and turns each live pose into a drive command.
package follow

import (
	"github.com/pkg/errors"

	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

var (
	// ErrRelocationFailed is returned while no waypoint lies within the search radius. The next
	// call retries.
	ErrRelocationFailed = errors.New("relocation failed")
	// ErrOutOfPath is returned when local tracking loses the path and re-initialization is
	// disabled.
	ErrOutOfPath = errors.New("out of path")
	// ErrComplete is returned once a non-looping path has been driven to its end. It is
	// terminal until the task is reset.
	ErrComplete = errors.New("path complete")
)

// maxTransitions bounds the state changes a single Track call may go through.
const maxTransitions = 16

// State is the tracking phase of a Task.
type State int

// The tracking phases. A task starts out Relocating.
const (
	Relocating State = iota
	Initializing
	Tracking
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Relocating:
		return "relocating"
	case Initializing:
		return "initializing"
	case Tracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Task follows one path. It is not safe for concurrent use: a task belongs to the goroutine
// running the control loop.
type Task struct {
	path   *route.Path
	params Parameters
	logger logging.Logger

	cursor route.Cursor
	state  State
	done   bool
}

// NewTask returns a task following an already segmented path.
func NewTask(path *route.Path, params Parameters, logger logging.Logger) *Task {
	return &Task{path: path, params: params, logger: logger}
}

// FromPoses segments poses with the task parameters and returns a task following the result.
func FromPoses(poses []spatialmath.Pose, params Parameters, logger logging.Logger) *Task {
	return NewTask(route.Build(poses, params.LightRadius, params.TipIgnore), params, logger)
}

// Path returns the segmented path.
func (t *Task) Path() *route.Path {
	return t.path
}

// Cursor returns the current cursor.
func (t *Task) Cursor() route.Cursor {
	return t.cursor
}

// State returns the current tracking phase.
func (t *Task) State() State {
	return t.state
}

// Progress describes the cursor position as "NN%(i/n)".
func (t *Task) Progress() string {
	return route.DescribeCursor(t.path, t.cursor)
}

// Reset relocalizes on the next call to Track, scanning from the current cursor.
func (t *Task) Reset() {
	t.setState(Relocating)
	t.done = false
}

// Seek moves the cursor to pr and relocalizes from there on the next call to Track.
func (t *Task) Seek(pr route.Progress) {
	t.cursor = pr.Cursor(t.path)
	t.Reset()
}

// Track consumes one live pose and returns the command to drive. A single call may pass through
// several phases before producing a command.
func (t *Task) Track(pose spatialmath.Pose) (control.Command, error) {
	if t.done {
		return control.Stop, ErrComplete
	}
	for range maxTransitions {
		switch t.state {
		case Relocating:
			c, err := t.path.Relocate(route.RelocateOptions{
				Pose:         pose,
				Start:        t.cursor,
				LightRadius:  t.params.LightRadius,
				SearchRadius: t.params.SearchRadius,
				Loop:         t.params.Loop,
			})
			if err != nil {
				return control.Stop, ErrRelocationFailed
			}
			t.cursor = c
			t.setState(Initializing)

		case Initializing:
			cmd, complete := control.Approach(pose, t.path.Pose(t.cursor), t.params.LightRadius)
			if !complete {
				return cmd, nil
			}
			t.setState(Tracking)

		case Tracking:
			index, turn, err := control.Pursue(pose, t.path.Segment(t.cursor.Segment), t.cursor.Index, t.params.LightRadius)
			switch {
			case err == nil:
				t.cursor.Index = index
				return control.Command{Speed: 1, Turn: turn}, nil
			case errors.Is(err, control.ErrTermination):
				next, ok := t.path.NextSegment(t.cursor, t.params.Loop)
				if !ok {
					t.done = true
					t.logger.Infow("path complete", "cursor", t.cursor)
					return control.Stop, ErrComplete
				}
				t.cursor = next
				t.setState(Initializing)
			default:
				if !t.params.AutoReinitialize {
					return control.Stop, ErrOutOfPath
				}
				t.logger.Debugw("lost the path, re-initializing", "cursor", t.cursor)
				t.setState(Initializing)
			}
		}
	}
	return control.Stop, errors.Wrapf(ErrOutOfPath, "tracking did not settle after %d transitions", maxTransitions)
}

func (t *Task) setState(s State) {
	if s == t.state {
		return
	}
	t.logger.Debugw("tracking state changed", "from", t.state, "to", s, "cursor", t.cursor)
	t.state = s
}
