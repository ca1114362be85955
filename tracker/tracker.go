// Package tracker ties a path repository to at most one running task: either recording a new
// path or following a stored one.
package tracker

import (
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/follow"
	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/record"
	"go.viam.com/pathfollower/repository"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

// Mode is the kind of task a Tracker is running.
type Mode int

// The tracker modes.
const (
	Idle Mode = iota
	Recording
	Following
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Following:
		return "following"
	default:
		return "unknown"
	}
}

// task is exactly one of a recorder or a follow task.
type task struct {
	name     string
	recorder *record.Recorder
	follower *follow.Task
}

func (t *task) mode() Mode {
	if t == nil {
		return Idle
	}
	if t.recorder != nil {
		return Recording
	}
	return Following
}

func (t *task) finish() error {
	if t == nil || t.recorder == nil {
		return nil
	}
	return t.recorder.Finish()
}

// Options configure the tasks a Tracker starts.
type Options struct {
	Follow     follow.Parameters
	Thresholds record.Thresholds
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	repo   *repository.Repository
	opts   Options
	logger logging.Logger
	task   *task
}

// New returns an idle tracker over repo.
func New(repo *repository.Repository, opts Options, logger logging.Logger) *Tracker {
	return &Tracker{repo: repo, opts: opts, logger: logger}
}

// List returns the stored path names.
func (tr *Tracker) List() ([]string, error) {
	return tr.repo.List()
}

// Read returns the waypoints of a stored path.
func (tr *Tracker) Read(name string) ([]spatialmath.Pose, error) {
	return tr.repo.Read(name)
}

// Current returns the name and mode of the running task.
func (tr *Tracker) Current() (string, Mode) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.task == nil {
		return "", Idle
	}
	return tr.task.name, tr.task.mode()
}

// RecordTo starts recording into name, replacing its contents. Calling it again for the task
// already running is a no-op.
func (tr *Tracker) RecordTo(name string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.running(name) {
		return nil
	}
	filename, err := tr.repo.Path(name)
	if err != nil {
		return err
	}
	rec, err := record.Create(filename, tr.opts.Thresholds)
	if err != nil {
		return errors.Wrapf(err, "recording %q", name)
	}
	return tr.replace(&task{name: name, recorder: rec})
}

// Follow starts following name, relocalizing from pr. Calling it again for the task already
// running is a no-op.
func (tr *Tracker) Follow(name string, pr route.Progress) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.running(name) {
		return nil
	}
	poses, err := tr.repo.Read(name)
	if err != nil {
		return err
	}
	ft := follow.FromPoses(poses, tr.opts.Follow, tr.logger.Sublogger("follow"))
	ft.Seek(pr)
	tr.logger.Infow("following path",
		"name", name, "segments", ft.Path().NumSegments(), "points", ft.Path().NumPoints(), "from", ft.Progress())
	return tr.replace(&task{name: name, follower: ft})
}

// Stop ends the running task, if any.
func (tr *Tracker) Stop() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.replace(nil)
}

// PutPose feeds a live pose to the running task. It returns a command, and true, only while
// following; recording and failed tracking calls return false.
func (tr *Tracker) PutPose(pose spatialmath.Pose) (control.Command, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	switch tr.task.mode() {
	case Recording:
		if _, err := tr.task.recorder.Record(pose); err != nil {
			tr.logger.Errorw("recording failed", "name", tr.task.name, "error", err)
		}
		return control.Stop, false
	case Following:
		cmd, err := tr.task.follower.Track(pose)
		if err != nil {
			tr.logger.Debugw("tracking failed", "name", tr.task.name, "error", err)
			return control.Stop, false
		}
		return cmd, true
	default:
		return control.Stop, false
	}
}

// Progress describes how far along the followed path the running task is.
func (tr *Tracker) Progress() (string, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.task.mode() != Following {
		return "", false
	}
	return tr.task.follower.Progress(), true
}

func (tr *Tracker) running(name string) bool {
	return tr.task != nil && tr.task.name == name
}

func (tr *Tracker) replace(next *task) error {
	prev := tr.task
	tr.task = next
	if prev == nil {
		return nil
	}
	tr.logger.Infow("task ended", "name", prev.name, "mode", prev.mode())
	return prev.finish()
}
