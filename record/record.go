// Package record decimates a live pose stream into a path file.
package record

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

// Thresholds decide when a pose is novel enough to be kept. A pose is dropped when it lies
// closer than MinDistance to the last kept pose, or when its distance plus AngleWeight per π of
// heading change stays under Distance.
type Thresholds struct {
	MinDistance float64 `json:"min_distance"`
	Distance    float64 `json:"distance"`
	AngleWeight float64 `json:"angle_weight"`
}

// DefaultThresholds keeps a pose every 20 cm on a straight line and every 5 cm while turning
// through 90°.
func DefaultThresholds() Thresholds {
	return Thresholds{MinDistance: 0.05, Distance: 0.2, AngleWeight: 0.3}
}

// Validate ensures all parts of the thresholds are valid.
func (th *Thresholds) Validate() error {
	if th.MinDistance < 0 || th.Distance < 0 || th.AngleWeight < 0 {
		return errors.New("recorder thresholds must not be negative")
	}
	return nil
}

// Accept reports whether a pose at distance rho and absolute heading change theta from the last
// kept pose should be kept.
func (th Thresholds) Accept(rho, theta float64) bool {
	return rho >= th.MinDistance && rho+theta/math.Pi*th.AngleWeight >= th.Distance
}

// Recorder appends accepted poses to a path file. It is not safe for concurrent use.
type Recorder struct {
	w          io.WriteCloser
	thresholds Thresholds
	last       spatialmath.Pose
	started    bool
	count      int
	err        error
}

// NewRecorder records into w, which is closed by Finish.
func NewRecorder(w io.WriteCloser, thresholds Thresholds) *Recorder {
	return &Recorder{w: w, thresholds: thresholds}
}

// Create truncates or creates filename, and its parent directories, and records into it.
func Create(filename string, thresholds Thresholds) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o750); err != nil {
		return nil, errors.Wrap(err, "creating path directory")
	}
	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return NewRecorder(f, thresholds), nil
}

// Record persists pose if it is the first one or it is far enough from the last persisted pose.
// It reports whether the pose was kept. A failed write is sticky: every later call fails.
func (r *Recorder) Record(pose spatialmath.Pose) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.started {
		rho, theta := spatialmath.PoseDelta(r.last, pose)
		if !r.thresholds.Accept(rho, theta) {
			return false, nil
		}
	}
	if _, err := io.WriteString(r.w, route.FormatPose(pose)); err != nil {
		r.err = errors.Wrap(err, "writing pose")
		return false, r.err
	}
	r.last, r.started = pose, true
	r.count++
	return true, nil
}

// Count returns the number of poses persisted so far.
func (r *Recorder) Count() int {
	return r.count
}

// Last returns the last persisted pose, if any.
func (r *Recorder) Last() (spatialmath.Pose, bool) {
	return r.last, r.started
}

// Finish closes the output. Any earlier write failure is reported along with the close error.
func (r *Recorder) Finish() error {
	return multierr.Combine(r.err, r.w.Close())
}
