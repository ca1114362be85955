// Package sim implements a kinematic unicycle base that integrates drive commands into poses.
package sim

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/pathfollower/base"
	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/spatialmath"
)

// Config describes the simulated base.
type Config struct {
	// MaxLinear is the linear speed at full command, in m/s.
	MaxLinear float64 `json:"max_linear_mps"`
	// MaxAngular is the angular speed of a full in-place turn, in rad/s.
	MaxAngular float64 `json:"max_angular_rps"`
}

// DefaultConfig returns a slow base, roughly that of a small lawn robot.
func DefaultConfig() Config {
	return Config{MaxLinear: 0.5, MaxAngular: 1}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	if c.MaxLinear <= 0 || c.MaxAngular <= 0 {
		return errors.New("simulated base speeds must be positive")
	}
	return nil
}

// Base is a simulated base. A command with turn t at speed s moves forward at
// s·MaxLinear·cos(t) and turns clockwise at s·MaxAngular·sin(t), so ±π/2 spins in place.
type Base struct {
	mu     sync.Mutex
	cfg    Config
	pose   spatialmath.Pose
	cmd    control.Command
	closed bool
}

var _ base.Actuator = (*Base)(nil)

// NewBase places a simulated base at start.
func NewBase(cfg Config, start spatialmath.Pose) (*Base, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Base{cfg: cfg, pose: start}, nil
}

// Drive sets the command integrated by Step.
func (b *Base) Drive(ctx context.Context, cmd control.Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("simulated base is closed")
	}
	b.cmd = cmd
	return nil
}

// Stop clears the command.
func (b *Base) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cmd = control.Stop
	return nil
}

// Close stops the base for good.
func (b *Base) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cmd = control.Stop
	return nil
}

// Pose returns the current simulated pose.
func (b *Base) Pose() spatialmath.Pose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose
}

// Velocity returns the linear (m/s) and counterclockwise angular (rad/s) speeds for cmd. Backing
// up mirrors the turn like a car does.
func (b *Base) Velocity(cmd control.Command) (float64, float64) {
	v := cmd.Speed * b.cfg.MaxLinear * math.Cos(cmd.Turn)
	omega := -cmd.Speed * b.cfg.MaxAngular * math.Sin(cmd.Turn)
	return v, omega
}

// Step advances the simulation by dt under the current command and returns the new pose.
func (b *Base) Step(dt time.Duration) spatialmath.Pose {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, omega := b.Velocity(b.cmd)
	seconds := dt.Seconds()
	// integrate along the arc at the mid heading
	mid := b.pose.Theta + omega*seconds/2
	b.pose = spatialmath.NewPose(
		b.pose.X()+v*seconds*math.Cos(mid),
		b.pose.Y()+v*seconds*math.Sin(mid),
		b.pose.Theta+omega*seconds,
	)
	return b.pose
}
