// Package control implements the steering laws used while following a path: the approach
// controller that brings the robot onto a path and the lookahead pursuit used along a segment.
//
// Turns are expressed as a signed angle in [-π/2, π/2]. Positive turns are clockwise; ±π/2 asks
// the base to rotate in place.
package control

import (
	"fmt"
	"math"
)

// Command is a drive request: Speed is a fraction of full speed in [-1, 1] (negative drives
// backwards) and Turn the signed turn proportion.
type Command struct {
	Speed float64
	Turn  float64
}

// Stop is the zero command.
var Stop = Command{}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("speed=%.3f turn=%.1f°", c.Speed, c.Turn*180/math.Pi)
}
