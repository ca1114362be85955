// Package base defines the drive surface commanded by a follow or approach loop.
package base

import (
	"context"

	"go.viam.com/pathfollower/control"
)

// Actuator drives a wheeled base. Commands arrive at the control loop's cadence and each one
// replaces the previous.
type Actuator interface {
	Drive(ctx context.Context, cmd control.Command) error
	Stop(ctx context.Context) error
	Close(ctx context.Context) error
}
