// Package inject provides actuators whose behaviour tests replace one method at a time.
package inject

import (
	"context"

	"go.viam.com/pathfollower/base"
	"go.viam.com/pathfollower/control"
)

// Actuator forwards to the embedded Actuator unless the matching func is set.
type Actuator struct {
	base.Actuator
	DriveFunc func(ctx context.Context, cmd control.Command) error
	StopFunc  func(ctx context.Context) error
	CloseFunc func(ctx context.Context) error
}

// Drive calls DriveFunc, or the embedded Actuator if it is unset.
func (a *Actuator) Drive(ctx context.Context, cmd control.Command) error {
	if a.DriveFunc == nil {
		return a.Actuator.Drive(ctx, cmd)
	}
	return a.DriveFunc(ctx, cmd)
}

// Stop calls StopFunc, or the embedded Actuator if it is unset.
func (a *Actuator) Stop(ctx context.Context) error {
	if a.StopFunc == nil {
		return a.Actuator.Stop(ctx)
	}
	return a.StopFunc(ctx)
}

// Close calls CloseFunc, or the embedded Actuator if it is unset.
func (a *Actuator) Close(ctx context.Context) error {
	if a.CloseFunc == nil {
		return a.Actuator.Close(ctx)
	}
	return a.CloseFunc(ctx)
}
