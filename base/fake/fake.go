// Package fake implements a fake actuator.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/pathfollower/control"
)

// ErrClosed is returned by a closed Actuator.
var ErrClosed = errors.New("actuator is closed")

// Actuator is a fake actuator that remembers what it was asked to do.
type Actuator struct {
	mu         sync.Mutex
	commands   []control.Command
	StopCount  int
	CloseCount int
}

// NewActuator returns an empty fake actuator.
func NewActuator() *Actuator {
	return &Actuator{}
}

// Drive records cmd.
func (a *Actuator) Drive(ctx context.Context, cmd control.Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CloseCount > 0 {
		return ErrClosed
	}
	a.commands = append(a.commands, cmd)
	return nil
}

// Stop records a stop command.
func (a *Actuator) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.StopCount++
	a.commands = append(a.commands, control.Stop)
	return nil
}

// Close marks the actuator closed.
func (a *Actuator) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.CloseCount++
	return nil
}

// Commands returns a copy of every command received so far.
func (a *Actuator) Commands() []control.Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]control.Command(nil), a.commands...)
}

// Last returns the most recent command, if any.
func (a *Actuator) Last() (control.Command, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.commands) == 0 {
		return control.Command{}, false
	}
	return a.commands[len(a.commands)-1], true
}
