// Package locator fans in pose events from independent sources and fuses them into a single
// pose stream.
package locator

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/utils"
)

// Kind tells absolute fixes from relative, odometry-style, poses.
type Kind int

// The event kinds.
const (
	Absolute Kind = iota
	Relative
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	default:
		return "unknown"
	}
}

// Event is one pose reported by a source.
type Event struct {
	Kind Kind
	Time time.Time
	Pose spatialmath.Pose
	// Restart marks the first relative pose of a new source run. Its pose is measured from the
	// run's own origin, the robot's pose when the run began.
	Restart bool
}

// PoseSource produces events until ctx is cancelled or it fails. A source that returns is
// restarted by the Locator after a delay.
type PoseSource interface {
	Name() string
	Run(ctx context.Context, emit func(Event)) error
}

// ErrClosed is returned by Next once the locator is closed.
var ErrClosed = errors.New("locator is closed")

// DefaultRestartDelay is how long a failed source waits before running again.
const DefaultRestartDelay = time.Second

// Options tune a Locator. Zero values select defaults.
type Options struct {
	RestartDelay time.Duration
	// Buffer is the capacity of the event queue shared by all sources.
	Buffer int
	Clock  clock.Clock
}

// Locator runs its sources in the background and fuses their events on demand.
type Locator struct {
	mu     sync.Mutex
	filter PoseFilter

	events  chan Event
	workers *utils.Workers
	clock   clock.Clock
	delay   time.Duration
	logger  logging.Logger
}

// New starts every source. Close stops them.
func New(filter PoseFilter, sources []PoseSource, opts Options, logger logging.Logger) *Locator {
	if opts.RestartDelay <= 0 {
		opts.RestartDelay = DefaultRestartDelay
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	l := &Locator{
		filter: filter,
		events: make(chan Event, opts.Buffer),
		clock:  opts.Clock,
		delay:  opts.RestartDelay,
		logger: logger,
	}
	l.workers = utils.NewWorkers()
	for _, src := range sources {
		l.workers.Add(func(ctx context.Context) { l.runSource(ctx, src) })
	}
	return l
}

func (l *Locator) runSource(ctx context.Context, src PoseSource) {
	emit := func(e Event) {
		select {
		case l.events <- e:
		case <-ctx.Done():
		}
	}
	for {
		err := src.Run(ctx, emit)
		if ctx.Err() != nil {
			return
		}
		l.logger.Warnw("pose source stopped, restarting", "source", src.Name(), "error", err, "delay", l.delay)
		select {
		case <-ctx.Done():
			return
		case <-l.clock.After(l.delay):
		}
	}
}

// Push feeds an event directly, as if a source had emitted it.
func (l *Locator) Push(ctx context.Context, e Event) error {
	select {
	case l.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.workers.Done():
		return ErrClosed
	}
}

// Next blocks for the next event and returns the fused pose along with the event kind.
func (l *Locator) Next(ctx context.Context) (spatialmath.Pose, Kind, error) {
	select {
	case <-ctx.Done():
		return spatialmath.Pose{}, 0, ctx.Err()
	case <-l.workers.Done():
		return spatialmath.Pose{}, 0, ErrClosed
	case e := <-l.events:
		return l.update(e), e.Kind, nil
	}
}

func (l *Locator) update(e Event) spatialmath.Pose {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter.Update(e)
}

// Close stops every source and waits for them to return.
func (l *Locator) Close() {
	l.workers.Stop()
}
