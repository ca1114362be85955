package utils

import (
	"context"
	"sync"

	goutils "go.viam.com/utils"
)

// Workers runs goroutines under one shared cancellation. A panicking worker is logged and
// counted as returned.
type Workers struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	running sync.WaitGroup
}

// NewWorkers starts fns, each in its own goroutine.
func NewWorkers(fns ...func(context.Context)) *Workers {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Workers{ctx: ctx, cancel: cancel}
	w.Add(fns...)
	return w
}

// Add starts more workers. It does nothing once Stop was called.
func (w *Workers) Add(fns ...func(context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	for _, fn := range fns {
		w.running.Add(1)
		goutils.PanicCapturingGo(func() {
			defer w.running.Done()
			fn(w.ctx)
		})
	}
}

// Done is closed when Stop is called.
func (w *Workers) Done() <-chan struct{} {
	return w.ctx.Done()
}

// Stop cancels every worker and waits for them to return. It is safe to call more than once.
func (w *Workers) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.cancel()
	w.running.Wait()
}
