package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	defaultSliceBudget  = 8 * time.Millisecond
)

// RunnerOptions configures a Runner. Zero fields take defaults.
type RunnerOptions struct {
	// Interval is the tick period of the loop. Defaults to 16ms.
	Interval time.Duration
	// Budget is the time given to each slice. Defaults to 8ms.
	Budget time.Duration
	// Now is the clock used to measure slice budgets. Defaults to time.Now.
	Now func() time.Time
	// OnCommit is called on the loop goroutine after every committed cycle.
	OnCommit func(core.CycleStats)
	// Logger overrides the package logger.
	Logger *zap.Logger
}

// Runner owns a core.Engine on one goroutine. Work from other goroutines
// reaches the engine only through Dispatch, which keeps the engine's
// single-writer rule intact.
type Runner struct {
	engine *core.Engine
	opts   RunnerOptions
	log    *zap.Logger

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	started atomic.Bool
	done    chan struct{}
	lastSeq uint64
}

// NewRunner wraps e. The engine must not be used directly once Run starts.
func NewRunner(e *core.Engine, opts RunnerOptions) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = defaultTickInterval
	}
	if opts.Budget <= 0 {
		opts.Budget = defaultSliceBudget
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	return &Runner{
		engine: e,
		opts:   opts,
		log:    log,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Engine returns the wrapped engine. Only touch it from dispatched callbacks.
func (r *Runner) Engine() *core.Engine { return r.engine }

// Dispatch queues fn to run on the loop goroutine before the next slice.
// It is safe to call from any goroutine.
func (r *Runner) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, fn)
	r.mu.Unlock()
	r.signal()
}

// Query runs fn on the loop goroutine and waits for it to return.
func (r *Runner) Query(ctx context.Context, fn func(e *core.Engine)) error {
	finished := make(chan struct{})
	r.Dispatch(func() {
		defer close(finished)
		fn(r.engine)
	})
	select {
	case <-finished:
		return nil
	case <-r.done:
		return errors.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Run drives the engine until ctx is cancelled, then tears it down. It
// returns nil on cancellation and errors.ErrStopped if the runner already ran.
func (r *Runner) Run(ctx context.Context) error {
	if r.started.Swap(true) {
		return errors.ErrStopped
	}
	defer close(r.done)
	defer r.engine.Teardown()

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.log.Debug("runner started",
		zap.Duration("interval", r.opts.Interval),
		zap.Duration("budget", r.opts.Budget))
	for {
		r.step()
		select {
		case <-ctx.Done():
			r.log.Debug("runner stopped", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
		case <-r.wake:
		}
	}
}

func (r *Runner) step() {
	for _, fn := range r.drainQueue() {
		r.invoke(fn)
	}
	if !r.engine.HasWork() {
		return
	}
	if r.engine.RunSlice(host.Budget(r.opts.Now, r.opts.Budget)) {
		r.signal()
	}
	if stats, ok := r.engine.LastCycle(); ok && stats.Seq > r.lastSeq {
		r.lastSeq = stats.Seq
		if r.opts.OnCommit != nil {
			r.invoke(func() { r.opts.OnCommit(stats) })
		}
	}
}

func (r *Runner) invoke(fn func()) {
	defer errors.Recover("engine.Runner")
	fn()
}

func (r *Runner) drainQueue() []func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.queue
	r.queue = nil
	return q
}

func (r *Runner) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}
