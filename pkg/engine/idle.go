package engine

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// IdleLoop feeds idle slots from a host to a scheduler. Every granted slot
// runs one slice and requests the next one, for as long as the loop runs.
//
// The host is expected to invoke callbacks on the goroutine that owns the
// engine.
type IdleLoop struct {
	sched   core.Scheduler
	idle    host.IdleScheduler
	running atomic.Bool
	armed   atomic.Bool
	slices  atomic.Uint64
	panics  atomic.Uint64
}

// NewIdleLoop creates a stopped loop.
func NewIdleLoop(s core.Scheduler, idle host.IdleScheduler) *IdleLoop {
	return &IdleLoop{sched: s, idle: idle}
}

// Start arms the loop. Starting a running loop does nothing.
func (l *IdleLoop) Start() {
	if l.running.Swap(true) {
		return
	}
	l.arm()
}

// Stop makes the loop ignore its pending slot and stop re-arming.
func (l *IdleLoop) Stop() {
	l.running.Store(false)
}

// Running reports whether the loop is started.
func (l *IdleLoop) Running() bool { return l.running.Load() }

// Slices returns the number of slices run so far.
func (l *IdleLoop) Slices() uint64 { return l.slices.Load() }

// Panics returns the number of slices that panicked. Such panics are
// reported through the errors package; contract violations propagate.
func (l *IdleLoop) Panics() uint64 { return l.panics.Load() }

func (l *IdleLoop) arm() {
	if l.armed.Swap(true) {
		return
	}
	l.idle.RequestIdleSlot(l.onIdle)
}

func (l *IdleLoop) onIdle(d host.Deadline) {
	l.armed.Store(false)
	if !l.running.Load() {
		return
	}
	// Re-armed even when the slice panics.
	defer l.arm()
	defer errors.RecoverWithCallback("engine.IdleLoop", func(any) { l.panics.Add(1) })
	l.slices.Add(1)
	l.sched.RunSlice(d)
}

// Drain runs slices until s reports no remaining work. Each slice gets a
// fresh deadline from next. With maxSlices > 0, Drain gives up after that
// many slices and returns errors.ErrNotSettled.
func Drain(s core.Scheduler, next func() host.Deadline, maxSlices int) (int, error) {
	n := 0
	for {
		if maxSlices > 0 && n >= maxSlices {
			Logger().Warn("drain gave up", zap.Int("slices", n))
			return n, fmt.Errorf("drain after %d slices: %w", n, errors.ErrNotSettled)
		}
		more := s.RunSlice(next())
		n++
		if !more {
			return n, nil
		}
	}
}
