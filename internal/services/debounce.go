package services

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/facebookgo/clock"
)

// Debouncer delivers the last submitted value once no new value has arrived
// for the configured delay. Each Submit supersedes the pending one.
type Debouncer[T any] struct {
	ctx     context.Context
	clock   clock.Clock
	delay   time.Duration
	deliver func(T)

	mu      sync.Mutex
	timer   *clock.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer that calls deliver with the settled value
func NewDebouncer[T any](ctx context.Context, clk clock.Clock, delay time.Duration, deliver func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		ctx:     logging.EnsureLogger(ctx),
		clock:   clk,
		delay:   delay,
		deliver: deliver,
	}
}

// Submit schedules v for delivery after the quiet period, cancelling any
// pending delivery. Ignored after Stop.
func (d *Debouncer[T]) Submit(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq, v) })
}

// Flush delivers v immediately, cancelling any pending delivery
func (d *Debouncer[T]) Flush(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.mu.Unlock()

	d.run(v)
}

// Pending reports whether a delivery is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending delivery. Later submissions are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire(seq uint64, v T) {
	d.mu.Lock()
	// A timer that was superseded or stopped may still fire if Stop raced
	// with expiry.
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.run(v)
}

func (d *Debouncer[T]) run(v T) {
	defer func() {
		if r := recover(); r != nil {
			err, _ := errors.ParseStack(debug.Stack())
			skipFrames := 3
			numFrames := 5
			logging.Errorw(d.ctx, "Debounce: recovered from panic in delivery",
				"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
		}
	}()

	d.deliver(v)
}
