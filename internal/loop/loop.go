package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when driving a loop after [Loop.Close].
var ErrClosed = errors.New("loop closed")

// Loop is a FIFO of callbacks drained by whichever goroutine drives it.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	depth  int
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post schedules fn to run on the next iteration. Safe for concurrent use.
//
// Posting to a closed loop drops fn.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Depth reports how many RunUntil frames are currently active, 0 when the loop is idle.
func (l *Loop) Depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Iterate runs at most one callback. When block is set and the queue is empty it waits
// for a Post or for ctx to end.
//
// It reports whether a callback ran.
func (l *Loop) Iterate(ctx context.Context, block bool) (bool, error) {
	for {
		if fn, ok := l.pop(); ok {
			fn()
			return true, nil
		}

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return false, ErrClosed
		}
		if !block {
			return false, nil
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// RunUntil drives the loop on the calling goroutine until done reports true.
//
// done is checked before every iteration, so a condition that already holds returns
// immediately without running anything.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	l.mu.Lock()
	l.depth++
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.depth--
		l.mu.Unlock()
	}()

	for !done() {
		if _, err := l.Iterate(ctx, true); err != nil {
			return err
		}
	}
	return nil
}

// Drain runs every callback that is queued, including ones posted while draining,
// and returns how many ran. It never blocks.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// Close drops pending callbacks and rejects further posts.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}
