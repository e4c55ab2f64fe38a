package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoop(t *testing.T) {
	t.Run("Post does not run callbacks", func(t *testing.T) {
		l := New()
		ran := false
		l.Post(func() { ran = true })

		if ran {
			t.Fatal("callback ran before the loop was driven")
		}
		if l.Pending() != 1 {
			t.Errorf("expected 1 pending callback, got %d", l.Pending())
		}
	})

	t.Run("Drain runs in FIFO order including nested posts", func(t *testing.T) {
		l := New()
		var order []int
		l.Post(func() {
			order = append(order, 1)
			l.Post(func() { order = append(order, 3) })
		})
		l.Post(func() { order = append(order, 2) })

		if n := l.Drain(); n != 3 {
			t.Errorf("expected 3 callbacks, got %d", n)
		}
		want := []int{1, 2, 3}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order = %v, want %v", order, want)
			}
		}
	})

	t.Run("Iterate without blocking on empty queue", func(t *testing.T) {
		l := New()
		ran, err := l.Iterate(context.Background(), false)
		if err != nil || ran {
			t.Errorf("Iterate() = %v, %v; want false, nil", ran, err)
		}
	})

	t.Run("RunUntil waits for posts from other goroutines", func(t *testing.T) {
		l := New()
		done := false

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(10 * time.Millisecond)
			l.Post(func() { done = true })
		}()

		if err := l.RunUntil(context.Background(), func() bool { return done }); err != nil {
			t.Fatalf("RunUntil() error = %v", err)
		}
		wg.Wait()
	})

	t.Run("RunUntil is re-entrant", func(t *testing.T) {
		l := New()
		inner, outer := false, false
		var depth int

		l.Post(func() {
			l.Post(func() {
				depth = l.Depth()
				inner = true
			})
			if err := l.RunUntil(context.Background(), func() bool { return inner }); err != nil {
				t.Errorf("nested RunUntil() error = %v", err)
			}
			outer = true
		})

		if err := l.RunUntil(context.Background(), func() bool { return outer }); err != nil {
			t.Fatalf("RunUntil() error = %v", err)
		}
		if depth != 2 {
			t.Errorf("expected nested depth 2, got %d", depth)
		}
		if l.Depth() != 0 {
			t.Errorf("expected depth 0 after return, got %d", l.Depth())
		}
	})

	t.Run("RunUntil honours context", func(t *testing.T) {
		l := New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := l.RunUntil(ctx, func() bool { return false })
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("Close drops work and stops drivers", func(t *testing.T) {
		l := New()
		ran := false
		l.Post(func() { ran = true })
		l.Close()
		l.Post(func() { ran = true })

		if n := l.Drain(); n != 0 || ran {
			t.Errorf("expected nothing to run after Close, ran %d", n)
		}
		if err := l.RunUntil(context.Background(), func() bool { return false }); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	})
}
