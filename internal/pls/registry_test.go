package pls

import (
	"context"
	"testing"

	"github.com/desertthunder/plsx/internal/models"
)

func TestRegistry(t *testing.T) {
	src := models.NewStaticSource("local", "Local", nil)

	t.Run("handles are unique and never zero", func(t *testing.T) {
		r := NewRegistry()
		seen := map[Handle]bool{}
		for range 100 {
			h := r.Begin(src)
			if h == InvalidHandle {
				t.Fatal("Begin returned the invalid handle")
			}
			if seen[h] {
				t.Fatalf("handle %d issued twice", h)
			}
			seen[h] = true
		}
		if r.Len() != 100 {
			t.Errorf("expected 100 operations, got %d", r.Len())
		}
	})

	t.Run("skips zero on wrap", func(t *testing.T) {
		r := NewRegistry()
		r.next = ^Handle(0)
		if h := r.Begin(src); h != 1 {
			t.Errorf("expected handle 1 after wrap, got %d", h)
		}
	})

	t.Run("lifecycle", func(t *testing.T) {
		r := NewRegistry()
		h := r.Begin(src)

		if s, _ := r.State(h); s != StateCreated {
			t.Fatalf("expected created, got %s", s)
		}
		if r.IsOngoing(h) || r.IsCompleted(h) || r.IsFinished(h) {
			t.Error("created operation should not be ongoing, completed or finished")
		}

		if !r.MarkOngoing(h) || !r.IsOngoing(h) {
			t.Fatal("expected operation to become ongoing")
		}
		if r.MarkOngoing(h) {
			t.Error("MarkOngoing should only succeed from created")
		}

		if !r.MarkCompleted(h) || !r.IsCompleted(h) {
			t.Fatal("expected operation to become completed")
		}
		if r.MarkCancelled(h) {
			t.Error("completed operation must not become cancelled")
		}

		r.Finish(h)
		if !r.IsFinished(h) || r.Len() != 0 {
			t.Error("expected operation to be removed")
		}
	})

	t.Run("cancel only from ongoing", func(t *testing.T) {
		r := NewRegistry()
		h := r.Begin(src)
		if r.MarkCancelled(h) {
			t.Error("created operation must not be cancellable")
		}
		r.MarkOngoing(h)
		if !r.MarkCancelled(h) || !r.IsCancelled(h) {
			t.Fatal("expected operation to become cancelled")
		}
		if r.MarkCancelled(h) {
			t.Error("second cancel should be rejected")
		}
		if r.MarkCompleted(h) {
			t.Error("cancelled operation must not complete")
		}
		if r.IsOngoing(h) || r.IsCompleted(h) {
			t.Error("cancelled operation is neither ongoing nor completed")
		}
	})

	t.Run("unknown handles read as finished", func(t *testing.T) {
		r := NewRegistry()
		h := Handle(42)
		if !r.IsFinished(h) || !r.IsCompleted(h) {
			t.Error("unknown handle should be finished and completed")
		}
		if r.IsOngoing(h) || r.IsCancelled(h) {
			t.Error("unknown handle should not be ongoing or cancelled")
		}
		if r.MarkOngoing(h) || r.MarkCancelled(h) || r.MarkCompleted(h) {
			t.Error("transitions on unknown handle should fail")
		}
		r.Finish(h)
	})

	t.Run("finish runs cleanup once", func(t *testing.T) {
		r := NewRegistry()
		h := r.Begin(src)
		op, _ := r.get(h)
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		op.cleanup = func() {
			calls++
			cancel()
		}

		r.Finish(h)
		r.Finish(h)
		if calls != 1 {
			t.Errorf("expected cleanup once, got %d", calls)
		}
		if ctx.Err() == nil {
			t.Error("expected cleanup to cancel the context")
		}
	})
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateCreated, "created"},
		{StateOngoing, "ongoing"},
		{StateCancelled, "cancelled"},
		{StateCompleted, "completed"},
		{StateFinished, "finished"},
		{State(99), ""},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}
