package pls

import (
	"context"
	"time"

	"github.com/desertthunder/plsx/internal/models"
)

// Handle identifies one browse operation. The zero Handle is never issued.
type Handle uint

// InvalidHandle is returned when a browse is rejected.
const InvalidHandle Handle = 0

// State is the lifecycle state of an operation.
type State int

const (
	StateCreated State = iota
	StateOngoing
	StateCancelled
	StateCompleted
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateOngoing:
		return "ongoing"
	case StateCancelled:
		return "cancelled"
	case StateCompleted:
		return "completed"
	case StateFinished:
		return "finished"
	default:
		return ""
	}
}

// operation is the record the registry keeps per handle.
type operation struct {
	handle  Handle
	state   State
	source  models.Source
	cancel  context.CancelFunc
	cleanup func()

	container *models.Media
	options   models.Options
	callback  ResultFunc
	userData  any

	// entries accumulates raw entries while the parser runs. Owned by this operation only.
	entries   []models.RawEntry
	startedAt time.Time
	record    *models.BrowseRecord
}

// Registry tracks handle -> lifecycle state for the operations of one [Browser].
//
// It is not safe for concurrent use; all calls happen on the loop goroutine.
// Operations on unknown handles are no-ops and such handles read as finished.
type Registry struct {
	next Handle
	ops  map[Handle]*operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[Handle]*operation)}
}

// Begin creates a record in [StateCreated] and returns its handle.
func (r *Registry) Begin(source models.Source) Handle {
	for {
		r.next++
		if r.next == InvalidHandle {
			continue
		}
		if _, taken := r.ops[r.next]; !taken {
			break
		}
	}
	h := r.next
	r.ops[h] = &operation{handle: h, state: StateCreated, source: source, startedAt: time.Now().UTC()}
	return h
}

func (r *Registry) get(h Handle) (*operation, bool) {
	op, ok := r.ops[h]
	return op, ok
}

// State returns the state of h. Unknown handles report [StateFinished] and false.
func (r *Registry) State(h Handle) (State, bool) {
	op, ok := r.ops[h]
	if !ok {
		return StateFinished, false
	}
	return op.state, true
}

// IsOngoing reports whether h is valid and neither cancelled nor completed.
func (r *Registry) IsOngoing(h Handle) bool {
	s, ok := r.State(h)
	return ok && s == StateOngoing
}

// IsCancelled reports whether h is valid and was cancelled.
func (r *Registry) IsCancelled(h Handle) bool {
	s, ok := r.State(h)
	return ok && s == StateCancelled
}

// IsCompleted reports whether the last parser event for h has been received.
// A finished (or unknown) operation is also completed.
func (r *Registry) IsCompleted(h Handle) bool {
	s, ok := r.State(h)
	return !ok || s == StateCompleted
}

// IsFinished reports whether h has been removed from the registry.
func (r *Registry) IsFinished(h Handle) bool {
	_, ok := r.ops[h]
	return !ok
}

// MarkOngoing moves h from Created to Ongoing.
func (r *Registry) MarkOngoing(h Handle) bool {
	return r.transition(h, StateCreated, StateOngoing)
}

// MarkCancelled moves h from Ongoing to Cancelled. Any other state is left untouched.
func (r *Registry) MarkCancelled(h Handle) bool {
	return r.transition(h, StateOngoing, StateCancelled)
}

// MarkCompleted moves h from Ongoing to Completed.
func (r *Registry) MarkCompleted(h Handle) bool {
	return r.transition(h, StateOngoing, StateCompleted)
}

func (r *Registry) transition(h Handle, from, to State) bool {
	op, ok := r.ops[h]
	if !ok || op.state != from {
		return false
	}
	op.state = to
	return true
}

// Finish removes h and runs its cleanup. The handle must not be looked up afterwards.
func (r *Registry) Finish(h Handle) {
	op, ok := r.ops[h]
	if !ok {
		return
	}
	delete(r.ops, h)
	op.state = StateFinished
	if op.cleanup != nil {
		op.cleanup()
	}
}

// Len returns the number of operations not yet finished.
func (r *Registry) Len() int { return len(r.ops) }

// Handles returns the handles of all operations not yet finished.
func (r *Registry) Handles() []Handle {
	hs := make([]Handle, 0, len(r.ops))
	for h := range r.ops {
		hs = append(hs, h)
	}
	return hs
}
