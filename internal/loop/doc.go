// Package loop implements a single-threaded cooperative scheduler.
//
// A [Loop] owns a FIFO of pending callbacks. Any goroutine may [Loop.Post] work,
// but callbacks only ever run on the goroutine currently driving the loop through
// [Loop.Iterate], [Loop.RunUntil] or [Loop.Drain]. Code that only touches its state
// from loop callbacks therefore needs no locking.
//
// Driving is re-entrant: a callback may itself call [Loop.RunUntil] to wait for a
// later callback (this is how a synchronous call is built on an asynchronous one)
// without spawning a second execution context.
package loop
