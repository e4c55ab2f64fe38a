package pls

// Window is the slice of an ordered result list delivered to a caller.
type Window struct {
	Start int // Index of the first delivered item
	Count int // Number of items delivered
}

// ComputeWindow clamps skip to total and count so that Start+Count <= total.
// A negative count selects everything after skip.
func ComputeWindow(total int, skip uint, count int) Window {
	if total < 0 {
		total = 0
	}

	start := total
	if skip < uint(total) {
		start = int(skip)
	}

	rest := total - start
	if count < 0 || count > rest {
		count = rest
	}
	return Window{Start: start, Count: count}
}

// Empty reports whether nothing remains after the skip. An empty window is
// delivered as one (nil, remaining=0) callback.
func (w Window) Empty() bool { return w.Count == 0 }

// Remaining returns how many items follow the i-th delivered item.
func (w Window) Remaining(i int) uint {
	if i >= w.Count-1 {
		return 0
	}
	return uint(w.Count - 1 - i)
}
