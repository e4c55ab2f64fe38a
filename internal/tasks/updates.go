package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanWalk Phase = iota
	ScanSniff
	ScanParse
)

func (p Phase) String() string {
	switch p {
	case ScanWalk:
		return "walk"
	case ScanSniff:
		return "sniff"
	case ScanParse:
		return "parse"
	default:
		return ""
	}
}

func walkingUpdate(root string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanWalk,
		Step:    0,
		Total:   0,
		Message: fmt.Sprintf("Walking %s...", root),
	}
}

func walkedUpdate(files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanWalk,
		Step:    files,
		Total:   files,
		Message: fmt.Sprintf("Found %d files", files),
	}
}

func sniffingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanSniff,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking: %s...", step, total, path),
	}
}

func parsedUpdate(step, total int, res PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanParse,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s, %d entries)", step, total, res.Path, res.Format, res.Entries),
		Data:    res,
	}
}

func parseFailedUpdate(step, total int, res PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanParse,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Path, res.Err),
		Data:    res,
	}
}
