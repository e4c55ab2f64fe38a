package models

import (
	"fmt"
	"time"
)

// BrowseStatus describes how a browse finished.
type BrowseStatus string

const (
	BrowseParsed    BrowseStatus = "parsed"    // Results came from a fresh parse
	BrowseCached    BrowseStatus = "cached"    // Results came from the container cache
	BrowseCancelled BrowseStatus = "cancelled" // Caller cancelled before completion
	BrowseFailed    BrowseStatus = "failed"    // Container could not be browsed
)

// IsTerminalError reports whether the browse ended with an error callback.
func (s BrowseStatus) IsTerminalError() bool {
	return s == BrowseCancelled || s == BrowseFailed
}

// BrowseRecord is the persisted summary of one finished browse.
type BrowseRecord struct {
	id           string
	sequence     int
	SourceID     string
	ContainerURL string
	Status       BrowseStatus
	Total        int      // Classified entries in the container
	Delivered    int      // Media delivered to the caller
	Skipped      int      // Raw entries dropped by classification
	ErrorMessage string
	Entries      []*Media // Classified entries, fresh parses only
	StartedAt    time.Time
	FinishedAt   time.Time
	createdAt    time.Time
}

// NewBrowseRecord creates a record for a browse of containerURL on sourceID.
func NewBrowseRecord(sourceID, containerURL string, status BrowseStatus) *BrowseRecord {
	now := time.Now().UTC()
	return &BrowseRecord{
		SourceID:     sourceID,
		ContainerURL: containerURL,
		Status:       status,
		StartedAt:    now,
		FinishedAt:   now,
		createdAt:    now,
	}
}

func (r *BrowseRecord) ID() string           { return r.id }
func (r *BrowseRecord) SetID(id string)      { r.id = id }
func (r *BrowseRecord) Sequence() int        { return r.sequence }
func (r *BrowseRecord) SetSequence(seq int)  { r.sequence = seq }
func (r *BrowseRecord) CreatedAt() time.Time { return r.createdAt }

// SetCreatedAt is used when scanning persisted rows.
func (r *BrowseRecord) SetCreatedAt(t time.Time) { r.createdAt = t }

// Validate checks required fields.
func (r *BrowseRecord) Validate() error {
	if r.ContainerURL == "" {
		return fmt.Errorf("container url is required")
	}
	switch r.Status {
	case BrowseParsed, BrowseCached, BrowseCancelled, BrowseFailed:
	default:
		return fmt.Errorf("invalid browse status %q", r.Status)
	}
	if r.Delivered < 0 || r.Total < 0 || r.Skipped < 0 {
		return fmt.Errorf("counts must be non-negative")
	}
	return nil
}

// Duration returns how long the browse took.
func (r *BrowseRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
