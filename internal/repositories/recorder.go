package repositories

import (
	"fmt"

	"github.com/desertthunder/plsx/internal/models"
)

// HistoryRecorder persists every finished browse through a [BrowseRepository].
//
// Entries are only stored for fresh parses; cached, cancelled and failed browses
// keep their summary row only.
type HistoryRecorder struct {
	repo *BrowseRepository
}

// NewHistoryRecorder creates a new HistoryRecorder with the given repository
func NewHistoryRecorder(repo *BrowseRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record stores rec.
func (h *HistoryRecorder) Record(rec *models.BrowseRecord) error {
	if rec.Status != models.BrowseParsed {
		stored := *rec
		stored.Entries = nil
		if err := h.repo.Create(&stored); err != nil {
			return fmt.Errorf("failed to record browse: %w", err)
		}
		rec.SetID(stored.ID())
		rec.SetSequence(stored.Sequence())
		return nil
	}

	if err := h.repo.Create(rec); err != nil {
		return fmt.Errorf("failed to record browse: %w", err)
	}
	return nil
}
