package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/plsx/internal/formatter"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/repositories"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyRecord struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	SourceID     string    `json:"source_id"`
	ContainerURL string    `json:"container_url"`
	Status       string    `json:"status"`
	Total        int       `json:"total"`
	Delivered    int       `json:"delivered"`
	Skipped      int       `json:"skipped"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

func toHistoryRecord(rec *models.BrowseRecord) historyRecord {
	return historyRecord{
		ID:           rec.ID(),
		Sequence:     rec.Sequence(),
		SourceID:     rec.SourceID,
		ContainerURL: rec.ContainerURL,
		Status:       string(rec.Status),
		Total:        rec.Total,
		Delivered:    rec.Delivered,
		Skipped:      rec.Skipped,
		Error:        rec.ErrorMessage,
		StartedAt:    rec.StartedAt,
		FinishedAt:   rec.FinishedAt,
	}
}

func (r *Runner) historyRepo() (*repositories.BrowseRepository, error) {
	if r.history == nil {
		return nil, fmt.Errorf("%w: history database is not open (run 'plsx setup')", shared.ErrDatabase)
	}
	return r.history, nil
}

// HistoryList prints recorded browses, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepo()
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = models.BrowseStatus(status)
	}
	if playlist := cmd.String("playlist"); playlist != "" {
		c, err := container(playlist)
		if err != nil {
			return err
		}
		criteria["container_url"] = c.URL
	}

	records, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]historyRecord, len(records))
		for i, rec := range records {
			out[i] = toHistoryRecord(rec)
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.ExportHistoryToText(records))
	return err
}

// HistoryShow prints one recorded browse and the entries it delivered.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepo()
	if err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: browse id", shared.ErrMissingArgument)
	}

	rec, err := repo.Get(id)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Browse #%d", rec.Sequence()))
	r.writePlain("ID: %s\n", rec.ID())
	r.writePlain("Playlist: %s\n", rec.ContainerURL)
	r.writePlain("Status: %s\n", rec.Status)
	r.writePlain("Delivered: %d/%d\n", rec.Delivered, rec.Total)
	r.writePlain("Duration: %s\n", rec.Duration())
	if rec.ErrorMessage != "" {
		r.writePlain("Error: %s\n", rec.ErrorMessage)
	}
	if len(rec.Entries) == 0 {
		return nil
	}

	data, err := formatter.Export(&formatter.Listing{
		Container: models.NewContainer(rec.ContainerURL),
		Items:     rec.Entries,
		Keys:      []models.Key{models.KeyDuration},
	}, formatter.FormatText)
	if err != nil {
		return err
	}
	r.writePlain("\n")
	_, err = r.output.Write(data)
	return err
}

// HistoryDelete removes a recorded browse.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepo()
	if err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: browse id", shared.ErrMissingArgument)
	}

	if err := repo.Delete(id); err != nil {
		return err
	}
	r.logger.Info("deleted browse record", "id", id)
	r.writePlain("✓ Deleted %s\n", id)
	return nil
}
