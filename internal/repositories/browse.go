package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/shared"
)

// BrowseRepository implements models.Repository[*models.BrowseRecord] for browse history.
//
// A record and its classified entries are written in one transaction.
type BrowseRepository struct {
	db *sql.DB
}

// NewBrowseRepository creates a new BrowseRepository with the given database connection
func NewBrowseRepository(db *sql.DB) *BrowseRepository {
	return &BrowseRepository{db: db}
}

const browseColumns = `id, sequence, source_id, container_url, status, total, delivered, skipped, error_message, started_at, finished_at, created_at`

// Create inserts a browse record and its entries with generated ID and sequence
func (r *BrowseRepository) Create(rec *models.BrowseRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "browses")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrDatabase, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO browses (id, sequence, source_id, container_url, status, total, delivered, skipped, error_message, started_at, finished_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		id,
		sequence,
		rec.SourceID,
		rec.ContainerURL,
		string(rec.Status),
		rec.Total,
		rec.Delivered,
		rec.Skipped,
		rec.ErrorMessage,
		rec.StartedAt,
		rec.FinishedAt,
		rec.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert browse: %w", err)
	}

	entryQuery := `
		INSERT INTO browse_entries (id, browse_id, position, kind, title, url, mime, thumbnail, duration, album, artist, genre, child_count, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, m := range rec.Entries {
		var modified sql.NullTime
		if !m.ModificationDate.IsZero() {
			modified = sql.NullTime{Time: m.ModificationDate, Valid: true}
		}
		_, err := tx.Exec(entryQuery,
			shared.GenerateID(),
			id,
			i,
			m.Kind.String(),
			m.Title,
			m.URL,
			m.Mime,
			m.Thumbnail,
			m.Duration,
			m.Album,
			m.Artist,
			m.Genre,
			m.ChildCount,
			modified,
		)
		if err != nil {
			return fmt.Errorf("failed to insert browse entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit browse: %v", shared.ErrDatabase, err)
	}

	rec.SetID(id)
	rec.SetSequence(sequence)
	return nil
}

// Get retrieves a browse record by ID, with its entries, excluding soft-deleted records
func (r *BrowseRepository) Get(id string) (*models.BrowseRecord, error) {
	query := `SELECT ` + browseColumns + ` FROM browses WHERE id = ? AND deleted_at IS NULL`

	rec, err := scanBrowse(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: browse %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	entries, err := r.Entries(id)
	if err != nil {
		return nil, err
	}
	rec.Entries = entries
	return rec, nil
}

// Entries returns the stored entries of a browse in delivery order
func (r *BrowseRepository) Entries(browseID string) ([]*models.Media, error) {
	query := `
		SELECT kind, title, url, mime, thumbnail, duration, album, artist, genre, child_count, modified_at
		FROM browse_entries
		WHERE browse_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, browseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query browse entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Media
	for rows.Next() {
		var (
			kind     string
			m        models.Media
			modified sql.NullTime
		)
		err := rows.Scan(&kind, &m.Title, &m.URL, &m.Mime, &m.Thumbnail, &m.Duration, &m.Album, &m.Artist, &m.Genre, &m.ChildCount, &modified)
		if err != nil {
			return nil, fmt.Errorf("failed to scan browse entry: %w", err)
		}
		if m.Kind, err = models.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("failed to scan browse entry: %w", err)
		}
		if modified.Valid {
			m.ModificationDate = modified.Time.UTC()
		}
		entries = append(entries, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Delete soft-deletes a browse record by ID
func (r *BrowseRepository) Delete(id string) error {
	query := `
		UPDATE browses
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete browse: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: browse not found or already deleted: %s", shared.ErrNotFound, id)
	}
	return nil
}

// List retrieves browse records, newest first, without their entries.
//
// Supported criteria: "container_url" (string), "status" (string or models.BrowseStatus), "limit" (int).
func (r *BrowseRepository) List(criteria map[string]any) ([]*models.BrowseRecord, error) {
	query := `SELECT ` + browseColumns + ` FROM browses WHERE deleted_at IS NULL`
	args := []any{}

	if url, ok := criteria["container_url"].(string); ok && url != "" {
		query += " AND container_url = ?"
		args = append(args, url)
	}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.BrowseStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query browses: %w", err)
	}
	defer rows.Close()

	var records []*models.BrowseRecord
	for rows.Next() {
		rec, err := scanBrowse(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanBrowse scans a single row into a [models.BrowseRecord]; sql.ErrNoRows is returned unwrapped.
func scanBrowse(row scanner) (*models.BrowseRecord, error) {
	var (
		id           string
		sequence     int
		sourceID     string
		containerURL string
		status       string
		total        int
		delivered    int
		skipped      int
		errorMessage sql.NullString
		startedAt    time.Time
		finishedAt   time.Time
		createdAt    time.Time
	)

	err := row.Scan(&id, &sequence, &sourceID, &containerURL, &status, &total, &delivered, &skipped, &errorMessage, &startedAt, &finishedAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan browse: %w", err)
	}

	rec := models.NewBrowseRecord(sourceID, containerURL, models.BrowseStatus(status))
	rec.SetID(id)
	rec.SetSequence(sequence)
	rec.SetCreatedAt(createdAt)
	rec.Total = total
	rec.Delivered = delivered
	rec.Skipped = skipped
	rec.ErrorMessage = errorMessage.String
	rec.StartedAt = startedAt
	rec.FinishedAt = finishedAt
	return rec, nil
}
