package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
)

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync
// run bookkeeping.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new sync run with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, sequence, games_total, games_synced, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.GamesTotal(),
		run.GamesSynced(),
		run.ErrorMessage(),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

const syncRunColumns = `id, sequence, games_total, games_synced, error_message, started_at, completed_at, created_at, updated_at, deleted_at`

// Get retrieves a sync run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanSyncRun(r.db.QueryRow(query, id))
}

// Latest retrieves the most recent sync run, or nil when none exist
func (r *SyncRunRepository) Latest() (*models.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	run, err := scanSyncRun(r.db.QueryRow(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// Update modifies an existing sync run in the database
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET games_total = ?, games_synced = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.GamesTotal(),
		run.GamesSynced(),
		run.ErrorMessage(),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a sync run by ID
func (r *SyncRunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sync_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all sync runs, newest first, excluding soft-deleted runs
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if failed, ok := criteria["failed"].(bool); ok && failed {
		query += " AND error_message != ''"
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func scanSyncRun(row scanner) (*models.SyncRun, error) {
	var (
		id           string
		sequence     int
		gamesTotal   int
		gamesSynced  int
		errorMessage sql.NullString
		startedAt    time.Time
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &gamesTotal, &gamesSynced, &errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(sequence)
	run.SetID(id)
	run.SetGamesTotal(gamesTotal)
	run.SetGamesSynced(gamesSynced)
	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	run.SetStartedAt(startedAt)
	if completedAt.Valid {
		run.SetCompletedAt(&completedAt.Time)
	}
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
