package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
)

// GameRepository implements models.Repository[*models.CachedGame] for the
// local library cache.
//
// Handles game CRUD operations with soft delete support and remote-ID
// upserts used by the sync engine.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository with the given database connection
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new cached game into the database with generated ID and sequence
func (r *GameRepository) Create(cached *models.CachedGame) error {
	sequence, err := NextSequence(r.db, "games")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	cached.SetID(id)
	cached.SetSequence(sequence)

	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	game := cached.Game()
	query := `
		INSERT INTO games (id, sequence, remote_id, name, year, completed_year, is_completed, is_hundred_percent, is_favourite, special_description, image_url, note, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		game.ID,
		game.Name,
		game.Year,
		game.CompletedYear,
		game.IsCompleted,
		game.IsHundredPercent,
		game.IsFavourite,
		game.SpecialDescription,
		game.ImageURL,
		game.Note,
		cached.SyncedAt(),
		cached.CreatedAt(),
		cached.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

const gameColumns = `id, sequence, remote_id, name, year, completed_year, is_completed, is_hundred_percent, is_favourite, special_description, image_url, note, synced_at, created_at, updated_at, deleted_at`

// Get retrieves a cached game by ID, excluding soft-deleted games
func (r *GameRepository) Get(id string) (*models.CachedGame, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanGame(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached game by its remote record ID
func (r *GameRepository) GetByRemoteID(remoteID string) (*models.CachedGame, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return scanGame(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing cached game in the database
func (r *GameRepository) Update(cached *models.CachedGame) error {
	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	cached.SetUpdatedAt(now)

	game := cached.Game()
	query := `
		UPDATE games
		SET name = ?, year = ?, completed_year = ?, is_completed = ?, is_hundred_percent = ?, is_favourite = ?, special_description = ?, image_url = ?, note = ?, synced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		game.Name,
		game.Year,
		game.CompletedYear,
		game.IsCompleted,
		game.IsHundredPercent,
		game.IsFavourite,
		game.SpecialDescription,
		game.ImageURL,
		game.Note,
		cached.SyncedAt(),
		now,
		cached.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("game not found or already deleted: %s", cached.ID())
	}

	return nil
}

// Upsert inserts the record or, when a row with the same remote ID already
// exists, replaces its fields in place. Used by the sync engine so repeated
// syncs converge instead of duplicating rows.
func (r *GameRepository) Upsert(cached *models.CachedGame) error {
	existing, err := r.GetByRemoteID(cached.RemoteID())
	if errors.Is(err, sql.ErrNoRows) {
		return r.Create(cached)
	}
	if err != nil {
		return fmt.Errorf("failed to look up cached game: %w", err)
	}

	existing.SetGame(cached.Game())
	existing.SetSyncedAt(cached.SyncedAt())
	return r.Update(existing)
}

// Delete soft-deletes a cached game by ID
func (r *GameRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE games
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("game not found or already deleted: %s", id)
	}

	return nil
}

// DeleteByRemoteID soft-deletes a cached game by its remote record ID
func (r *GameRepository) DeleteByRemoteID(remoteID string) error {
	cached, err := r.GetByRemoteID(remoteID)
	if err != nil {
		return err
	}
	return r.Delete(cached.ID())
}

// Clear soft-deletes every cached game and returns how many were removed
func (r *GameRepository) Clear() (int, error) {
	now := time.Now()

	result, err := r.db.Exec(`UPDATE games SET deleted_at = ? WHERE deleted_at IS NULL`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// List retrieves all cached games matching the given criteria, excluding soft-deleted games
func (r *GameRepository) List(criteria map[string]any) ([]*models.CachedGame, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if year, ok := criteria["completed_year"].(int); ok && year > 0 {
		query += " AND completed_year = ?"
		args = append(args, year)
	}

	if favourite, ok := criteria["is_favourite"].(bool); ok && favourite {
		query += " AND is_favourite = 1"
	}

	if hundred, ok := criteria["is_hundred_percent"].(bool); ok && hundred {
		query += " AND is_hundred_percent = 1"
	}

	if backlog, ok := criteria["to_be_completed"].(bool); ok && backlog {
		query += " AND is_completed = 0"
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.CachedGame
	for rows.Next() {
		cached, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, cached)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return games, nil
}

// scanner abstracts *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*models.CachedGame, error) {
	var (
		id          string
		sequence    int
		remoteID    string
		name        string
		year        int
		completed   int
		isCompleted bool
		isHundred   bool
		isFavourite bool
		description string
		imageURL    string
		note        string
		syncedAt    time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &name, &year, &completed, &isCompleted, &isHundred, &isFavourite, &description, &imageURL, &note, &syncedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	game := models.Game{
		ID:                 remoteID,
		Name:               name,
		Year:               year,
		CompletedYear:      completed,
		IsCompleted:        isCompleted,
		IsHundredPercent:   isHundred,
		IsFavourite:        isFavourite,
		SpecialDescription: description,
		ImageURL:           imageURL,
		Note:               note,
	}

	cached := models.NewCachedGame(sequence, game, syncedAt)
	cached.SetID(id)
	cached.SetCreatedAt(createdAt)
	cached.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		cached.SetDeletedAt(&deletedAt.Time)
	}

	return cached, nil
}
