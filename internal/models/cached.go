package models

import (
	"fmt"
	"time"
)

// CachedGame is a locally persisted copy of a remote game record.
//
// Implements [Model] for storage through [Repository].
type CachedGame struct {
	id        string
	sequence  int
	game      Game
	syncedAt  time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedGame wraps a remote game record for local persistence.
func NewCachedGame(sequence int, game Game, syncedAt time.Time) *CachedGame {
	now := time.Now()
	return &CachedGame{
		sequence:  sequence,
		game:      game,
		syncedAt:  syncedAt,
		createdAt: now,
		updatedAt: now,
	}
}

func (c *CachedGame) ID() string            { return c.id }
func (c *CachedGame) Sequence() int         { return c.sequence }
func (c *CachedGame) Game() Game            { return c.game }
func (c *CachedGame) RemoteID() string      { return c.game.ID }
func (c *CachedGame) SyncedAt() time.Time   { return c.syncedAt }
func (c *CachedGame) CreatedAt() time.Time  { return c.createdAt }
func (c *CachedGame) UpdatedAt() time.Time  { return c.updatedAt }
func (c *CachedGame) DeletedAt() *time.Time { return c.deletedAt }

func (c *CachedGame) SetID(id string)            { c.id = id }
func (c *CachedGame) SetSequence(n int)          { c.sequence = n }
func (c *CachedGame) SetGame(g Game)             { c.game = g }
func (c *CachedGame) SetSyncedAt(t time.Time)    { c.syncedAt = t }
func (c *CachedGame) SetCreatedAt(t time.Time)   { c.createdAt = t }
func (c *CachedGame) SetUpdatedAt(t time.Time)   { c.updatedAt = t }
func (c *CachedGame) SetDeletedAt(t *time.Time)  { c.deletedAt = t }

// Validate checks the wrapped record and the cache bookkeeping fields.
func (c *CachedGame) Validate() error {
	if c.game.ID == "" {
		return fmt.Errorf("remote ID is required")
	}
	if c.syncedAt.IsZero() {
		return fmt.Errorf("synced_at is required")
	}
	return c.game.Validate()
}

// SyncRun records one full-library sync into the local cache.
type SyncRun struct {
	id           string
	sequence     int
	gamesTotal   int
	gamesSynced  int
	errorMessage string
	startedAt    time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewSyncRun creates a sync run starting now.
func NewSyncRun(sequence int) *SyncRun {
	now := time.Now()
	return &SyncRun{
		sequence:  sequence,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *SyncRun) ID() string              { return s.id }
func (s *SyncRun) Sequence() int           { return s.sequence }
func (s *SyncRun) GamesTotal() int         { return s.gamesTotal }
func (s *SyncRun) GamesSynced() int        { return s.gamesSynced }
func (s *SyncRun) ErrorMessage() string    { return s.errorMessage }
func (s *SyncRun) StartedAt() time.Time    { return s.startedAt }
func (s *SyncRun) CompletedAt() *time.Time { return s.completedAt }
func (s *SyncRun) CreatedAt() time.Time    { return s.createdAt }
func (s *SyncRun) UpdatedAt() time.Time    { return s.updatedAt }
func (s *SyncRun) DeletedAt() *time.Time   { return s.deletedAt }

func (s *SyncRun) SetID(id string)           { s.id = id }
func (s *SyncRun) SetSequence(n int)         { s.sequence = n }
func (s *SyncRun) SetGamesTotal(n int)       { s.gamesTotal = n }
func (s *SyncRun) SetGamesSynced(n int)      { s.gamesSynced = n }
func (s *SyncRun) SetErrorMessage(m string)  { s.errorMessage = m }
func (s *SyncRun) SetStartedAt(t time.Time)  { s.startedAt = t }
func (s *SyncRun) SetCompletedAt(t *time.Time) { s.completedAt = t }
func (s *SyncRun) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *SyncRun) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *SyncRun) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Complete marks the run finished with the given counts.
func (s *SyncRun) Complete(total, synced int) {
	now := time.Now()
	s.gamesTotal = total
	s.gamesSynced = synced
	s.completedAt = &now
	s.updatedAt = now
}

// Fail marks the run finished with an error message.
func (s *SyncRun) Fail(msg string) {
	now := time.Now()
	s.errorMessage = msg
	s.completedAt = &now
	s.updatedAt = now
}

// Validate checks the sync run bookkeeping fields.
func (s *SyncRun) Validate() error {
	if s.startedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}
	if s.gamesSynced > s.gamesTotal {
		return fmt.Errorf("games_synced cannot exceed games_total")
	}
	return nil
}
