// package tasks implements long-running operations over the tracker API.
//
// The core abstraction is LibraryEngine, which orchestrates full-library
// syncs into the local cache and raw data dumps. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/repositories"
	"github.com/duskfall/gamedex/internal/services"
	"github.com/duskfall/gamedex/internal/shared"
)

// SyncResult contains all data from a full library sync.
type SyncResult struct {
	GamesTotal  int              // Count reported by the API before syncing
	GamesSynced int              // Distinct records written to the cache
	Failures    []EndpointResult // Endpoint fetches that failed
	Run         *models.SyncRun  // Persisted bookkeeping record, nil without a run repo
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains raw data fetched from the tracker API.
type DumpResult struct {
	Health         any              // Health status
	FullGameCount  any              // Library size
	ToBeCompleted  any              // Backlog
	Favourites     any              // Favourite games
	HundredPercent any              // 100% completed games
	Errors         []EndpointResult // Failed endpoint fetches
}

// DumpData is the serializable shape of a dump for file output.
type DumpData struct {
	Health         any   `json:"health"`
	FullGameCount  any   `json:"full_game_count,omitempty"`
	ToBeCompleted  any   `json:"to_be_completed,omitempty"`
	Favourites     any   `json:"favourites,omitempty"`
	HundredPercent any   `json:"hundred_percent,omitempty"`
	Errors         []any `json:"errors,omitempty"`
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// LibrarySnapshot is the cached library at a point in time.
type LibrarySnapshot struct {
	Games       []models.Game
	GeneratedAt time.Time
}

// LibraryEngine defines operations for syncing the remote library into the
// local cache.
type LibraryEngine interface {
	// Sync fetches the backlog, the given completion years, favourites, and
	// 100% lists, and upserts every distinct record into the local cache.
	Sync(ctx context.Context, years []int, progress chan<- ProgressUpdate) (*SyncResult, error)

	// Snapshot reads the full cached library.
	Snapshot(ctx context.Context) (*LibrarySnapshot, error)

	// Dump fetches raw data from the admin endpoints without touching the cache.
	Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error)
}

// APIClient defines the interface for making raw API requests.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// GameEngine implements LibraryEngine over the game catalog service and the
// local cache repositories.
type GameEngine struct {
	games services.Service
	repo  *repositories.GameRepository
	runs  *repositories.SyncRunRepository
	api   APIClient
}

// NewGameEngine creates a new GameEngine with the provided dependencies.
// runs may be nil to skip sync bookkeeping; api is only needed for Dump.
func NewGameEngine(games services.Service, repo *repositories.GameRepository, runs *repositories.SyncRunRepository, api APIClient) *GameEngine {
	return &GameEngine{
		games: games,
		repo:  repo,
		runs:  runs,
		api:   api,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *GameEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Sync performs a full library sync into the local cache.
//
// Every subset endpoint is fetched once; records appearing in several
// subsets (a favourite completed this year, say) are merged by remote ID,
// so repeated syncs converge instead of duplicating rows.
func (e *GameEngine) Sync(ctx context.Context, years []int, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.games == nil {
		return nil, fmt.Errorf("%w: game service not initialized", shared.ErrServiceUnavailable)
	}
	if e.repo == nil {
		return nil, fmt.Errorf("%w: cache repository not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{}

	var run *models.SyncRun
	if e.runs != nil {
		run = models.NewSyncRun(0)
		if err := e.runs.Create(run); err != nil {
			return nil, fmt.Errorf("failed to record sync run: %w", err)
		}
		result.Run = run
	}

	fail := func(err error) (*SyncResult, error) {
		if run != nil {
			run.Fail(err.Error())
			e.runs.Update(run)
		}
		return result, err
	}

	totalSteps := 4 + len(years)
	step := 0

	step++
	e.sendProgress(progress, fetchCountUpdate(step, totalSteps))
	count, err := e.games.FullGameCount(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch game count: %w", err))
	}
	result.GamesTotal = count

	library := map[string]models.Game{}
	merge := func(games []models.Game) {
		for _, g := range games {
			if g.ID == "" {
				continue
			}
			library[g.ID] = g
		}
	}

	step++
	e.sendProgress(progress, fetchBacklogUpdate(step, totalSteps))
	backlog, err := e.games.GamesToBeCompleted(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch backlog: %w", err))
	}
	merge(backlog)

	for i, year := range years {
		step++
		e.sendProgress(progress, fetchYearUpdate(i+1, len(years), year))
		games, err := e.games.GamesByYear(ctx, year)
		if err != nil {
			result.Failures = append(result.Failures, EndpointResult{
				Endpoint: fmt.Sprintf("/admin/games/byYear/%d", year),
				Error:    err,
			})
			continue
		}
		merge(games)
	}

	step++
	e.sendProgress(progress, fetchFavouritesUpdate(step, totalSteps))
	favourites, err := e.games.FavouriteGames(ctx)
	if err != nil {
		result.Failures = append(result.Failures, EndpointResult{Endpoint: "/admin/getFavouriteGames", Error: err})
	} else {
		merge(favourites)
	}

	step++
	e.sendProgress(progress, fetchHundredUpdate(step, totalSteps))
	hundred, err := e.games.HundredPercentGames(ctx)
	if err != nil {
		result.Failures = append(result.Failures, EndpointResult{Endpoint: "/admin/getHundredPercentCompletedGames", Error: err})
	} else {
		merge(hundred)
	}

	e.sendProgress(progress, writeCacheUpdate(0, len(library)))

	syncedAt := time.Now()
	written := 0
	for _, game := range library {
		if err := e.repo.Upsert(models.NewCachedGame(0, game, syncedAt)); err != nil {
			result.Failures = append(result.Failures, EndpointResult{
				Endpoint: "cache:" + game.ID,
				Error:    err,
			})
			continue
		}
		written++
		e.sendProgress(progress, writeCacheUpdate(written, len(library)))
	}
	result.GamesSynced = written

	if run != nil {
		run.Complete(len(library), written)
		if err := e.runs.Update(run); err != nil {
			return result, fmt.Errorf("failed to finish sync run: %w", err)
		}
	}

	return result, nil
}

// Snapshot reads the full cached library, oldest rows first.
func (e *GameEngine) Snapshot(ctx context.Context) (*LibrarySnapshot, error) {
	if e.repo == nil {
		return nil, fmt.Errorf("%w: cache repository not initialized", shared.ErrServiceUnavailable)
	}

	cached, err := e.repo.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	snapshot := &LibrarySnapshot{GeneratedAt: time.Now()}
	for _, c := range cached {
		snapshot.Games = append(snapshot.Games, c.Game())
	}

	return snapshot, nil
}

// Dump fetches raw data from the admin endpoints.
func (e *GameEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "health", path: "/health", target: &result.Health, phase: FetchHealth, message: "Fetching health status..."},
		{name: "full_game_count", path: "/admin/fullGameCount", target: &result.FullGameCount, phase: FetchCount, message: "Fetching library size..."},
		{name: "to_be_completed", path: "/admin/games/toBeCompleted", target: &result.ToBeCompleted, phase: FetchBacklog, message: "Fetching backlog..."},
		{name: "favourites", path: "/admin/getFavouriteGames", target: &result.Favourites, phase: FetchFavourites, message: "Fetching favourites..."},
		{name: "hundred_percent", path: "/admin/getHundredPercentCompletedGames", target: &result.HundredPercent, phase: FetchHundred, message: "Fetching 100% completed games..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}
