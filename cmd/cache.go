package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/duskfall/gamedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// defaultSyncYears is how many recent completion years a sync fetches when
// no --years flag is given.
const defaultSyncYears = 3

// CacheSync fetches the library subsets and refreshes the local cache.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	years, err := parseYears(cmd.String("years"))
	if err != nil {
		return err
	}

	handles, err := r.openCache()
	if err != nil {
		return err
	}
	defer handles.close()

	r.logger.Info("syncing library cache", "years", years)
	r.writePlain("Syncing library cache...\n\n")

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := handles.engine.Sync(ctx, years, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlainln("✓ Sync complete")
	r.writePlain("Games: %d\n", result.GamesTotal)
	r.writePlain("Cached: %d\n", result.GamesSynced)
	if len(result.Failures) > 0 {
		r.writePlain("Failed endpoints:\n")
		for _, failure := range result.Failures {
			r.writePlain("  • %s: %v\n", failure.Endpoint, failure.Error)
		}
	}

	return nil
}

// CacheList prints every cached game.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	handles, err := r.openCache()
	if err != nil {
		return err
	}
	defer handles.close()

	snapshot, err := handles.engine.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Cached Library (%d games)", len(snapshot.Games)))
	for i, game := range snapshot.Games {
		r.writeGameLine(i+1, game)
	}
	return nil
}

// CacheClear soft-deletes every cached game.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	handles, err := r.openCache()
	if err != nil {
		return err
	}
	defer handles.close()

	removed, err := handles.games.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cleared library cache", "removed", removed)
	return r.writePlain("✓ Cache cleared (%d games removed)\n", removed)
}

// CacheStatus prints the most recent sync run.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	handles, err := r.openCache()
	if err != nil {
		return err
	}
	defer handles.close()

	run, err := handles.runs.Latest()
	if err != nil {
		return fmt.Errorf("failed to read sync runs: %w", err)
	}
	if run == nil {
		return r.writePlain("No sync runs recorded\n")
	}

	r.writePlainHeader("Last Sync")
	r.writePlain("Started: %s\n", run.StartedAt().Format(time.RFC3339))
	if completed := run.CompletedAt(); completed != nil {
		r.writePlain("Completed: %s\n", completed.Format(time.RFC3339))
	} else {
		r.writePlain("Completed: in progress\n")
	}
	if msg := run.ErrorMessage(); msg != "" {
		r.writePlain("Error: %s\n", msg)
		return nil
	}
	r.writePlain("Games: %d\n", run.GamesTotal())
	r.writePlain("Cached: %d\n", run.GamesSynced())
	return nil
}

// parseYears parses a comma-separated year list, defaulting to the most
// recent completion years.
func parseYears(value string) ([]int, error) {
	if value == "" {
		current := time.Now().Year()
		years := make([]int, 0, defaultSyncYears)
		for i := 0; i < defaultSyncYears; i++ {
			years = append(years, current-i)
		}
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(value, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		years = append(years, year)
	}
	return years, nil
}
