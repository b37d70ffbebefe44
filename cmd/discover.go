package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/duskfall/gamedex/internal/services"
	"github.com/urfave/cli/v3"
)

// Discover fetches the public AI-curated list, applies the requested
// filters, and prints the result.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	year := cmd.Int("year")
	if year == 0 {
		year = time.Now().Year()
	}
	count := cmd.Int("count")

	r.logger.Info("fetching discovery list", "year", year, "count", count)

	games, err := r.discovery.Discover(ctx, year, count)
	if err != nil {
		return fmt.Errorf("failed to fetch discovery list: %w", err)
	}

	if cmd.Bool("facets") {
		r.writePlainHeader("Discovery Facets")
		r.writePlain("Genres: %s\n", strings.Join(services.Genres(games), ", "))
		r.writePlain("Platforms: %s\n", strings.Join(services.Platforms(games), ", "))
		return nil
	}

	filtered := services.Filter(games, services.DiscoveryFilter{
		Search:   cmd.String("search"),
		Genre:    cmd.String("genre"),
		Platform: cmd.String("platform"),
	})

	if cmd.Bool("json") {
		return r.writeJSON(filtered, true)
	}

	r.writePlainHeader(fmt.Sprintf("Discover %d (%d titles)", year, len(filtered)))
	for i, game := range filtered {
		r.writePlain("%d. %s", i+1, game.Name)
		if game.ReleaseYear != nil {
			r.writePlain(" (%d)", *game.ReleaseYear)
		}
		r.writePlain("\n")
		if game.Summary != nil && *game.Summary != "" {
			r.writePlain("   %s\n", *game.Summary)
		}
		if len(game.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(game.Genres, ", "))
		}
		if len(game.Platforms) > 0 {
			r.writePlain("   Platforms: %s\n", strings.Join(game.Platforms, ", "))
		}
	}
	return nil
}
