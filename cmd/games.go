package main

import (
	"context"
	"fmt"
	"time"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
	"github.com/duskfall/gamedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GamesList fetches and prints a library subset.
func (r *Runner) GamesList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	var games []models.Game
	var title string
	var err error

	switch {
	case cmd.Bool("cached"):
		title = "Cached Library"
		var snapshot *tasks.LibrarySnapshot
		if snapshot, err = r.snapshot(ctx); err == nil {
			games = snapshot.Games
		}
	case cmd.Bool("backlog"):
		title = "Backlog"
		games, err = r.games.GamesToBeCompleted(ctx)
	case cmd.Bool("favourites"):
		title = "Favourites"
		games, err = r.games.FavouriteGames(ctx)
	case cmd.Bool("hundred"):
		title = "100% Completed"
		games, err = r.games.HundredPercentGames(ctx)
	default:
		year := cmd.Int("year")
		if year == 0 {
			year = time.Now().Year()
		}
		title = fmt.Sprintf("Completed in %d", year)
		games, err = r.games.GamesByYear(ctx, year)
	}

	if err != nil {
		return fmt.Errorf("failed to fetch games: %w", err)
	}

	r.logger.Info("fetched games", "subset", title, "count", len(games))

	if useJSON {
		return r.writeJSON(games, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(games)))
	for i, game := range games {
		r.writeGameLine(i+1, game)
	}
	return nil
}

// GamesCount prints the total number of tracked games.
func (r *Runner) GamesCount(ctx context.Context, cmd *cli.Command) error {
	count, err := r.games.FullGameCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch game count: %w", err)
	}

	return r.writePlain("Tracked games: %d\n", count)
}

// GamesGet fetches and prints a single game record.
func (r *Runner) GamesGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: game ID", shared.ErrMissingArgument)
	}

	game, err := r.games.GetGame(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch game: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(game, true)
	}

	r.writeGameDetail(game)

	if cmd.Bool("open") {
		if game.ImageURL == "" {
			return fmt.Errorf("%w: game has no cover image", shared.ErrInvalidArgument)
		}
		if err := shared.OpenBrowser(game.ImageURL); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return nil
}

// GamesAdd creates a new game record from flags.
func (r *Runner) GamesAdd(ctx context.Context, cmd *cli.Command) error {
	game := &models.Game{
		Name:               cmd.String("name"),
		Year:               cmd.Int("year"),
		CompletedYear:      cmd.Int("completed-year"),
		IsCompleted:        cmd.Bool("completed"),
		IsHundredPercent:   cmd.Bool("hundred"),
		IsFavourite:        cmd.Bool("favourite"),
		SpecialDescription: cmd.String("description"),
		ImageURL:           cmd.String("image-url"),
	}
	if game.CompletedYear == 0 {
		game.CompletedYear = game.Year
	}

	r.logger.Info("adding game", "name", game.Name)

	created, err := r.games.AddGame(ctx, game)
	if err != nil {
		return fmt.Errorf("failed to add game: %w", err)
	}

	r.writePlain("✓ Game added: %s", created.Name)
	if created.ID != "" {
		r.writePlain(" (%s)", created.ID)
	}
	return r.writePlain("\n")
}

// GamesUpdate applies the set flags to an existing game record.
func (r *Runner) GamesUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: game ID", shared.ErrMissingArgument)
	}

	game, err := r.games.GetGame(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch game: %w", err)
	}

	if cmd.IsSet("name") {
		game.Name = cmd.String("name")
	}
	if cmd.IsSet("year") {
		game.Year = cmd.Int("year")
	}
	if cmd.IsSet("completed-year") {
		game.CompletedYear = cmd.Int("completed-year")
	}
	if cmd.IsSet("completed") {
		game.IsCompleted = cmd.Bool("completed")
	}
	if cmd.IsSet("hundred") {
		game.IsHundredPercent = cmd.Bool("hundred")
	}
	if cmd.IsSet("favourite") {
		game.IsFavourite = cmd.Bool("favourite")
	}
	if cmd.IsSet("description") {
		game.SpecialDescription = cmd.String("description")
	}
	if cmd.IsSet("image-url") {
		game.ImageURL = cmd.String("image-url")
	}

	r.logger.Info("updating game", "id", id, "name", game.Name)

	updated, err := r.games.UpdateGame(ctx, id, game)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return r.writePlain("✓ Game updated: %s\n", updated.Name)
}

// GamesDelete removes a game record.
func (r *Runner) GamesDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: game ID", shared.ErrMissingArgument)
	}

	r.logger.Info("deleting game", "id", id)

	if err := r.games.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return r.writePlain("✓ Game deleted: %s\n", id)
}

// GamesNote replaces the note attached to a game.
func (r *Runner) GamesNote(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: game ID", shared.ErrMissingArgument)
	}
	note := cmd.String("text")

	r.logger.Info("updating note", "id", id)

	game, err := r.games.UpdateNote(ctx, id, note)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if note == "" {
		return r.writePlain("✓ Note cleared on %s\n", game.Name)
	}
	return r.writePlain("✓ Note updated on %s\n", game.Name)
}

func (r *Runner) writeGameLine(n int, game models.Game) {
	status := "backlog"
	if game.IsCompleted {
		status = fmt.Sprintf("completed %d", game.CompletedYear)
	}
	r.writePlain("%d. %s (%d) - %s", n, game.Name, game.Year, status)
	if game.IsHundredPercent {
		r.writePlain(" [100%%]")
	}
	if game.IsFavourite {
		r.writePlain(" ★")
	}
	r.writePlain("\n")
}

func (r *Runner) writeGameDetail(game *models.Game) {
	r.writePlainHeader(fmt.Sprintf("%s (%d)", game.Name, game.Year))
	r.writePlain("ID: %s\n", game.ID)
	r.writePlain("Completed: %s", shared.CheckMark(game.IsCompleted))
	if game.IsCompleted {
		r.writePlain(" (%d)", game.CompletedYear)
	}
	r.writePlain("\n")
	r.writePlain("100%%: %s\n", shared.CheckMark(game.IsHundredPercent))
	r.writePlain("Favourite: %s\n", shared.CheckMark(game.IsFavourite))
	if game.SpecialDescription != "" {
		r.writePlain("Description: %s\n", game.SpecialDescription)
	}
	if game.Note != "" {
		r.writePlain("Note: %s\n", game.Note)
	}
	if game.ImageURL != "" {
		r.writePlain("Image: %s\n", game.ImageURL)
	}
	if len(game.Gallery) > 0 {
		r.writePlain("Gallery:\n")
		for _, url := range game.Gallery {
			r.writePlain("  • %s\n", url)
		}
	}
	if len(game.Videos) > 0 {
		r.writePlain("Videos:\n")
		for _, url := range game.Videos {
			r.writePlain("  • %s\n", url)
		}
	}
}
