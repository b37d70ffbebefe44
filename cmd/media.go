package main

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/duskfall/gamedex/internal/formatter"
	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
	"github.com/urfave/cli/v3"
)

// MediaAdd attaches an image or video file to a game record.
func (r *Runner) MediaAdd(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	id := cmd.String("id")
	mediaType := cmd.String("type")

	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return err
	}

	r.logger.Info("attaching media", "game", id, "type", mediaType, "file", path)

	lists, err := r.games.AddMedia(ctx, id, mediaType, filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to attach media: %w", err)
	}

	r.writePlain("✓ Media attached\n")
	return r.writeMediaLists(lists)
}

// MediaRemove detaches a media URL from a game record.
func (r *Runner) MediaRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	update := models.MediaUpdate{
		URL:  cmd.String("url"),
		Type: cmd.String("type"),
	}

	r.logger.Info("detaching media", "game", id, "type", update.Type)

	lists, err := r.games.RemoveMedia(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to detach media: %w", err)
	}

	r.writePlain("✓ Media detached\n")
	return r.writeMediaLists(lists)
}

// MediaUpload uploads an image and prints its public URL.
func (r *Runner) MediaUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")

	contentType := cmd.String("content-type")
	if !cmd.IsSet("content-type") {
		if guessed := mime.TypeByExtension(filepath.Ext(path)); guessed != "" {
			contentType = guessed
		}
	}

	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return err
	}

	r.logger.Info("uploading image", "file", path, "content_type", contentType)

	url, err := r.games.UploadImage(ctx, filepath.Base(path), contentType, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	return r.writePlain("%s\n", url)
}

// MediaDownload saves a game's cover image to a local file.
func (r *Runner) MediaDownload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: game ID", shared.ErrMissingArgument)
	}

	game, err := r.games.GetGame(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch game: %w", err)
	}
	if game.ImageURL == "" {
		return fmt.Errorf("%w: game has no cover image", shared.ErrInvalidArgument)
	}

	output := cmd.String("output")
	if output == "" {
		output = filepath.Base(game.ImageURL)
	}

	r.logger.Info("downloading cover image", "game", id, "url", game.ImageURL)

	data, err := formatter.DownloadImage(game.ImageURL)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return r.writePlain("✓ Cover image saved to %s\n", output)
}

func (r *Runner) writeMediaLists(lists *models.MediaLists) error {
	if lists == nil {
		return nil
	}
	if err := r.writePlain("Gallery: %d images\n", len(lists.Gallery)); err != nil {
		return err
	}
	return r.writePlain("Videos: %d\n", len(lists.Videos))
}
