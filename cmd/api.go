package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/duskfall/gamedex/internal/shared"
	"github.com/duskfall/gamedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the tracker
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct POST request to the tracker
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)

	if err := shared.ValidateJSON([]byte(data)); err != nil {
		return err
	}

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIHealth pings the tracker's public health endpoint.
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	if err := r.games.Health(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("✓ API is healthy\n")
}

// APIDump fetches and displays the full tracker state.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")
	r.writePlain("Fetching tracker state...\n\n")

	engine := tasks.NewGameEngine(r.games, nil, nil, r.api)

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := engine.Dump(ctx, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	dump := tasks.DumpData{
		Health:         result.Health,
		FullGameCount:  result.FullGameCount,
		ToBeCompleted:  result.ToBeCompleted,
		Favourites:     result.Favourites,
		HundredPercent: result.HundredPercent,
	}
	for _, failure := range result.Errors {
		dump.Errors = append(dump.Errors, map[string]string{
			"endpoint": failure.Endpoint,
			"error":    failure.Error.Error(),
		})
		r.logger.Warn("failed to fetch endpoint", "endpoint", failure.Endpoint, "error", failure.Error)
	}

	r.writePlain("\n✓ Dump complete\n\n")

	if save {
		saveFile := "api_dump.json"
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", saveFile)
			r.writePlain("✓ Dump saved to %s\n\n", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}
