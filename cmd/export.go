package main

import (
	"context"
	"fmt"

	"github.com/duskfall/gamedex/internal/formatter"
	"github.com/duskfall/gamedex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportCSV exports the cached library to CSV with a JSON metadata file.
func (r *Runner) ExportCSV(ctx context.Context, cmd *cli.Command) error {
	snapshot, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	result, err := formatter.WriteCSVExport(snapshot, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}

	r.logger.Info("exported library", "format", "csv", "games", len(snapshot.Games))
	r.writePlain("✓ Exported %d games\n", len(snapshot.Games))
	r.writePlain("CSV: %s\n", result.GamesFile)
	r.writePlain("JSON: %s\n", result.MetadataFile)
	return nil
}

// ExportMarkdown exports the cached library to Markdown.
func (r *Runner) ExportMarkdown(ctx context.Context, cmd *cli.Command) error {
	snapshot, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	path, err := formatter.WriteMarkdownExport(snapshot, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export Markdown: %w", err)
	}

	r.logger.Info("exported library", "format", "markdown", "games", len(snapshot.Games))
	return r.writePlain("✓ Exported %d games to %s\n", len(snapshot.Games), path)
}

// ExportText exports the cached library to plain text.
func (r *Runner) ExportText(ctx context.Context, cmd *cli.Command) error {
	snapshot, err := r.snapshot(ctx)
	if err != nil {
		return err
	}

	path, err := formatter.WriteTextExport(snapshot, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("failed to export text: %w", err)
	}

	r.logger.Info("exported library", "format", "text", "games", len(snapshot.Games))
	return r.writePlain("✓ Exported %d games to %s\n", len(snapshot.Games), path)
}

// snapshot reads the cached library for export.
func (r *Runner) snapshot(ctx context.Context) (*tasks.LibrarySnapshot, error) {
	handles, err := r.openCache()
	if err != nil {
		return nil, err
	}
	defer handles.close()

	snapshot, err := handles.engine.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	return snapshot, nil
}
