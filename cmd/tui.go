package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/duskfall/gamedex/internal/shared"
	"github.com/duskfall/gamedex/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for library browsing.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.games == nil {
		return fmt.Errorf("%w: game service not initialized", shared.ErrServiceUnavailable)
	}
	if r.provider == nil || r.session == nil {
		return fmt.Errorf("%w: identity provider not initialized", shared.ErrServiceUnavailable)
	}

	handles, err := r.openCache()
	if err != nil {
		return err
	}
	defer handles.close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/gamedex-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.provider, r.session, r.games, r.discovery, handles.engine)
	defer model.Close()

	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
