package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/duskfall/gamedex/internal/models"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = gameItem{}
	_ list.Item = discoverItem{}
)

// menuItem is an entry on the main menu.
type menuItem struct {
	title     string
	desc      string
	protected bool
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// gameItem wraps [models.Game] to implement [list.Item].
type gameItem struct {
	game models.Game
}

func (i gameItem) FilterValue() string { return i.game.Name }
func (i gameItem) Title() string       { return i.game.Name }
func (i gameItem) Description() string {
	desc := fmt.Sprintf("%d", i.game.Year)
	if i.game.IsCompleted {
		desc = fmt.Sprintf("%s • completed %d", desc, i.game.CompletedYear)
	} else {
		desc = fmt.Sprintf("%s • backlog", desc)
	}
	if i.game.IsHundredPercent {
		desc += " • 100%"
	}
	if i.game.IsFavourite {
		desc += " • ★"
	}
	return desc
}

// discoverItem wraps [models.AIGame] to implement [list.Item].
type discoverItem struct {
	game models.AIGame
}

func (i discoverItem) FilterValue() string { return i.game.Name }
func (i discoverItem) Title() string {
	if i.game.ReleaseYear != nil {
		return fmt.Sprintf("%s (%d)", i.game.Name, *i.game.ReleaseYear)
	}
	return i.game.Name
}
func (i discoverItem) Description() string {
	if i.game.Summary != nil && *i.game.Summary != "" {
		return *i.game.Summary
	}
	if len(i.game.Genres) > 0 {
		return i.game.Genres[0]
	}
	return ""
}
