// Game record types exchanged with the tracker API.
//
// The API has shipped several shapes for the record identifier over time
// (id, _id, gameId, itemId). Normalization happens once, at decode time;
// everything downstream reads Game.ID only.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// minReleaseYear matches the oldest year the tracker accepts.
const minReleaseYear = 1975

const maxNameLength = 40

// Game represents a single game record as served by the tracker API.
type Game struct {
	ID                 string   `json:"id,omitempty"`
	Name               string   `json:"name"`
	Year               int      `json:"year"`
	CompletedYear      int      `json:"completedYear"`
	IsCompleted        bool     `json:"isCompleted"`
	IsHundredPercent   bool     `json:"isHundredPercent"`
	IsFavourite        bool     `json:"isFavourite"`
	SpecialDescription string   `json:"specialDescription"`
	ImageURL           string   `json:"imageUrl"`
	Note               string   `json:"note,omitempty"`
	Gallery            []string `json:"gallery,omitempty"`
	Videos             []string `json:"videos,omitempty"`
}

// gameAlias avoids recursing into Game.UnmarshalJSON.
type gameAlias Game

type gameWire struct {
	gameAlias
	AltID  string `json:"_id,omitempty"`
	GameID string `json:"gameId,omitempty"`
	ItemID string `json:"itemId,omitempty"`
}

// UnmarshalJSON decodes a game record, collapsing the alternate identifier
// keys the API has used into the canonical ID field.
func (g *Game) UnmarshalJSON(data []byte) error {
	var wire gameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*g = Game(wire.gameAlias)
	if g.ID == "" {
		switch {
		case wire.AltID != "":
			g.ID = wire.AltID
		case wire.GameID != "":
			g.ID = wire.GameID
		case wire.ItemID != "":
			g.ID = wire.ItemID
		}
	}

	return nil
}

// Validate checks the form constraints the tracker enforces on game records.
func (g *Game) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name exceeds %d characters", maxNameLength)
	}
	if g.Year < minReleaseYear {
		return fmt.Errorf("year must be %d or later", minReleaseYear)
	}
	if g.CompletedYear < minReleaseYear {
		return fmt.Errorf("completed year must be %d or later", minReleaseYear)
	}
	if len(g.SpecialDescription) > maxNameLength {
		return fmt.Errorf("special description exceeds %d characters", maxNameLength)
	}
	return nil
}

// NoteUpdate is the payload for replacing a game's note.
type NoteUpdate struct {
	Note string `json:"note"`
}

// MediaUpdate identifies a gallery image or video URL on a game record.
type MediaUpdate struct {
	URL  string `json:"url"`
	Type string `json:"type"` // "image" or "video"
}

// MediaLists is the API response after a media mutation.
type MediaLists struct {
	Gallery []string `json:"gallery"`
	Videos  []string `json:"videos"`
}

// GameCount is the response shape of the full game count endpoint.
type GameCount struct {
	FullGameCount int `json:"fullGameCount"`
}

// AIGame represents a title from the AI-curated discovery list.
type AIGame struct {
	Name        string   `json:"name"`
	ReleaseYear *int     `json:"releaseYear"`
	Summary     *string  `json:"summary"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
	CoverURL    *string  `json:"coverUrl"`
}

// DiscoveryList is the response envelope of the public discovery endpoint.
type DiscoveryList struct {
	Items []AIGame `json:"items"`
}
