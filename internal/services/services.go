// package services defines interface Service for the game tracker REST API
// and a raw passthrough client for ad hoc requests.
package services

import (
	"context"
	"io"
	"net/http"

	"github.com/duskfall/gamedex/internal/models"
)

// Doer issues HTTP requests. Satisfied by *http.Client and by the
// authenticated wrapper in internal/auth.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service defines the interface for the tracker's game catalog: the admin
// collection endpoints plus the health probe.
type Service interface {
	// Health pings the API health endpoint.
	Health(ctx context.Context) error

	// FullGameCount returns the total number of tracked games.
	FullGameCount(ctx context.Context) (int, error)

	// GamesByYear retrieves all games completed in the given year.
	GamesByYear(ctx context.Context, year int) ([]models.Game, error)

	// GamesToBeCompleted retrieves the backlog of games not yet completed.
	GamesToBeCompleted(ctx context.Context) ([]models.Game, error)

	// FavouriteGames retrieves games marked as favourites.
	FavouriteGames(ctx context.Context) ([]models.Game, error)

	// HundredPercentGames retrieves games completed to 100%.
	HundredPercentGames(ctx context.Context) ([]models.Game, error)

	// GetGame retrieves a single game by ID.
	GetGame(ctx context.Context, id string) (*models.Game, error)

	// AddGame creates a new game record and returns the stored copy.
	AddGame(ctx context.Context, game *models.Game) (*models.Game, error)

	// UpdateGame replaces the fields of an existing game record.
	UpdateGame(ctx context.Context, id string, game *models.Game) (*models.Game, error)

	// DeleteGame removes a game record.
	DeleteGame(ctx context.Context, id string) error

	// UpdateNote replaces the note attached to a game.
	UpdateNote(ctx context.Context, id, note string) (*models.Game, error)

	// AddMedia uploads a gallery image or video file to a game and returns
	// the updated media lists. mediaType is "image" or "video".
	AddMedia(ctx context.Context, id, mediaType, filename string, content io.Reader) (*models.MediaLists, error)

	// RemoveMedia detaches a gallery image or video URL from a game.
	RemoveMedia(ctx context.Context, id string, update models.MediaUpdate) (*models.MediaLists, error)

	// UploadImage uploads image bytes and returns the public URL.
	UploadImage(ctx context.Context, filename, contentType string, content io.Reader) (string, error)

	// Name returns the name of the service backend.
	Name() string
}

// PresignGrant is the response of the presign endpoint: a short-lived
// direct-upload URL and the public URL the object will have afterwards.
type PresignGrant struct {
	URL              string `json:"url"`
	PublicURL        string `json:"publicUrl"`
	Key              string `json:"key,omitempty"`
	ExpiresInSeconds int    `json:"expiresInSeconds,omitempty"`
}
