// Game catalog service backed by the tracker's admin REST endpoints.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
)

// presignExpirySeconds is the lifetime requested for direct-upload URLs.
const presignExpirySeconds = 900

// GameService implements [Service] over the tracker API. All requests go
// through the raw [APIService], which carries the caller's bearer token
// and enforces the configured rate limit.
type GameService struct {
	api *APIService

	// uploader performs the direct PUT to a presigned URL. Presigned
	// uploads authenticate through the URL itself, never a bearer token.
	uploader *http.Client
}

// NewGameService creates a game catalog service over the given raw client.
func NewGameService(api *APIService) *GameService {
	return &GameService{api: api, uploader: http.DefaultClient}
}

func (g *GameService) Name() string { return "tracker" }

// Health pings the API health endpoint.
func (g *GameService) Health(ctx context.Context) error {
	resp, err := g.api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// FullGameCount returns the total number of tracked games.
func (g *GameService) FullGameCount(ctx context.Context) (int, error) {
	resp, err := g.api.Get(ctx, "/admin/fullGameCount")
	if err != nil {
		return 0, err
	}
	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	var count models.GameCount
	if err := json.Unmarshal(resp.Body, &count); err != nil {
		return 0, fmt.Errorf("failed to decode count: %w", err)
	}
	return count.FullGameCount, nil
}

// GamesByYear retrieves all games completed in the given year.
func (g *GameService) GamesByYear(ctx context.Context, year int) ([]models.Game, error) {
	return g.list(ctx, fmt.Sprintf("/admin/games/byYear/%d", year))
}

// GamesToBeCompleted retrieves the backlog of games not yet completed.
func (g *GameService) GamesToBeCompleted(ctx context.Context) ([]models.Game, error) {
	return g.list(ctx, "/admin/games/toBeCompleted")
}

// FavouriteGames retrieves games marked as favourites.
func (g *GameService) FavouriteGames(ctx context.Context) ([]models.Game, error) {
	return g.list(ctx, "/admin/getFavouriteGames")
}

// HundredPercentGames retrieves games completed to 100%.
func (g *GameService) HundredPercentGames(ctx context.Context) ([]models.Game, error) {
	return g.list(ctx, "/admin/getHundredPercentCompletedGames")
}

func (g *GameService) list(ctx context.Context, path string) ([]models.Game, error) {
	resp, err := g.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var games []models.Game
	if err := json.Unmarshal(resp.Body, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

// GetGame retrieves a single game by ID.
func (g *GameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	resp, err := g.api.Get(ctx, "/admin/games/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var game models.Game
	if err := json.Unmarshal(resp.Body, &game); err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}
	return &game, nil
}

// AddGame creates a new game record and returns the stored copy.
func (g *GameService) AddGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	payload, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}

	resp, err := g.api.Post(ctx, "/admin/addGameItem", payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeGameOr(resp.Body, game)
}

// UpdateGame replaces the fields of an existing game record.
func (g *GameService) UpdateGame(ctx context.Context, id string, game *models.Game) (*models.Game, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	payload, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game: %w", err)
	}

	resp, err := g.api.Put(ctx, "/admin/games/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeGameOr(resp.Body, game)
}

// DeleteGame removes a game record.
func (g *GameService) DeleteGame(ctx context.Context, id string) error {
	resp, err := g.api.Delete(ctx, "/admin/games/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

// UpdateNote replaces the note attached to a game.
func (g *GameService) UpdateNote(ctx context.Context, id, note string) (*models.Game, error) {
	payload, err := json.Marshal(models.NoteUpdate{Note: note})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	resp, err := g.api.Put(ctx, "/admin/games/"+url.PathEscape(id)+"/note", payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeGameOr(resp.Body, nil)
}

// AddMedia uploads a gallery image or video file to a game and returns the
// updated media lists.
func (g *GameService) AddMedia(ctx context.Context, id, mediaType, filename string, content io.Reader) (*models.MediaLists, error) {
	if mediaType != "image" && mediaType != "video" {
		return nil, fmt.Errorf("%w: media type must be image or video", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}
	if err := writer.WriteField("type", mediaType); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	resp, err := g.api.PostMultipart(ctx, "/admin/games/"+url.PathEscape(id)+"/media", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeMediaLists(resp.Body)
}

// RemoveMedia detaches a gallery image or video URL from a game.
func (g *GameService) RemoveMedia(ctx context.Context, id string, update models.MediaUpdate) (*models.MediaLists, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal media: %w", err)
	}

	resp, err := g.api.Delete(ctx, "/admin/games/"+url.PathEscape(id)+"/media", payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return decodeMediaLists(resp.Body)
}

// UploadImage uploads image bytes and returns the public URL.
//
// The fast path asks the API to presign a direct upload and PUTs the bytes
// straight to storage. Any failure along that path falls back to the
// multipart upload endpoint, which streams through the API instead.
func (g *GameService) UploadImage(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	publicURL, presignErr := g.uploadPresigned(ctx, filename, contentType, data)
	if presignErr == nil {
		return publicURL, nil
	}

	publicURL, err = g.uploadMultipart(ctx, filename, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUploadFailed, presignErr)
	}
	return publicURL, nil
}

func (g *GameService) uploadPresigned(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	form := url.Values{}
	form.Set("filename", filename)
	if contentType != "" {
		form.Set("contentType", contentType)
	}
	form.Set("expiresSeconds", fmt.Sprintf("%d", presignExpirySeconds))

	resp, err := g.api.PostForm(ctx, "/admin/s3/presign", form.Encode())
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var grant PresignGrant
	if err := json.Unmarshal(resp.Body, &grant); err != nil {
		return "", fmt.Errorf("failed to decode presign response: %w", err)
	}
	if grant.URL == "" || grant.PublicURL == "" {
		return "", fmt.Errorf("%w: incomplete presign response", shared.ErrUploadFailed)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, grant.URL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	putResp, err := g.uploader.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	defer putResp.Body.Close()

	if putResp.StatusCode < 200 || putResp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: storage returned status %d", shared.ErrUploadFailed, putResp.StatusCode)
	}

	return grant.PublicURL, nil
}

func (g *GameService) uploadMultipart(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	resp, err := g.api.PostMultipart(ctx, "/admin/uploadImage", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	return string(bytes.TrimSpace(resp.Body)), nil
}

// checkStatus converts a non-2xx API response into a sentinel error.
func checkStatus(resp *APIResponse) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", shared.ErrGameNotFound, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
}

// decodeGameOr decodes a game from body, falling back to the submitted
// record when the API answers with an empty or non-JSON body.
func decodeGameOr(body []byte, fallback *models.Game) (*models.Game, error) {
	var game models.Game
	if err := json.Unmarshal(body, &game); err != nil || game.Name == "" {
		return fallback, nil
	}
	return &game, nil
}

func decodeMediaLists(body []byte) (*models.MediaLists, error) {
	var lists models.MediaLists
	if err := json.Unmarshal(body, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode media lists: %w", err)
	}
	return &lists, nil
}
