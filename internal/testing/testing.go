// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/duskfall/gamedex/internal/models"
)

// MockService is a test double for the game catalog service. Read methods
// answer from the Games slice; every method returns Err when set.
type MockService struct {
	Games []models.Game
	Err   error
}

func (m *MockService) Health(ctx context.Context) error { return m.Err }

func (m *MockService) FullGameCount(ctx context.Context) (int, error) {
	return len(m.Games), m.Err
}

func (m *MockService) GamesByYear(ctx context.Context, year int) ([]models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var games []models.Game
	for _, g := range m.Games {
		if g.CompletedYear == year {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *MockService) GamesToBeCompleted(ctx context.Context) ([]models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var games []models.Game
	for _, g := range m.Games {
		if !g.IsCompleted {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *MockService) FavouriteGames(ctx context.Context) ([]models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var games []models.Game
	for _, g := range m.Games {
		if g.IsFavourite {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *MockService) HundredPercentGames(ctx context.Context) ([]models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var games []models.Game
	for _, g := range m.Games {
		if g.IsHundredPercent {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *MockService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Games {
		if m.Games[i].ID == id {
			return &m.Games[i], nil
		}
	}
	return nil, errors.New("game not found")
}

func (m *MockService) AddGame(ctx context.Context, game *models.Game) (*models.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Games = append(m.Games, *game)
	return game, nil
}

func (m *MockService) UpdateGame(ctx context.Context, id string, game *models.Game) (*models.Game, error) {
	return game, m.Err
}

func (m *MockService) DeleteGame(ctx context.Context, id string) error { return m.Err }

func (m *MockService) UpdateNote(ctx context.Context, id, note string) (*models.Game, error) {
	return nil, m.Err
}

func (m *MockService) AddMedia(ctx context.Context, id, mediaType, filename string, content io.Reader) (*models.MediaLists, error) {
	return &models.MediaLists{}, m.Err
}

func (m *MockService) RemoveMedia(ctx context.Context, id string, update models.MediaUpdate) (*models.MediaLists, error) {
	return &models.MediaLists{}, m.Err
}

func (m *MockService) UploadImage(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	return "https://cdn.example.com/" + filename, m.Err
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
