package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
)

func yearOf(y int) *int { return &y }

func TestDiscoveryService(t *testing.T) {
	t.Run("Discover", func(t *testing.T) {
		t.Run("Fetches Public List", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/public/ai/games" {
					t.Errorf("expected public path, got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("expected anonymous request to the public endpoint")
				}
				if r.URL.Query().Get("year") != "1998" || r.URL.Query().Get("count") != "10" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.Write([]byte(`{"items":[{"name":"Half-Life","releaseYear":1998,"genres":["FPS"],"platforms":["PC"]}]}`))
			}))
			defer server.Close()

			srv := NewDiscoveryService(NewAPIService(server.URL, nil, 0))
			games, err := srv.Discover(context.Background(), 1998, 10)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(games) != 1 || games[0].Name != "Half-Life" {
				t.Errorf("unexpected games %+v", games)
			}
		})

		t.Run("Upstream Error Surfaces", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			srv := NewDiscoveryService(NewAPIService(server.URL, nil, 0))
			_, err := srv.Discover(context.Background(), 1998, 10)

			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Filter", func(t *testing.T) {
		games := []models.AIGame{
			{Name: "Half-Life", ReleaseYear: yearOf(1998), Genres: []string{"FPS"}, Platforms: []string{"PC"}},
			{Name: "Ocarina of Time", ReleaseYear: yearOf(1998), Genres: []string{"Adventure"}, Platforms: []string{"N64"}},
			{Name: "StarCraft", ReleaseYear: yearOf(1998), Genres: []string{"RTS"}, Platforms: []string{"PC"}},
		}

		t.Run("No Filter Returns All", func(t *testing.T) {
			if got := Filter(games, DiscoveryFilter{}); len(got) != 3 {
				t.Errorf("expected 3 games, got %d", len(got))
			}
		})

		t.Run("By Genre", func(t *testing.T) {
			got := Filter(games, DiscoveryFilter{Genre: "rts"})
			if len(got) != 1 || got[0].Name != "StarCraft" {
				t.Errorf("expected StarCraft only, got %+v", got)
			}
		})

		t.Run("By Platform", func(t *testing.T) {
			got := Filter(games, DiscoveryFilter{Platform: "PC"})
			if len(got) != 2 {
				t.Errorf("expected 2 PC games, got %d", len(got))
			}
		})

		t.Run("By Fuzzy Search", func(t *testing.T) {
			got := Filter(games, DiscoveryFilter{Search: "ocarina"})
			if len(got) != 1 || got[0].Name != "Ocarina of Time" {
				t.Errorf("expected Ocarina of Time, got %+v", got)
			}
		})

		t.Run("Filters Combine", func(t *testing.T) {
			got := Filter(games, DiscoveryFilter{Platform: "PC", Search: "star"})
			if len(got) != 1 || got[0].Name != "StarCraft" {
				t.Errorf("expected StarCraft, got %+v", got)
			}
		})
	})

	t.Run("Facets", func(t *testing.T) {
		games := []models.AIGame{
			{Name: "A", Genres: []string{"RTS", "FPS"}, Platforms: []string{"PC"}},
			{Name: "B", Genres: []string{"FPS"}, Platforms: []string{"PC", "N64"}},
		}

		genres := Genres(games)
		if len(genres) != 2 || genres[0] != "FPS" || genres[1] != "RTS" {
			t.Errorf("expected sorted unique genres, got %v", genres)
		}

		platforms := Platforms(games)
		if len(platforms) != 2 || platforms[0] != "N64" || platforms[1] != "PC" {
			t.Errorf("expected sorted unique platforms, got %v", platforms)
		}
	})
}
