package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
)

func newGameService(server *httptest.Server) *GameService {
	return NewGameService(NewAPIService(server.URL, nil, 0))
}

func TestGameService(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		t.Run("Healthy API", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("expected path '/health', got %s", r.URL.Path)
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			if err := newGameService(server).Health(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Unhealthy API", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			err := newGameService(server).Health(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("FullGameCount", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/fullGameCount" {
				t.Errorf("expected count path, got %s", r.URL.Path)
			}
			w.Write([]byte(`{"fullGameCount": 42}`))
		}))
		defer server.Close()

		count, err := newGameService(server).FullGameCount(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 42 {
			t.Errorf("expected count 42, got %d", count)
		}
	})

	t.Run("GamesByYear", func(t *testing.T) {
		t.Run("Decodes Records", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/games/byYear/2024" {
					t.Errorf("expected year path, got %s", r.URL.Path)
				}
				w.Write([]byte(`[{"id":"g1","name":"Hades","year":2020,"completedYear":2024}]`))
			}))
			defer server.Close()

			games, err := newGameService(server).GamesByYear(context.Background(), 2024)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(games) != 1 || games[0].Name != "Hades" {
				t.Errorf("unexpected games %+v", games)
			}
		})

		t.Run("Normalizes Alternate ID Keys", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"_id":"alt-1","name":"Celeste","year":2018,"completedYear":2024}]`))
			}))
			defer server.Close()

			games, err := newGameService(server).GamesByYear(context.Background(), 2024)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if games[0].ID != "alt-1" {
				t.Errorf("expected _id collapsed into ID, got %q", games[0].ID)
			}
		})
	})

	t.Run("Subset Paths", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		srv := newGameService(server)
		cases := []struct {
			name string
			call func() ([]models.Game, error)
			want string
		}{
			{"Backlog", func() ([]models.Game, error) { return srv.GamesToBeCompleted(context.Background()) }, "/admin/games/toBeCompleted"},
			{"Favourites", func() ([]models.Game, error) { return srv.FavouriteGames(context.Background()) }, "/admin/getFavouriteGames"},
			{"Hundred Percent", func() ([]models.Game, error) { return srv.HundredPercentGames(context.Background()) }, "/admin/getHundredPercentCompletedGames"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := tc.call(); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if gotPath != tc.want {
					t.Errorf("expected path %s, got %s", tc.want, gotPath)
				}
			})
		}
	})

	t.Run("GetGame", func(t *testing.T) {
		t.Run("Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/games/g1" {
					t.Errorf("expected game path, got %s", r.URL.Path)
				}
				w.Write([]byte(`{"id":"g1","name":"Hades","year":2020,"completedYear":2024,"note":"roguelike"}`))
			}))
			defer server.Close()

			game, err := newGameService(server).GetGame(context.Background(), "g1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if game.Note != "roguelike" {
				t.Errorf("expected note decoded, got %q", game.Note)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := newGameService(server).GetGame(context.Background(), "missing")
			if !errors.Is(err, shared.ErrGameNotFound) {
				t.Errorf("expected ErrGameNotFound, got %v", err)
			}
		})
	})

	t.Run("AddGame", func(t *testing.T) {
		t.Run("Posts Record", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/addGameItem" {
					t.Errorf("expected add path, got %s", r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				var game models.Game
				if err := json.Unmarshal(body, &game); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if game.Name != "Hades" {
					t.Errorf("expected submitted name, got %q", game.Name)
				}
				game.ID = "new-1"
				json.NewEncoder(w).Encode(game)
			}))
			defer server.Close()

			created, err := newGameService(server).AddGame(context.Background(), &models.Game{
				Name:          "Hades",
				Year:          2020,
				CompletedYear: 2024,
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if created.ID != "new-1" {
				t.Errorf("expected server-assigned ID, got %q", created.ID)
			}
		})

		t.Run("Rejects Invalid Record Before Sending", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("expected no request for an invalid record")
			}))
			defer server.Close()

			_, err := newGameService(server).AddGame(context.Background(), &models.Game{Name: ""})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("UpdateGame", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			if r.URL.Path != "/admin/games/g1" {
				t.Errorf("expected game path, got %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		game := &models.Game{Name: "Hades", Year: 2020, CompletedYear: 2024}
		updated, err := newGameService(server).UpdateGame(context.Background(), "g1", game)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated != game {
			t.Error("expected submitted record returned when the API body is empty")
		}
	})

	t.Run("DeleteGame", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		if err := newGameService(server).DeleteGame(context.Background(), "g1"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("UpdateNote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/games/g1/note" {
				t.Errorf("expected note path, got %s", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"note":"finished the true ending"}` {
				t.Errorf("unexpected body %s", string(body))
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		if _, err := newGameService(server).UpdateNote(context.Background(), "g1", "finished the true ending"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("AddMedia", func(t *testing.T) {
		t.Run("Uploads Multipart File", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/games/g1/media" {
					t.Errorf("expected media path, got %s", r.URL.Path)
				}
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					t.Fatalf("failed to parse multipart form: %v", err)
				}
				if r.FormValue("type") != "image" {
					t.Errorf("expected type field 'image', got %q", r.FormValue("type"))
				}
				file, header, err := r.FormFile("files")
				if err != nil {
					t.Fatalf("expected files part: %v", err)
				}
				defer file.Close()
				if header.Filename != "shot.png" {
					t.Errorf("expected filename 'shot.png', got %q", header.Filename)
				}
				content, _ := io.ReadAll(file)
				if string(content) != "png-bytes" {
					t.Errorf("unexpected file content %q", string(content))
				}
				w.Write([]byte(`{"gallery":["https://cdn/shot.png"],"videos":[]}`))
			}))
			defer server.Close()

			lists, err := newGameService(server).AddMedia(context.Background(), "g1", "image", "shot.png", strings.NewReader("png-bytes"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(lists.Gallery) != 1 {
				t.Errorf("expected updated gallery, got %+v", lists)
			}
		})

		t.Run("Rejects Unknown Media Type", func(t *testing.T) {
			srv := NewGameService(NewAPIService("http://example.com", nil, 0))
			_, err := srv.AddMedia(context.Background(), "g1", "gif", "x.gif", strings.NewReader("x"))

			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("RemoveMedia", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"url":"https://cdn/shot.png","type":"image"}` {
				t.Errorf("unexpected body %s", string(body))
			}
			w.Write([]byte(`{"gallery":[],"videos":[]}`))
		}))
		defer server.Close()

		lists, err := newGameService(server).RemoveMedia(context.Background(), "g1", models.MediaUpdate{
			URL:  "https://cdn/shot.png",
			Type: "image",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(lists.Gallery) != 0 {
			t.Errorf("expected emptied gallery, got %+v", lists)
		}
	})

	t.Run("UploadImage", func(t *testing.T) {
		t.Run("Presigned Fast Path", func(t *testing.T) {
			var putBody []byte
			storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT to storage, got %s", r.Method)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("expected no bearer token on the presigned PUT")
				}
				putBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
			}))
			defer storage.Close()

			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/admin/s3/presign" {
					t.Errorf("expected presign path, got %s", r.URL.Path)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if r.PostForm.Get("filename") != "cover.png" {
					t.Errorf("expected filename field, got %q", r.PostForm.Get("filename"))
				}
				json.NewEncoder(w).Encode(PresignGrant{
					URL:       storage.URL + "/bucket/cover.png",
					PublicURL: "https://cdn.example.com/cover.png",
				})
			}))
			defer api.Close()

			publicURL, err := newGameService(api).UploadImage(context.Background(), "cover.png", "image/png", strings.NewReader("png-bytes"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if publicURL != "https://cdn.example.com/cover.png" {
				t.Errorf("expected public URL from the grant, got %q", publicURL)
			}
			if string(putBody) != "png-bytes" {
				t.Errorf("expected raw bytes PUT to storage, got %q", string(putBody))
			}
		})

		t.Run("Falls Back To Multipart", func(t *testing.T) {
			var sawFallback bool
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/admin/s3/presign":
					w.WriteHeader(http.StatusInternalServerError)
				case "/admin/uploadImage":
					sawFallback = true
					if err := r.ParseMultipartForm(1 << 20); err != nil {
						t.Fatalf("failed to parse multipart form: %v", err)
					}
					if _, _, err := r.FormFile("image"); err != nil {
						t.Fatalf("expected image part: %v", err)
					}
					w.Write([]byte("https://cdn.example.com/cover.png"))
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
				}
			}))
			defer api.Close()

			publicURL, err := newGameService(api).UploadImage(context.Background(), "cover.png", "image/png", strings.NewReader("png-bytes"))
			if err != nil {
				t.Fatalf("expected fallback to succeed, got %v", err)
			}
			if !sawFallback {
				t.Error("expected the multipart fallback to be used")
			}
			if publicURL != "https://cdn.example.com/cover.png" {
				t.Errorf("expected public URL from fallback, got %q", publicURL)
			}
		})

		t.Run("Both Paths Fail", func(t *testing.T) {
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer api.Close()

			_, err := newGameService(api).UploadImage(context.Background(), "cover.png", "image/png", strings.NewReader("png-bytes"))
			if !errors.Is(err, shared.ErrUploadFailed) {
				t.Errorf("expected ErrUploadFailed, got %v", err)
			}
		})
	})
}
