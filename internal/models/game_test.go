package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGameUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "canonical id",
			input: `{"id": "abc", "name": "Hades"}`,
			want:  "abc",
		},
		{
			name:  "mongo style id",
			input: `{"_id": "m-1", "name": "Hades"}`,
			want:  "m-1",
		},
		{
			name:  "gameId fallback",
			input: `{"gameId": "g-1", "name": "Hades"}`,
			want:  "g-1",
		},
		{
			name:  "itemId fallback",
			input: `{"itemId": "i-1", "name": "Hades"}`,
			want:  "i-1",
		},
		{
			name:  "canonical id wins over alternates",
			input: `{"id": "abc", "_id": "m-1", "gameId": "g-1", "itemId": "i-1", "name": "Hades"}`,
			want:  "abc",
		},
		{
			name:  "_id wins over gameId and itemId",
			input: `{"_id": "m-1", "gameId": "g-1", "itemId": "i-1", "name": "Hades"}`,
			want:  "m-1",
		},
		{
			name:  "no identifier at all",
			input: `{"name": "Hades"}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var game Game
			if err := json.Unmarshal([]byte(tt.input), &game); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if game.ID != tt.want {
				t.Errorf("expected ID %q, got %q", tt.want, game.ID)
			}
		})
	}

	t.Run("full record round trip", func(t *testing.T) {
		input := `{"_id": "abc123", "name": "Celeste", "year": 2018, "completedYear": 2021,
			"isCompleted": true, "isHundredPercent": false, "isFavourite": true,
			"specialDescription": "the best climb", "imageUrl": "https://img.example/celeste.jpg",
			"note": "revisit the B-sides", "gallery": ["https://img.example/1.jpg"],
			"videos": ["https://vid.example/1.mp4"]}`

		var game Game
		if err := json.Unmarshal([]byte(input), &game); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		if game.ID != "abc123" {
			t.Errorf("expected ID abc123, got %s", game.ID)
		}
		if game.Name != "Celeste" || game.Year != 2018 || game.CompletedYear != 2021 {
			t.Errorf("unexpected core fields: %+v", game)
		}
		if !game.IsCompleted || game.IsHundredPercent || !game.IsFavourite {
			t.Errorf("unexpected flags: %+v", game)
		}
		if len(game.Gallery) != 1 || len(game.Videos) != 1 {
			t.Errorf("unexpected media lists: %+v", game)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var game Game
		if err := json.Unmarshal([]byte(`{"name":`), &game); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestGameValidate(t *testing.T) {
	valid := Game{
		Name:          "Hollow Knight",
		Year:          2017,
		CompletedYear: 2019,
	}

	t.Run("valid record", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(g *Game)
		errPart string
	}{
		{
			name:    "empty name",
			mutate:  func(g *Game) { g.Name = "   " },
			errPart: "name is required",
		},
		{
			name:    "name too long",
			mutate:  func(g *Game) { g.Name = strings.Repeat("x", 41) },
			errPart: "name exceeds",
		},
		{
			name:    "year too old",
			mutate:  func(g *Game) { g.Year = 1974 },
			errPart: "year must be",
		},
		{
			name:    "completed year too old",
			mutate:  func(g *Game) { g.CompletedYear = 1960 },
			errPart: "completed year must be",
		},
		{
			name:    "description too long",
			mutate:  func(g *Game) { g.SpecialDescription = strings.Repeat("d", 41) },
			errPart: "special description exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := valid
			tt.mutate(&game)

			err := game.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}

	t.Run("name at max length", func(t *testing.T) {
		game := valid
		game.Name = strings.Repeat("x", 40)
		if err := game.Validate(); err != nil {
			t.Errorf("expected 40 character name to pass, got %v", err)
		}
	})
}
