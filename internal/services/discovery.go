// Discovery service for the public AI-curated game list.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/shared"
	"github.com/sahilm/fuzzy"
)

// DiscoveryService fetches the public AI-curated discovery list. The
// endpoint needs no authentication; anonymous requests work.
type DiscoveryService struct {
	api *APIService
}

// NewDiscoveryService creates a discovery service over the given raw client.
func NewDiscoveryService(api *APIService) *DiscoveryService {
	return &DiscoveryService{api: api}
}

// Discover fetches up to count AI-curated titles for the given year.
func (d *DiscoveryService) Discover(ctx context.Context, year, count int) ([]models.AIGame, error) {
	resp, err := d.api.Get(ctx, fmt.Sprintf("/public/ai/games?year=%d&count=%d", year, count))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var list models.DiscoveryList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode discovery list: %w", err)
	}
	return list.Items, nil
}

// DiscoveryFilter narrows a fetched discovery list in memory.
type DiscoveryFilter struct {
	Search   string
	Genre    string
	Platform string
}

// aiGameNames adapts a slice of titles for fuzzy matching.
type aiGameNames []models.AIGame

func (a aiGameNames) String(i int) string { return a[i].Name }
func (a aiGameNames) Len() int            { return len(a) }

// Filter applies search, genre, and platform filters to games. Search is a
// fuzzy match against the title; genre and platform are exact matches
// against the lists on each record.
func Filter(games []models.AIGame, filter DiscoveryFilter) []models.AIGame {
	result := games

	if filter.Genre != "" {
		result = keep(result, func(g models.AIGame) bool {
			return contains(g.Genres, filter.Genre)
		})
	}
	if filter.Platform != "" {
		result = keep(result, func(g models.AIGame) bool {
			return contains(g.Platforms, filter.Platform)
		})
	}
	if filter.Search != "" {
		matches := fuzzy.FindFrom(filter.Search, aiGameNames(result))
		filtered := make([]models.AIGame, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, result[m.Index])
		}
		result = filtered
	}

	return result
}

// Genres returns the sorted set of genres present in games.
func Genres(games []models.AIGame) []string {
	return collect(games, func(g models.AIGame) []string { return g.Genres })
}

// Platforms returns the sorted set of platforms present in games.
func Platforms(games []models.AIGame) []string {
	return collect(games, func(g models.AIGame) []string { return g.Platforms })
}

func keep(games []models.AIGame, pred func(models.AIGame) bool) []models.AIGame {
	result := make([]models.AIGame, 0, len(games))
	for _, g := range games {
		if pred(g) {
			result = append(result, g)
		}
	}
	return result
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func collect(games []models.AIGame, field func(models.AIGame) []string) []string {
	seen := map[string]bool{}
	var result []string
	for _, g := range games {
		for _, v := range field(g) {
			if !seen[v] {
				seen[v] = true
				result = append(result, v)
			}
		}
	}
	sort.Strings(result)
	return result
}
