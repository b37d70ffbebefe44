package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCount Phase = iota
	FetchBacklog
	FetchYear
	FetchFavourites
	FetchHundred
	WriteCache
	FetchHealth
	FetchDiscovery
)

func (p Phase) String() string {
	switch p {
	case FetchCount:
		return "fetch_count"
	case FetchBacklog:
		return "fetch_backlog"
	case FetchYear:
		return "fetch_year"
	case FetchFavourites:
		return "fetch_favourites"
	case FetchHundred:
		return "fetch_hundred"
	case WriteCache:
		return "write_cache"
	case FetchHealth:
		return "fetch_health"
	case FetchDiscovery:
		return "fetch_discovery"
	default:
		return ""
	}
}

func fetchCountUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCount,
		Step:    step,
		Total:   total,
		Message: "Fetching library size...",
	}
}

func fetchBacklogUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchBacklog,
		Step:    step,
		Total:   total,
		Message: "Fetching backlog...",
	}
}

func fetchYearUpdate(step, total, year int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchYear,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching games completed in %d...", step, total, year),
	}
}

func fetchFavouritesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavourites,
		Step:    step,
		Total:   total,
		Message: "Fetching favourites...",
	}
}

func fetchHundredUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHundred,
		Step:    step,
		Total:   total,
		Message: "Fetching 100% completed games...",
	}
}

func writeCacheUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Writing library to cache...", step, total),
	}
}

func operationUpdate(endpoint endpointOperation, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}
