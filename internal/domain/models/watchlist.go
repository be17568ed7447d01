package models

import "time"

// Watchlist is the only externally mutated entity in the engine.
type Watchlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbols   []string  `json:"symbols"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchlistState is the persisted shape of the registry.
type WatchlistState struct {
	Watchlists         []Watchlist `json:"watchlists"`
	CurrentWatchlistID string      `json:"currentWatchlistId"`
}

// RefreshEvent is published after a scheduler run completes.
type RefreshEvent struct {
	Kind       string    `json:"kind"` // fundamentals, weekly
	Symbols    []string  `json:"symbols"`
	Refreshed  int       `json:"refreshed"`
	Failed     int       `json:"failed"`
	DurationMS int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}
