package usecase

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/cache"
	applogger "MarketLens/pkg/logger"
)

const watchlistSnapshot = "watchlists.json"

// DefaultWatchlistSymbols seeds a fresh install.
var DefaultWatchlistSymbols = []string{"AAPL", "MSFT", "SPY"}

// ErrWatchlistNotFound reports an unknown watchlist id.
var ErrWatchlistNotFound = fmt.Errorf("watchlist not found")

// Watchlists is the registry of named symbol collections, the only entity
// mutated from outside the engine. Every mutation persists the whole state.
type Watchlists struct {
	mu     sync.RWMutex
	state  models.WatchlistState
	snap   *cache.SnapshotStore
	logger *applogger.Logger
}

func NewWatchlists(snap *cache.SnapshotStore, logger *applogger.Logger) *Watchlists {
	w := &Watchlists{snap: snap, logger: logger}
	if err := snap.Load(watchlistSnapshot, &w.state); err != nil {
		if err != cache.ErrCacheMiss {
			logger.Warn("watchlist snapshot load failed", applogger.Error(err))
		}
		w.seed()
	}
	if len(w.state.Watchlists) == 0 {
		w.seed()
	}
	return w
}

func (w *Watchlists) seed() {
	now := time.Now()
	def := models.Watchlist{
		ID:        uuid.NewString(),
		Name:      "Default",
		Symbols:   append([]string(nil), DefaultWatchlistSymbols...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.state = models.WatchlistState{
		Watchlists:         []models.Watchlist{def},
		CurrentWatchlistID: def.ID,
	}
	w.persist()
}

// persist is called with the write lock held (or before the registry is shared).
func (w *Watchlists) persist() {
	if err := w.snap.Save(watchlistSnapshot, w.state); err != nil {
		w.logger.Error("watchlist snapshot save failed", applogger.Error(err))
	}
}

// List returns copies of all watchlists.
func (w *Watchlists) List() []models.Watchlist {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Watchlist, len(w.state.Watchlists))
	for i, wl := range w.state.Watchlists {
		out[i] = copyWatchlist(wl)
	}
	return out
}

// Get returns one watchlist by id.
func (w *Watchlists) Get(id string) (models.Watchlist, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, wl := range w.state.Watchlists {
		if wl.ID == id {
			return copyWatchlist(wl), nil
		}
	}
	return models.Watchlist{}, ErrWatchlistNotFound
}

// Create adds a new watchlist and returns it.
func (w *Watchlists) Create(name string, symbols []string) (models.Watchlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Watchlist{}, fmt.Errorf("watchlist name is required")
	}

	now := time.Now()
	wl := models.Watchlist{
		ID:        uuid.NewString(),
		Name:      name,
		Symbols:   normalizeSymbols(symbols),
		CreatedAt: now,
		UpdatedAt: now,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Watchlists = append(w.state.Watchlists, wl)
	if w.state.CurrentWatchlistID == "" {
		w.state.CurrentWatchlistID = wl.ID
	}
	w.persist()
	return copyWatchlist(wl), nil
}

// Delete removes a watchlist. Deleting the current one moves the pointer to
// the first remaining list.
func (w *Watchlists) Delete(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, wl := range w.state.Watchlists {
		if wl.ID != id {
			continue
		}
		w.state.Watchlists = append(w.state.Watchlists[:i], w.state.Watchlists[i+1:]...)
		if w.state.CurrentWatchlistID == id {
			w.state.CurrentWatchlistID = ""
			if len(w.state.Watchlists) > 0 {
				w.state.CurrentWatchlistID = w.state.Watchlists[0].ID
			}
		}
		w.persist()
		return nil
	}
	return ErrWatchlistNotFound
}

// AddSymbols merges symbols into a watchlist, keeping order and dropping
// duplicates.
func (w *Watchlists) AddSymbols(id string, symbols []string) (models.Watchlist, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.state.Watchlists {
		wl := &w.state.Watchlists[i]
		if wl.ID != id {
			continue
		}
		wl.Symbols = normalizeSymbols(append(wl.Symbols, symbols...))
		wl.UpdatedAt = time.Now()
		w.persist()
		return copyWatchlist(*wl), nil
	}
	return models.Watchlist{}, ErrWatchlistNotFound
}

// RemoveSymbols drops symbols from a watchlist.
func (w *Watchlists) RemoveSymbols(id string, symbols []string) (models.Watchlist, error) {
	drop := make(map[string]struct{}, len(symbols))
	for _, s := range normalizeSymbols(symbols) {
		drop[s] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.state.Watchlists {
		wl := &w.state.Watchlists[i]
		if wl.ID != id {
			continue
		}
		kept := wl.Symbols[:0]
		for _, s := range wl.Symbols {
			if _, ok := drop[s]; !ok {
				kept = append(kept, s)
			}
		}
		wl.Symbols = kept
		wl.UpdatedAt = time.Now()
		w.persist()
		return copyWatchlist(*wl), nil
	}
	return models.Watchlist{}, ErrWatchlistNotFound
}

// Duplicate copies an existing watchlist under a new name.
func (w *Watchlists) Duplicate(id, name string) (models.Watchlist, error) {
	src, err := w.Get(id)
	if err != nil {
		return models.Watchlist{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = src.Name + " (copy)"
	}
	return w.Create(name, src.Symbols)
}

// SetCurrent points the scheduler at a different watchlist.
func (w *Watchlists) SetCurrent(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, wl := range w.state.Watchlists {
		if wl.ID == id {
			w.state.CurrentWatchlistID = id
			w.persist()
			return nil
		}
	}
	return ErrWatchlistNotFound
}

// Current returns the active watchlist.
func (w *Watchlists) Current() (models.Watchlist, error) {
	w.mu.RLock()
	id := w.state.CurrentWatchlistID
	w.mu.RUnlock()
	return w.Get(id)
}

// ActiveSymbols returns the current watchlist's symbols, sorted for stable
// scheduler batching.
func (w *Watchlists) ActiveSymbols() []string {
	current, err := w.Current()
	if err != nil {
		return nil
	}
	symbols := append([]string(nil), current.Symbols...)
	sort.Strings(symbols)
	return symbols
}

func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func copyWatchlist(wl models.Watchlist) models.Watchlist {
	wl.Symbols = append([]string(nil), wl.Symbols...)
	return wl
}
