package usecase

import (
	"reflect"
	"testing"

	"MarketLens/pkg/cache"
)

func newTestWatchlists(t *testing.T, dir string) *Watchlists {
	t.Helper()
	snap, err := cache.NewSnapshotStore(dir)
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}
	return NewWatchlists(snap, testLogger(t))
}

func TestWatchlistsSeedDefault(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())

	lists := w.List()
	if len(lists) != 1 || lists[0].Name != "Default" {
		t.Fatalf("expected seeded Default list, got %v", lists)
	}
	if !reflect.DeepEqual(lists[0].Symbols, DefaultWatchlistSymbols) {
		t.Fatalf("seed symbols = %v, want %v", lists[0].Symbols, DefaultWatchlistSymbols)
	}
	current, err := w.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != lists[0].ID {
		t.Fatal("seeded list must be current")
	}
}

func TestWatchlistsPersistAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatchlists(t, dir)

	created, err := w.Create("Tech", []string{"nvda", "amd"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := w.AddSymbols(created.ID, []string{"TSM"}); err != nil {
		t.Fatalf("add symbols: %v", err)
	}
	if err := w.SetCurrent(created.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}

	reloaded := newTestWatchlists(t, dir)
	current, err := reloaded.Current()
	if err != nil {
		t.Fatalf("current after reload: %v", err)
	}
	if current.ID != created.ID || current.Name != "Tech" {
		t.Fatalf("expected Tech current after reload, got %+v", current)
	}
	if !reflect.DeepEqual(current.Symbols, []string{"NVDA", "AMD", "TSM"}) {
		t.Fatalf("symbols after reload = %v", current.Symbols)
	}
}

func TestWatchlistsNormalizeSymbols(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())

	wl, err := w.Create("Mixed", []string{" aapl ", "AAPL", "msft", "", "aapl"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !reflect.DeepEqual(wl.Symbols, []string{"AAPL", "MSFT"}) {
		t.Fatalf("symbols = %v, want deduped upper-case", wl.Symbols)
	}
}

func TestWatchlistsRemoveSymbols(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())
	wl, err := w.Create("Trim", []string{"AAPL", "MSFT", "SPY"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := w.RemoveSymbols(wl.ID, []string{"msft"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !reflect.DeepEqual(got.Symbols, []string{"AAPL", "SPY"}) {
		t.Fatalf("symbols = %v after removal", got.Symbols)
	}
}

func TestWatchlistsDeleteRepointsCurrent(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())
	def := w.List()[0]

	extra, err := w.Create("Extra", []string{"NVDA"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.SetCurrent(extra.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}
	if err := w.Delete(extra.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	current, err := w.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != def.ID {
		t.Fatalf("expected current to fall back to %s, got %s", def.ID, current.ID)
	}
}

func TestWatchlistsDuplicateDefaultsName(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())
	def := w.List()[0]

	copied, err := w.Duplicate(def.ID, "")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copied.Name != "Default (copy)" {
		t.Fatalf("name = %q", copied.Name)
	}
	if copied.ID == def.ID {
		t.Fatal("duplicate must get a fresh id")
	}
	if !reflect.DeepEqual(copied.Symbols, def.Symbols) {
		t.Fatalf("symbols = %v, want %v", copied.Symbols, def.Symbols)
	}
}

func TestWatchlistsUnknownID(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())

	if _, err := w.Get("missing"); err != ErrWatchlistNotFound {
		t.Fatalf("get: err = %v", err)
	}
	if err := w.Delete("missing"); err != ErrWatchlistNotFound {
		t.Fatalf("delete: err = %v", err)
	}
	if err := w.SetCurrent("missing"); err != ErrWatchlistNotFound {
		t.Fatalf("set current: err = %v", err)
	}
	if _, err := w.AddSymbols("missing", []string{"AAPL"}); err != ErrWatchlistNotFound {
		t.Fatalf("add: err = %v", err)
	}
}

func TestActiveSymbolsSorted(t *testing.T) {
	w := newTestWatchlists(t, t.TempDir())
	wl, err := w.Create("Unsorted", []string{"MSFT", "AAPL", "NVDA"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.SetCurrent(wl.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}

	got := w.ActiveSymbols()
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT", "NVDA"}) {
		t.Fatalf("active symbols = %v, want sorted", got)
	}
}
