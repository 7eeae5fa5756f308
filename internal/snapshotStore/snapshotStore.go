package snapshotStore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/fmpModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
)

var (
	ErrUnknownSeries = errors.New("error unknown mover series")
	ErrInvalidPage   = errors.New("error page number must be >= 1")
)

const defaultPageSize = 10

// Fetcher is the external source of raw mover lists and remote search
// results.
type Fetcher interface {
	GetMarketMovers(ctx context.Context) (fmpModel.Movers, error)
	Search(ctx context.Context, query string) ([]fmpModel.SearchResult, error)
}

// Store serves stable, filterable, sortable, paginated views over the
// gainers and losers snapshots fetched on Refresh. Pages are memoized
// per page number and only invalidated when the filter or sort
// changes, so revisiting a page never recomputes.
//
// A Store is constructed per session and injected where needed, there
// are no package-level instances. All methods are safe for concurrent
// use.
type Store struct {
	fetcher  Fetcher
	pageSize int

	mu                 sync.Mutex
	allGainers         []model.MoverEntry
	allLosers          []model.MoverEntry
	gainersCache       map[int][]model.MoverEntry
	losersCache        map[int][]model.MoverEntry
	gainersCurrentPage int
	losersCurrentPage  int
	sortBy             model.SortBy
	filterBy           model.FilterBy
	searchResults      []model.SearchResult
	searchQuery        string
	showingAllStocks   bool
	recomputes         int64
	subscribers        []func()
}

func New(fetcher Fetcher, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Store{
		fetcher:            fetcher,
		pageSize:           pageSize,
		gainersCache:       make(map[int][]model.MoverEntry),
		losersCache:        make(map[int][]model.MoverEntry),
		gainersCurrentPage: 1,
		losersCurrentPage:  1,
		sortBy:             model.SortByChange,
		filterBy:           model.FilterAll,
	}
}

// Subscribe registers a callback invoked after every state change.
// Callbacks run outside the store's lock and may call back into it.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func normalizeMovers(raw []fmpModel.Mover, series model.MoverSeries) []model.MoverEntry {
	entries := make([]model.MoverEntry, 0, len(raw))
	for i, m := range raw {
		symbol := m.Symbol
		if symbol == "" {
			symbol = "N/A"
		}

		idTail := m.Symbol
		if idTail == "" {
			idTail = fmt.Sprintf("%d", i)
		}

		entries = append(entries, model.MoverEntry{
			ID:                fmt.Sprintf("%s-%s", series, idTail),
			Symbol:            symbol,
			Name:              m.Name,
			Price:             m.Price.Float64(),
			Change:            m.Change.Float64(),
			ChangesPercentage: m.ChangesPercentage.Float64(),
			Exchange:          m.Exchange,
			Volume:            m.Volume.Float64(),
			MarketCap:         m.MarketCap.Float64(),
		})
	}
	return entries
}

// Refresh replaces both snapshots atomically. On fetch failure no
// state is touched, previously loaded data stays visible.
func (s *Store) Refresh(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "snapshotStore.Refresh"

	slog.Debug("Refresh start", slog.String("rqID", rqID), slog.String("op", op))

	movers, err := s.fetcher.GetMarketMovers(ctx)
	if err != nil {
		slog.Error("can't fetch market movers", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.mu.Lock()
	s.allGainers = normalizeMovers(movers.Gainers, model.SeriesGainers)
	s.allLosers = normalizeMovers(movers.Losers, model.SeriesLosers)
	s.gainersCache = make(map[int][]model.MoverEntry)
	s.losersCache = make(map[int][]model.MoverEntry)
	s.loadPageLocked(model.SeriesGainers, 1)
	s.loadPageLocked(model.SeriesLosers, 1)
	s.mu.Unlock()

	s.notify()

	slog.Debug("Refresh finished", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func sortKey(e model.MoverEntry, sortBy model.SortBy) float64 {
	switch sortBy {
	case model.SortByPrice:
		return e.Price
	case model.SortByChange:
		// a -8% mover ranks above a +5% one
		if e.Change < 0 {
			return -e.Change
		}
		return e.Change
	case model.SortByVolume:
		return e.Volume
	case model.SortByMarketCap:
		return e.MarketCap
	}
	return 0
}

// applyFilters filters by the active price band and sorts descending
// by the active key. The sort is stable so entries with equal keys
// keep their fetched order. The input is never mutated.
func (s *Store) applyFiltersLocked(list []model.MoverEntry) []model.MoverEntry {
	filtered := make([]model.MoverEntry, 0, len(list))
	for _, e := range list {
		if s.filterBy.Matches(e.Price) {
			filtered = append(filtered, e)
		}
	}

	sortBy := s.sortBy
	sort.SliceStable(filtered, func(i, j int) bool {
		return sortKey(filtered[i], sortBy) > sortKey(filtered[j], sortBy)
	})

	return filtered
}

func (s *Store) seriesStateLocked(series model.MoverSeries) (list []model.MoverEntry, cache map[int][]model.MoverEntry, currentPage *int) {
	if series == model.SeriesGainers {
		return s.allGainers, s.gainersCache, &s.gainersCurrentPage
	}
	return s.allLosers, s.losersCache, &s.losersCurrentPage
}

// loadPageLocked is the page-load path: a cache hit only moves the
// current-page pointer, a miss recomputes filter+sort once and slices.
func (s *Store) loadPageLocked(series model.MoverSeries, page int) []model.MoverEntry {
	list, cache, currentPage := s.seriesStateLocked(series)

	if pageData, ok := cache[page]; ok {
		*currentPage = page
		return pageData
	}

	filtered := s.applyFiltersLocked(list)
	s.recomputes++

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	pageData := filtered[start:end]

	cache[page] = pageData
	*currentPage = page

	return pageData
}

func (s *Store) LoadPage(series model.MoverSeries, page int) ([]model.MoverEntry, error) {
	if series != model.SeriesGainers && series != model.SeriesLosers {
		return nil, ErrUnknownSeries
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}

	s.mu.Lock()
	pageData := s.loadPageLocked(series, page)
	s.mu.Unlock()

	s.notify()

	return pageData, nil
}

// SetFilters updates whichever of the two is non-nil, drops both page
// caches and recomputes the pages both series were on.
func (s *Store) SetFilters(sortBy *model.SortBy, filterBy *model.FilterBy) error {
	if sortBy != nil && !sortBy.Valid() {
		return fmt.Errorf("unknown sort key %q", *sortBy)
	}
	if filterBy != nil && !filterBy.Valid() {
		return fmt.Errorf("unknown price band %q", *filterBy)
	}

	s.mu.Lock()
	if sortBy != nil {
		s.sortBy = *sortBy
	}
	if filterBy != nil {
		s.filterBy = *filterBy
	}

	// caches must be cleared before any page load observes them
	s.gainersCache = make(map[int][]model.MoverEntry)
	s.losersCache = make(map[int][]model.MoverEntry)

	s.loadPageLocked(model.SeriesGainers, s.gainersCurrentPage)
	s.loadPageLocked(model.SeriesLosers, s.losersCurrentPage)
	s.mu.Unlock()

	s.notify()

	return nil
}

func searchResultFromMover(e model.MoverEntry, prefix string, index int) model.SearchResult {
	symbol := e.Symbol
	if symbol == "" {
		symbol = "unknown"
	}
	return model.SearchResult{
		ID:                fmt.Sprintf("%s-%d-%s", prefix, index, symbol),
		Symbol:            e.Symbol,
		Name:              e.Name,
		Currency:          "USD",
		StockExchange:     "N/A",
		ExchangeShortName: "N/A",
	}
}

// Search over the local movers pool plus the remote search endpoint.
// A blank query lists every known stock without a remote call. Local
// matches come first and win symbol collisions with remote hits.
// Remote failure degrades to local-only results instead of discarding
// them.
func (s *Store) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "snapshotStore.Search"

	query = strings.TrimSpace(query)

	s.mu.Lock()
	pool := make([]model.MoverEntry, 0, len(s.allGainers)+len(s.allLosers))
	pool = append(pool, s.allGainers...)
	pool = append(pool, s.allLosers...)
	s.mu.Unlock()

	if query == "" {
		results := make([]model.SearchResult, 0, len(pool))
		for i, e := range pool {
			results = append(results, searchResultFromMover(e, "all", i))
		}

		s.mu.Lock()
		s.searchResults = results
		s.searchQuery = ""
		s.showingAllStocks = true
		s.mu.Unlock()

		s.notify()

		return results, nil
	}

	lowered := strings.ToLower(query)
	local := make([]model.SearchResult, 0)
	for _, e := range pool {
		if strings.Contains(strings.ToLower(e.Symbol), lowered) || strings.Contains(strings.ToLower(e.Name), lowered) {
			local = append(local, searchResultFromMover(e, "local", len(local)))
		}
	}

	remote, err := s.fetcher.Search(ctx, query)
	if err != nil {
		slog.Warn("remote search failed, serving local matches only", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		remote = nil
	}

	combined := make([]model.SearchResult, 0, len(local)+len(remote))
	combined = append(combined, local...)
	for i, r := range remote {
		symbol := r.Symbol
		if symbol == "" {
			symbol = "unknown"
		}
		combined = append(combined, model.SearchResult{
			ID:                fmt.Sprintf("api-%d-%s", i, symbol),
			Symbol:            r.Symbol,
			Name:              r.Name,
			Currency:          r.Currency,
			StockExchange:     r.StockExchange,
			ExchangeShortName: r.ExchangeShortName,
		})
	}

	// first occurrence wins, local entries were appended first
	seen := make(map[string]struct{}, len(combined))
	unique := make([]model.SearchResult, 0, len(combined))
	for _, r := range combined {
		if _, ok := seen[r.Symbol]; ok {
			continue
		}
		seen[r.Symbol] = struct{}{}
		unique = append(unique, r)
	}

	s.mu.Lock()
	s.searchResults = unique
	s.searchQuery = query
	s.showingAllStocks = false
	s.mu.Unlock()

	s.notify()

	return unique, nil
}

// CurrentPage returns the cached page the series is currently on.
func (s *Store) CurrentPage(series model.MoverSeries) ([]model.MoverEntry, int, error) {
	if series != model.SeriesGainers && series != model.SeriesLosers {
		return nil, 0, ErrUnknownSeries
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, cache, currentPage := s.seriesStateLocked(series)
	return cache[*currentPage], *currentPage, nil
}

// Total reports how many entries of the series survive the active
// filter.
func (s *Store) Total(series model.MoverSeries) (int, error) {
	if series != model.SeriesGainers && series != model.SeriesLosers {
		return 0, ErrUnknownSeries
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, _ := s.seriesStateLocked(series)
	return len(s.applyFiltersLocked(list)), nil
}

func (s *Store) Filters() (model.SortBy, model.FilterBy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy, s.filterBy
}

func (s *Store) SearchResults() ([]model.SearchResult, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchResults, s.searchQuery, s.showingAllStocks
}

// Recomputes counts how many times a page had to be materialized from
// the raw list instead of being served from cache.
func (s *Store) Recomputes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputes
}

func (s *Store) PageSize() int {
	return s.pageSize
}
