package search

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mozillazg/go-unidecode"

	"cinefeed/models"
	"cinefeed/services/catalog"
)

// Debounced movie search over the upstream catalog. Rapid-fire query changes
// collapse into the last one after a quiet period, blank queries never reach
// the upstream, and a superseded search cannot overwrite newer results.

type searcher interface {
	Search(ctx context.Context, query string, page int) ([]catalog.SearchItem, int, error)
}

// Results is one completed search response.
type Results struct {
	Query        string         `json:"query"`
	Page         int            `json:"page"`
	Movies       []models.Movie `json:"movies"`
	TotalResults int            `json:"totalResults"`
}

type cacheEntry struct {
	results Results
	fetched time.Time
}

type Service struct {
	client   searcher
	debounce time.Duration

	cacheMu  sync.Mutex
	cache    map[string]cacheEntry
	cacheTTL time.Duration

	seq uint64 // logical sequence of the newest query change

	mu      sync.Mutex
	timer   *time.Timer
	latest  Results
	deliver func(Results)
}

func NewService(client searcher, debounce, cacheTTL time.Duration) *Service {
	return &Service{
		client:   client,
		debounce: debounce,
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
	}
}

// OnResults registers the callback invoked when a debounced search completes.
func (s *Service) OnResults(fn func(Results)) {
	s.mu.Lock()
	s.deliver = fn
	s.mu.Unlock()
}

// normalizeQuery produces the canonical cache/compare key for a query:
// trimmed, lowercased, transliterated to ASCII, inner whitespace collapsed.
func normalizeQuery(query string) string {
	q := unidecode.Unidecode(strings.ToLower(strings.TrimSpace(query)))
	return strings.Join(strings.Fields(q), " ")
}

// Execute runs a search immediately. A blank query is a guard, not an error:
// no upstream call is made and an empty result is returned.
func (s *Service) Execute(ctx context.Context, query string, page int) (Results, error) {
	if page < 1 {
		page = 1
	}
	normalized := normalizeQuery(query)
	empty := Results{Query: query, Page: page, Movies: []models.Movie{}}
	if normalized == "" {
		return empty, nil
	}

	key := normalized + "#" + strconv.Itoa(page)
	if cached, ok := s.cachedResults(key); ok {
		return cached, nil
	}

	items, total, err := s.client.Search(ctx, query, page)
	if err != nil {
		return empty, err
	}

	res := Results{
		Query:        query,
		Page:         page,
		Movies:       catalog.TransformSearchResults(items),
		TotalResults: total,
	}
	s.storeResults(key, res)
	return res, nil
}

func (s *Service) cachedResults(key string) (Results, bool) {
	if s.cacheTTL <= 0 {
		return Results{}, false
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	entry, ok := s.cache[key]
	if !ok || time.Since(entry.fetched) > s.cacheTTL {
		return Results{}, false
	}
	return entry.results, true
}

func (s *Service) storeResults(key string, res Results) {
	if s.cacheTTL <= 0 {
		return
	}
	s.cacheMu.Lock()
	s.cache[key] = cacheEntry{results: res, fetched: time.Now()}
	s.cacheMu.Unlock()
}

// QueryChanged notes a new typed query and re-arms the debounce timer. Only
// the last change within the quiet period triggers an upstream search; a
// blank query clears the latest results without calling upstream.
func (s *Service) QueryChanged(ctx context.Context, query string) {
	mySeq := atomic.AddUint64(&s.seq, 1)

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.runDebounced(ctx, query, mySeq)
	})
	s.mu.Unlock()
}

// Cancel stops any pending debounced search and invalidates in-flight ones.
func (s *Service) Cancel() {
	atomic.AddUint64(&s.seq, 1)
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

// LatestResults returns the most recent debounced search outcome.
func (s *Service) LatestResults() Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Service) runDebounced(ctx context.Context, query string, mySeq uint64) {
	if atomic.LoadUint64(&s.seq) != mySeq {
		return
	}

	res, err := s.Execute(ctx, query, 1)
	if err != nil {
		log.Printf("[search] query %q failed: %v", query, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer query may have arrived while the upstream call was in flight.
	if atomic.LoadUint64(&s.seq) != mySeq {
		return
	}
	s.latest = res
	if s.deliver != nil {
		s.deliver(res)
	}
}
