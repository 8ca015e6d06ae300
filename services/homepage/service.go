package homepage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"cinefeed/models"
	"cinefeed/services/catalog"
)

// Orchestrates homepage assembly: three concurrent upstream list fetches, a
// dependent hero-detail fetch, and per-branch error isolation so a partial
// failure never blanks the whole page.

// catalogClient is the slice of the catalog client the orchestrator needs.
type catalogClient interface {
	List(ctx context.Context, kind catalog.ListKind, page int) ([]catalog.SearchItem, error)
	MovieByID(ctx context.Context, id string) (*catalog.FullRecord, error)
}

// Params carries the optional paging inputs for one orchestration pass.
type Params struct {
	PopularPage  int
	TopRatedPage int
	UpcomingPage int
}

func (p Params) normalized() Params {
	if p.PopularPage < 1 {
		p.PopularPage = 1
	}
	if p.TopRatedPage < 1 {
		p.TopRatedPage = 1
	}
	if p.UpcomingPage < 1 {
		p.UpcomingPage = 1
	}
	return p
}

func (p Params) cacheKey() string {
	return fmt.Sprintf("home:%d:%d:%d", p.PopularPage, p.TopRatedPage, p.UpcomingPage)
}

// Result holds one branch outcome per logical grouping. SectionsErr is only
// set when the popular fetch fails, since no trending/big-hits sections can
// exist without it. Top-rated and upcoming failures are reported on their own
// channels and still leave the rest of the page intact.
type Result struct {
	Data        models.HomePageData
	HeroErr     error
	SectionsErr error
	TopRatedErr error
	UpcomingErr error
}

// IsError reports whether the sections branch failed. A hero-only failure is
// a degraded page, not an error state.
func (r Result) IsError() bool {
	return r.SectionsErr != nil
}

type cacheEntry struct {
	result  Result
	fetched time.Time
}

type Service struct {
	client catalogClient

	// In-memory staleness cache, written atomically at the end of a pass.
	cacheMu  sync.Mutex
	cache    map[string]cacheEntry
	cacheTTL time.Duration
}

func NewService(client catalogClient, cacheTTL time.Duration) *Service {
	return &Service{
		client:   client,
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
	}
}

func (s *Service) cachedResult(key string) (Result, bool) {
	if s.cacheTTL <= 0 {
		return Result{}, false
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	entry, ok := s.cache[key]
	if !ok || time.Since(entry.fetched) > s.cacheTTL {
		return Result{}, false
	}
	return entry.result, true
}

func (s *Service) storeResult(key string, res Result) {
	if s.cacheTTL <= 0 {
		return
	}
	s.cacheMu.Lock()
	s.cache[key] = cacheEntry{result: res, fetched: time.Now()}
	s.cacheMu.Unlock()
}

// Fetch runs one full orchestration pass. It never returns a transport error
// directly: upstream failures land on the Result's branch channels.
func (s *Service) Fetch(ctx context.Context, params Params) Result {
	params = params.normalized()
	key := params.cacheKey()
	if cached, ok := s.cachedResult(key); ok {
		return cached
	}

	invocation := uuid.NewString()[:8]
	start := time.Now()

	var (
		popularItems, topRatedItems, upcomingItems []catalog.SearchItem
		popularErr, topRatedErr, upcomingErr       error
	)

	// Fan out the three independent list fetches.
	var wg conc.WaitGroup
	wg.Go(func() {
		popularItems, popularErr = s.client.List(ctx, catalog.ListPopular, params.PopularPage)
	})
	wg.Go(func() {
		topRatedItems, topRatedErr = s.client.List(ctx, catalog.ListTopRated, params.TopRatedPage)
	})
	wg.Go(func() {
		upcomingItems, upcomingErr = s.client.List(ctx, catalog.ListUpcoming, params.UpcomingPage)
	})
	wg.Wait()

	popular := catalog.TransformSearchResults(popularItems)
	topRated := catalog.TransformSearchResults(topRatedItems)
	upcoming := catalog.TransformSearchResults(upcomingItems)

	res := Result{}
	if popularErr != nil {
		res.SectionsErr = fmt.Errorf("fetch popular movies: %w", popularErr)
		log.Printf("[homepage] %s popular fetch failed: %v", invocation, popularErr)
	}
	if topRatedErr != nil {
		res.TopRatedErr = fmt.Errorf("fetch top rated movies: %w", topRatedErr)
		log.Printf("[homepage] %s top rated fetch failed: %v", invocation, topRatedErr)
	}
	if upcomingErr != nil {
		res.UpcomingErr = fmt.Errorf("fetch upcoming movies: %w", upcomingErr)
		log.Printf("[homepage] %s upcoming fetch failed: %v", invocation, upcomingErr)
	}

	// The hero depends on the first popular entry; its failure must not block
	// section assembly.
	var hero *models.HeroMovie
	if popularErr == nil && len(popular) > 0 {
		rec, err := s.client.MovieByID(ctx, popular[0].ID)
		switch {
		case err != nil:
			res.HeroErr = fmt.Errorf("fetch hero movie %s: %w", popular[0].ID, err)
			log.Printf("[homepage] %s hero fetch failed id=%s: %v", invocation, popular[0].ID, err)
		case rec != nil:
			h := catalog.TransformFullRecordToHeroMovie(*rec)
			hero = &h
		}
	}

	sections := catalog.TransformMoviesToSections(popular, topRated, upcoming)
	res.Data = catalog.CreateHomePageView(hero, sections)

	log.Printf("[homepage] %s assembled sections=%d hero=%v in %s",
		invocation, len(res.Data.Sections), hero != nil, time.Since(start).Round(time.Millisecond))

	// Only a pass with usable sections is worth caching.
	if res.SectionsErr == nil {
		s.storeResult(key, res)
	}
	return res
}

// Status values for one loader invocation. Terminal states transition back to
// loading on Refetch.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial" // sections built, hero (or a side list) failed
	StatusError   Status = "error"
)

// State is the caller-facing snapshot: data plus independent loading/error
// flags, mirroring the {data, isLoading, isError, error} contract.
type State struct {
	Status        Status              `json:"status"`
	Data          models.HomePageData `json:"data"`
	IsLoading     bool                `json:"isLoading"`
	IsError       bool                `json:"isError"`
	Error         string              `json:"error,omitempty"`
	HeroError     string              `json:"heroError,omitempty"`
	TopRatedError string              `json:"topRatedError,omitempty"`
	UpcomingError string              `json:"upcomingError,omitempty"`
}

// Loader owns the mutable homepage state for one consumer. Completed fetches
// apply last-write-wins by logical sequence: a superseded pass that resolves
// late is discarded rather than overwriting newer state.
type Loader struct {
	svc    *Service
	params Params

	seq uint64 // logical sequence of the newest requested pass

	mu    sync.Mutex
	state State
}

func NewLoader(svc *Service, params Params) *Loader {
	return &Loader{
		svc:    svc,
		params: params,
		state:  State{Status: StatusIdle, Data: catalog.CreateHomePageView(nil, nil)},
	}
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Refetch runs the whole orchestration sequence again and returns the state
// it produced. If a newer Refetch started while this one was in flight, the
// stale result is discarded and the current state is returned instead.
func (l *Loader) Refetch(ctx context.Context) State {
	mySeq := atomic.AddUint64(&l.seq, 1)

	l.mu.Lock()
	l.state.Status = StatusLoading
	l.state.IsLoading = true
	l.mu.Unlock()

	res := l.svc.Fetch(ctx, l.params)
	next := stateFromResult(res)

	l.mu.Lock()
	defer l.mu.Unlock()
	if atomic.LoadUint64(&l.seq) != mySeq {
		// Superseded while in flight.
		return l.state
	}
	l.state = next
	return l.state
}

func stateFromResult(res Result) State {
	st := State{
		Status: StatusSuccess,
		Data:   res.Data,
	}
	if res.HeroErr != nil {
		st.HeroError = res.HeroErr.Error()
		st.Status = StatusPartial
	}
	if res.TopRatedErr != nil {
		st.TopRatedError = res.TopRatedErr.Error()
		st.Status = StatusPartial
	}
	if res.UpcomingErr != nil {
		st.UpcomingError = res.UpcomingErr.Error()
		st.Status = StatusPartial
	}
	if res.SectionsErr != nil {
		st.Status = StatusError
		st.IsError = true
		st.Error = res.SectionsErr.Error()
	}
	return st
}
