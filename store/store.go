package store

import (
	"sync"

	"cinefeed/models"
)

// Explicit client-state container: a single struct mutated only through
// dispatched actions with pure reducers. No ambient globals; the store is
// threaded through constructors.

// State is the filter-facing client state. It is created once with defaults
// and only ever replaced wholesale by a reducer.
type State struct {
	Filters models.MovieFilters `json:"filters"`
}

// Action is a state transition. Reduce must be pure: it returns a new State
// and never mutates its input.
type Action interface {
	Reduce(State) State
}

type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

func New() *Store {
	return &Store{state: State{Filters: models.DefaultMovieFilters()}}
}

// Dispatch applies the action and notifies subscribers with the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = a.Reduce(s.state)
	next := s.state
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers a listener for every dispatched state change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func toggleInt(values []int, v int) []int {
	out := make([]int, 0, len(values)+1)
	removed := false
	for _, x := range values {
		if x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	if !removed {
		out = append(out, v)
	}
	return out
}

func toggleString(values []string, v string) []string {
	out := make([]string, 0, len(values)+1)
	removed := false
	for _, x := range values {
		if x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	if !removed {
		out = append(out, v)
	}
	return out
}

// ToggleGenre adds the genre to the selection, or removes it when present.
type ToggleGenre struct {
	ID int
}

func (a ToggleGenre) Reduce(s State) State {
	s.Filters.SelectedGenres = toggleInt(s.Filters.SelectedGenres, a.ID)
	return s
}

// ToggleLanguage adds or removes a language code from the selection.
type ToggleLanguage struct {
	Code string
}

func (a ToggleLanguage) Reduce(s State) State {
	s.Filters.SelectedLanguages = toggleString(s.Filters.SelectedLanguages, a.Code)
	return s
}

// ToggleReleaseYear adds or removes a release year from the selection.
type ToggleReleaseYear struct {
	Year int
}

func (a ToggleReleaseYear) Reduce(s State) State {
	s.Filters.SelectedReleaseYears = toggleInt(s.Filters.SelectedReleaseYears, a.Year)
	return s
}

// SetSort replaces the sort field and direction.
type SetSort struct {
	By    models.SortField
	Order models.SortOrder
}

func (a SetSort) Reduce(s State) State {
	s.Filters.SortBy = a.By
	s.Filters.SortOrder = a.Order
	return s
}

// ResetFilters restores the all-empty defaults. The store itself is never
// torn down, only reset.
type ResetFilters struct{}

func (ResetFilters) Reduce(s State) State {
	s.Filters = models.DefaultMovieFilters()
	return s
}
