package handlers

import (
	"encoding/json"
	"net/http"

	"cinefeed/models"
	"cinefeed/store"
	"cinefeed/utils/filter"
)

// FiltersHandler exposes the filter state container over HTTP: reads return
// the current specification, writes dispatch reducer actions.
type FiltersHandler struct {
	Store *store.Store
}

func NewFiltersHandler(s *store.Store) *FiltersHandler {
	return &FiltersHandler{Store: s}
}

// FilterStateResponse is the current specification plus its derived summary.
type FilterStateResponse struct {
	Filters          models.MovieFilters `json:"filters"`
	HasActiveFilters bool                `json:"hasActiveFilters"`
	Summary          string              `json:"summary"`
}

func (h *FiltersHandler) writeState(w http.ResponseWriter, st store.State) {
	resp := FilterStateResponse{
		Filters:          st.Filters,
		HasActiveFilters: filter.HasActiveFilters(st.Filters),
		Summary:          filter.GetFilterSummary(st.Filters, models.KnownGenres, models.KnownLanguages),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Get returns the current filter state.
func (h *FiltersHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, h.Store.State())
}

// toggleRequest selects one facet value to toggle. Exactly one of the fields
// should be set.
type toggleRequest struct {
	GenreID      *int    `json:"genreId,omitempty"`
	LanguageCode *string `json:"languageCode,omitempty"`
	ReleaseYear  *int    `json:"releaseYear,omitempty"`
}

// Toggle flips one facet selection on or off.
func (h *FiltersHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var st store.State
	switch {
	case req.GenreID != nil:
		st = h.Store.Dispatch(store.ToggleGenre{ID: *req.GenreID})
	case req.LanguageCode != nil:
		st = h.Store.Dispatch(store.ToggleLanguage{Code: *req.LanguageCode})
	case req.ReleaseYear != nil:
		st = h.Store.Dispatch(store.ToggleReleaseYear{Year: *req.ReleaseYear})
	default:
		http.Error(w, "no facet value provided", http.StatusBadRequest)
		return
	}
	h.writeState(w, st)
}

type sortRequest struct {
	SortBy    models.SortField `json:"sortBy"`
	SortOrder models.SortOrder `json:"sortOrder"`
}

func validSort(req sortRequest) bool {
	switch req.SortBy {
	case models.SortByPopularity, models.SortByReleaseDate, models.SortByVoteAverage, models.SortByTitle:
	default:
		return false
	}
	return req.SortOrder == models.SortAsc || req.SortOrder == models.SortDesc
}

// Sort replaces the sort field and direction.
func (h *FiltersHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validSort(req) {
		http.Error(w, "invalid sort specification", http.StatusBadRequest)
		return
	}
	h.writeState(w, h.Store.Dispatch(store.SetSort{By: req.SortBy, Order: req.SortOrder}))
}

// Reset restores the default all-empty specification.
func (h *FiltersHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, h.Store.Dispatch(store.ResetFilters{}))
}
