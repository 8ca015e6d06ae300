package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cinefeed/models"
	"cinefeed/services/catalog"
	"cinefeed/utils/filter"
)

type detailFetcher interface {
	MovieByID(ctx context.Context, id string) (*catalog.FullRecord, error)
}

type MoviesHandler struct {
	Catalog detailFetcher
}

func NewMoviesHandler(c detailFetcher) *MoviesHandler {
	return &MoviesHandler{Catalog: c}
}

// Detail returns the full-detail view model for one title.
func (h *MoviesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	w.Header().Set("Content-Type", "application/json")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "missing movie id"})
		return
	}

	rec, err := h.Catalog.MovieByID(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "movie not found"})
		return
	}

	json.NewEncoder(w).Encode(catalog.TransformFullRecordToDetails(*rec))
}

// FilterRequest carries a movie collection plus the filter specification to
// apply to it.
type FilterRequest struct {
	Movies  []models.Movie      `json:"movies"`
	Filters models.MovieFilters `json:"filters"`
}

// FilterResponse is the derived, displayable list plus the facet option
// universe and summary metadata for UI badges.
type FilterResponse struct {
	Movies           []models.Movie            `json:"movies"`
	Count            int                       `json:"count"`
	HasActiveFilters bool                      `json:"hasActiveFilters"`
	Summary          string                    `json:"summary"`
	Options          models.MovieFilterOptions `json:"options"`
}

// Filter applies the filter/sort pipeline to the posted collection.
func (h *MoviesHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
		return
	}

	filtered := filter.ApplyFilters(req.Movies, req.Filters)
	resp := FilterResponse{
		Movies:           filtered,
		Count:            len(filtered),
		HasActiveFilters: filter.HasActiveFilters(req.Filters),
		Summary:          filter.GetFilterSummary(req.Filters, models.KnownGenres, models.KnownLanguages),
		Options:          filter.AvailableOptions(req.Movies),
	}
	json.NewEncoder(w).Encode(resp)
}
