package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cinefeed/services/search"
)

type searchService interface {
	Execute(ctx context.Context, query string, page int) (search.Results, error)
}

type SearchHandler struct {
	Service searchService
}

func NewSearchHandler(svc searchService) *SearchHandler {
	return &SearchHandler{Service: svc}
}

// Get runs a movie search. A blank query returns an empty result set without
// touching the upstream.
func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	res, err := h.Service.Execute(r.Context(), query, page)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(res)
}
