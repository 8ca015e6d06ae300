package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"cinefeed/models"
	"cinefeed/services/homepage"
)

// homepageService is the orchestrator slice the handler needs.
type homepageService interface {
	Fetch(ctx context.Context, params homepage.Params) homepage.Result
}

type HomepageHandler struct {
	Service homepageService
}

func NewHomepageHandler(svc homepageService) *HomepageHandler {
	return &HomepageHandler{Service: svc}
}

// HomepageResponse mirrors the orchestrator's per-branch error channels. A
// hero-only failure keeps sections intact and does not set the error flag.
type HomepageResponse struct {
	Data          models.HomePageData `json:"data"`
	IsError       bool                `json:"isError"`
	Error         string              `json:"error,omitempty"`
	HeroError     string              `json:"heroError,omitempty"`
	TopRatedError string              `json:"topRatedError,omitempty"`
	UpcomingError string              `json:"upcomingError,omitempty"`
}

func queryPage(r *http.Request, name string) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 1
}

// Get assembles the homepage view model. Upstream failures surface as
// structured error channels in the payload, never as a bare 500.
func (h *HomepageHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := homepage.Params{
		PopularPage:  queryPage(r, "popularPage"),
		TopRatedPage: queryPage(r, "topRatedPage"),
		UpcomingPage: queryPage(r, "upcomingPage"),
	}

	res := h.Service.Fetch(r.Context(), params)

	resp := HomepageResponse{Data: res.Data}
	if res.SectionsErr != nil {
		resp.IsError = true
		resp.Error = res.SectionsErr.Error()
	}
	if res.HeroErr != nil {
		resp.HeroError = res.HeroErr.Error()
	}
	if res.TopRatedErr != nil {
		resp.TopRatedError = res.TopRatedErr.Error()
	}
	if res.UpcomingErr != nil {
		resp.UpcomingError = res.UpcomingErr.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.IsError {
		w.WriteHeader(http.StatusBadGateway)
	}
	json.NewEncoder(w).Encode(resp)
}
