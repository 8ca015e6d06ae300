package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"cinefeed/handlers"
	"cinefeed/models"
	"cinefeed/services/catalog"
	"cinefeed/services/homepage"
	"cinefeed/services/search"
	"cinefeed/store"
)

type stubHomepage struct {
	result homepage.Result
}

func (s *stubHomepage) Fetch(context.Context, homepage.Params) homepage.Result {
	return s.result
}

func TestHomepageHandlerSuccess(t *testing.T) {
	hero := &models.HeroMovie{Movie: models.Movie{ID: "tt1", Title: "Hero"}}
	sections := []models.MovieSection{{Title: "Trending", Type: models.SectionTrending, Movies: []models.Movie{{ID: "tt1"}}}}
	h := handlers.NewHomepageHandler(&stubHomepage{result: homepage.Result{
		Data: models.HomePageData{HeroMovie: hero, Sections: sections},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/homepage", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp handlers.HomepageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.IsError || resp.Data.HeroMovie == nil || len(resp.Data.Sections) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHomepageHandlerSectionsError(t *testing.T) {
	h := handlers.NewHomepageHandler(&stubHomepage{result: homepage.Result{
		Data:        models.HomePageData{Sections: []models.MovieSection{}},
		SectionsErr: errors.New("popular feed unavailable"),
	}})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/homepage", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	var resp handlers.HomepageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.IsError || resp.Error == "" {
		t.Fatalf("expected populated error channel, got %+v", resp)
	}
}

func TestHomepageHandlerHeroErrorIsNotPageError(t *testing.T) {
	sections := []models.MovieSection{{Title: "Top Rated", Type: models.SectionTopRated, Movies: []models.Movie{{ID: "tt9"}}}}
	h := handlers.NewHomepageHandler(&stubHomepage{result: homepage.Result{
		Data:    models.HomePageData{HeroMovie: nil, Sections: sections},
		HeroErr: errors.New("hero lookup failed"),
	}})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/homepage", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("hero-only failure must stay 200, got %d", rec.Code)
	}
	var resp handlers.HomepageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.IsError || resp.HeroError == "" || len(resp.Data.Sections) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

type stubSearch struct {
	lastQuery string
	res       search.Results
	err       error
}

func (s *stubSearch) Execute(_ context.Context, query string, page int) (search.Results, error) {
	s.lastQuery = query
	if s.err != nil {
		return search.Results{}, s.err
	}
	res := s.res
	res.Query = query
	res.Page = page
	return res, nil
}

func TestSearchHandler(t *testing.T) {
	svc := &stubSearch{res: search.Results{Movies: []models.Movie{{ID: "tt1", Title: "Night Train"}}, TotalResults: 1}}
	h := handlers.NewSearchHandler(svc)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=night+train&page=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res search.Results
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Page != 2 || len(res.Movies) != 1 {
		t.Fatalf("unexpected results %+v", res)
	}
	if svc.lastQuery != "night train" {
		t.Fatalf("unexpected query %q", svc.lastQuery)
	}
}

func TestSearchHandlerUpstreamError(t *testing.T) {
	h := handlers.NewSearchHandler(&stubSearch{err: errors.New("catalog down")})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

type stubDetail struct {
	rec *catalog.FullRecord
	err error
}

func (s *stubDetail) MovieByID(context.Context, string) (*catalog.FullRecord, error) {
	return s.rec, s.err
}

func TestMovieDetailHandler(t *testing.T) {
	h := handlers.NewMoviesHandler(&stubDetail{rec: &catalog.FullRecord{
		Title:   "Night Train",
		Runtime: "128 min",
		Genre:   "Drama",
		IMDBID:  "tt1",
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/tt1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "tt1"})
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var details models.MovieDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatal(err)
	}
	if details.RuntimeMinutes != 128 || details.Title != "Night Train" {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestMovieDetailNotFound(t *testing.T) {
	h := handlers.NewMoviesHandler(&stubDetail{})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/tt404", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "tt404"})
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMoviesFilterHandler(t *testing.T) {
	h := handlers.NewMoviesHandler(&stubDetail{})

	body := handlers.FilterRequest{
		Movies: []models.Movie{
			{ID: "m1", GenreIDs: []int{28}, OriginalLanguage: "en", ReleaseDate: "2023-01-01", Popularity: 10},
			{ID: "m2", GenreIDs: []int{35}, OriginalLanguage: "es", ReleaseDate: "2022-01-01", Popularity: 20},
		},
		Filters: models.MovieFilters{
			SelectedGenres: []int{28},
			SortBy:         models.SortByPopularity,
			SortOrder:      models.SortDesc,
		},
	}
	payload, _ := json.Marshal(body)
	rec := httptest.NewRecorder()
	h.Filter(rec, httptest.NewRequest(http.MethodPost, "/api/movies/filter", bytes.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp handlers.FilterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Movies[0].ID != "m1" {
		t.Fatalf("unexpected filter result %+v", resp)
	}
	if !resp.HasActiveFilters || resp.Summary != "Action" {
		t.Fatalf("unexpected summary metadata %+v", resp)
	}
	if len(resp.Options.Genres) != 2 {
		t.Fatalf("expected both genres in options, got %+v", resp.Options.Genres)
	}
}

func TestFiltersHandlerLifecycle(t *testing.T) {
	h := handlers.NewFiltersHandler(store.New())

	toggle := func(body string) handlers.FilterStateResponse {
		rec := httptest.NewRecorder()
		h.Toggle(rec, httptest.NewRequest(http.MethodPost, "/api/filters/toggle", bytes.NewReader([]byte(body))))
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle failed with status %d", rec.Code)
		}
		var resp handlers.FilterStateResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	resp := toggle(`{"genreId": 28}`)
	if !resp.HasActiveFilters {
		t.Fatalf("expected active filters after toggle, got %+v", resp)
	}
	resp = toggle(`{"languageCode": "en"}`)
	if resp.Summary != "Action, English" {
		t.Fatalf("unexpected summary %q", resp.Summary)
	}

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/filters/reset", nil))
	var after handlers.FilterStateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatal(err)
	}
	if after.HasActiveFilters || after.Summary != "All movies" {
		t.Fatalf("reset did not clear filters: %+v", after)
	}

	rec = httptest.NewRecorder()
	h.Toggle(rec, httptest.NewRequest(http.MethodPost, "/api/filters/toggle", bytes.NewReader([]byte(`{}`))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty toggle must be rejected, got %d", rec.Code)
	}
}

func TestFiltersHandlerSortValidation(t *testing.T) {
	h := handlers.NewFiltersHandler(store.New())

	rec := httptest.NewRecorder()
	h.Sort(rec, httptest.NewRequest(http.MethodPost, "/api/filters/sort", bytes.NewReader([]byte(`{"sortBy":"title","sortOrder":"asc"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("valid sort rejected: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Sort(rec, httptest.NewRequest(http.MethodPost, "/api/filters/sort", bytes.NewReader([]byte(`{"sortBy":"runtime","sortOrder":"asc"}`))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid sort field accepted: %d", rec.Code)
	}
}
