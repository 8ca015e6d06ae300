package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cinefeed/handlers"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request for log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	homepageHandler *handlers.HomepageHandler,
	searchHandler *handlers.SearchHandler,
	moviesHandler *handlers.MoviesHandler,
	filtersHandler *handlers.FiltersHandler,
) {
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(corsMiddleware, requestIDMiddleware)

	apiRouter.HandleFunc("/homepage", homepageHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/search", searchHandler.Get).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/movies/filter", moviesHandler.Filter).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/movies/{id}", moviesHandler.Detail).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/filters", filtersHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/filters/toggle", filtersHandler.Toggle).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/filters/sort", filtersHandler.Sort).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/filters/reset", filtersHandler.Reset).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)
}
