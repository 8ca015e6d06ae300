package models

// Canonical movie view models produced by the catalog transformers.

const (
	// PlaceholderOverview is used when the upstream record carries no synopsis.
	PlaceholderOverview = "No overview available."
	// PlaceholderImagePath is served for posters/backdrops the upstream marks unavailable.
	PlaceholderImagePath = "/images/placeholder-poster.png"
	// NotAvailable is the upstream sentinel for a missing field. It is also the
	// canonical release date for movies whose date is unknown; it sorts before
	// every real YYYY-MM-DD string.
	NotAvailable = "N/A"
)

type Movie struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"posterPath"`
	BackdropPath     string  `json:"backdropPath"`
	ReleaseDate      string  `json:"releaseDate"` // YYYY-MM-DD or NotAvailable
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	GenreIDs         []int   `json:"genreIds"` // empty for search results
	OriginalLanguage string  `json:"originalLanguage"`
	Popularity       float64 `json:"popularity"`
}

// HeroMovie is the single featured banner movie. Backdrop is always set.
type HeroMovie struct {
	Movie
	Tagline string `json:"tagline,omitempty"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MovieDetails extends Movie with the fields only present on full records.
type MovieDetails struct {
	Movie
	Genres         []Genre  `json:"genres"` // upstream order preserved
	RuntimeMinutes int      `json:"runtimeMinutes"` // 0 = unknown
	Status         string   `json:"status,omitempty"`
	Tagline        string   `json:"tagline,omitempty"`
	Homepage       string   `json:"homepage,omitempty"`
	IMDBID         string   `json:"imdbId,omitempty"`
	Production     []string `json:"production,omitempty"`
}

type SectionType string

const (
	SectionTrending         SectionType = "trending"
	SectionBigHits          SectionType = "big_hits"
	SectionTopRated         SectionType = "top_rated"
	SectionRecentlyReleased SectionType = "recently_released"
)

// SectionMovieCap limits how many movies a homepage section carries.
const SectionMovieCap = 10

type MovieSection struct {
	Title  string      `json:"title"`
	Movies []Movie     `json:"movies"`
	Type   SectionType `json:"type"`
}

// HomePageData is the assembled homepage view model. HeroMovie is nil when the
// hero fetch failed or no popular movies were available.
type HomePageData struct {
	HeroMovie *HeroMovie     `json:"heroMovie"`
	Sections  []MovieSection `json:"sections"`
}
