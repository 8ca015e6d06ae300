package models

// Filter specification and the option universe derived from a collection.

type SortField string

const (
	SortByPopularity  SortField = "popularity"
	SortByReleaseDate SortField = "release_date"
	SortByVoteAverage SortField = "vote_average"
	SortByTitle       SortField = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MovieFilters is the user-controlled filter specification. Empty selection
// slices mean "no constraint on this facet", never "exclude everything".
type MovieFilters struct {
	SelectedGenres       []int     `json:"selectedGenres"`
	SelectedLanguages    []string  `json:"selectedLanguages"`
	SelectedReleaseYears []int     `json:"selectedReleaseYears"`
	SortBy               SortField `json:"sortBy"`
	SortOrder            SortOrder `json:"sortOrder"`
}

// DefaultMovieFilters returns the all-empty specification used at startup and
// after a reset.
func DefaultMovieFilters() MovieFilters {
	return MovieFilters{
		SelectedGenres:       []int{},
		SelectedLanguages:    []string{},
		SelectedReleaseYears: []int{},
		SortBy:               SortByPopularity,
		SortOrder:            SortDesc,
	}
}

// MovieFilterOptions is the universe of selectable facet values for a given
// movie collection, derived by the facet extractor rather than fixed globally.
type MovieFilterOptions struct {
	Genres       []Genre    `json:"genres"`
	Languages    []Language `json:"languages"`
	ReleaseYears []int      `json:"releaseYears"`
}

// KnownGenres is the reference genre table. IDs follow the common catalog
// numbering so upstream genre names map onto stable integer ids.
var KnownGenres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama"},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 53, Name: "Thriller"},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

// KnownLanguages is the reference language table used for code lookups and
// filter summaries.
var KnownLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ru", Name: "Russian"},
	{Code: "ar", Name: "Arabic"},
}

// GenreIDByName resolves a genre name to its id. Returns 0, false for names
// outside the reference table.
func GenreIDByName(name string) (int, bool) {
	for _, g := range KnownGenres {
		if g.Name == name {
			return g.ID, true
		}
	}
	return 0, false
}

// LanguageCodeByName resolves a language display name to its code.
func LanguageCodeByName(name string) (string, bool) {
	for _, l := range KnownLanguages {
		if l.Name == name {
			return l.Code, true
		}
	}
	return "", false
}
