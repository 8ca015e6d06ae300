package filter

import (
	"sort"
	"strconv"
	"strings"

	"cinefeed/models"
)

// Pure filtering/sorting pipeline over canonical movie records. FilterMovies
// and SortMovies never mutate their input; ApplyFilters is the single entry
// point the handlers consume.

// ReleaseYear extracts the 4-digit year from a YYYY-MM-DD release date.
// Returns false for the N/A sentinel and anything else unparseable.
func ReleaseYear(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func matchesGenres(m models.Movie, selected []int) bool {
	if len(selected) == 0 {
		return true
	}
	for _, id := range m.GenreIDs {
		if containsInt(selected, id) {
			return true
		}
	}
	return false
}

func matchesLanguages(m models.Movie, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	return containsString(selected, m.OriginalLanguage)
}

func matchesYears(m models.Movie, selected []int) bool {
	if len(selected) == 0 {
		return true
	}
	year, ok := ReleaseYear(m.ReleaseDate)
	if !ok {
		// An unparseable date can never satisfy a year constraint.
		return false
	}
	return containsInt(selected, year)
}

// FilterMovies retains the movies matching every non-empty facet of the
// specification. Within a facet, membership of any selected value suffices.
// Relative order of the input is preserved.
func FilterMovies(movies []models.Movie, filters models.MovieFilters) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if matchesGenres(m, filters.SelectedGenres) &&
			matchesLanguages(m, filters.SelectedLanguages) &&
			matchesYears(m, filters.SelectedReleaseYears) {
			out = append(out, m)
		}
	}
	return out
}

// compareMovies returns a negative/zero/positive value ordering a before/with/
// after b for the given sort field in ascending terms.
func compareMovies(a, b models.Movie, field models.SortField) int {
	switch field {
	case models.SortByVoteAverage:
		return compareFloat(a.VoteAverage, b.VoteAverage)
	case models.SortByReleaseDate:
		return compareReleaseDate(a.ReleaseDate, b.ReleaseDate)
	case models.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	default: // popularity
		return compareFloat(a.Popularity, b.Popularity)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareReleaseDate orders zero-padded YYYY-MM-DD strings chronologically.
// The N/A sentinel sorts before every real date.
func compareReleaseDate(a, b string) int {
	aNA := a == models.NotAvailable
	bNA := b == models.NotAvailable
	switch {
	case aNA && bNA:
		return 0
	case aNA:
		return -1
	case bNA:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortMovies returns a new slice ordered by the specification's sort field and
// direction. The sort is stable: ties keep their relative input order, which
// matters because placeholder zero popularity values are common.
func SortMovies(movies []models.Movie, filters models.MovieFilters) []models.Movie {
	out := make([]models.Movie, len(movies))
	copy(out, movies)
	desc := filters.SortOrder == models.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := compareMovies(out[i], out[j], filters.SortBy)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// ApplyFilters filters then sorts, in that order, never interleaved.
func ApplyFilters(movies []models.Movie, filters models.MovieFilters) []models.Movie {
	return SortMovies(FilterMovies(movies, filters), filters)
}

// GetFilteredMovieCount counts matches without sorting.
func GetFilteredMovieCount(movies []models.Movie, filters models.MovieFilters) int {
	return len(FilterMovies(movies, filters))
}

// HasActiveFilters reports whether any facet selection is non-empty. Sort
// fields never count as active.
func HasActiveFilters(filters models.MovieFilters) bool {
	return len(filters.SelectedGenres) > 0 ||
		len(filters.SelectedLanguages) > 0 ||
		len(filters.SelectedReleaseYears) > 0
}

// GetFilterSummary renders a human-readable description of the active
// selections: genre names, then language names, then years. Selected ids whose
// names are missing from the reference lists are skipped. Returns "All movies"
// when nothing is selected.
func GetFilterSummary(filters models.MovieFilters, genres []models.Genre, languages []models.Language) string {
	if !HasActiveFilters(filters) {
		return "All movies"
	}

	var parts []string
	for _, id := range filters.SelectedGenres {
		for _, g := range genres {
			if g.ID == id {
				parts = append(parts, g.Name)
				break
			}
		}
	}
	for _, code := range filters.SelectedLanguages {
		for _, l := range languages {
			if l.Code == code {
				parts = append(parts, l.Name)
				break
			}
		}
	}
	for _, year := range filters.SelectedReleaseYears {
		parts = append(parts, strconv.Itoa(year))
	}

	if len(parts) == 0 {
		// Every selection pointed at a value no longer in the reference lists.
		return "All movies"
	}
	return strings.Join(parts, ", ")
}

// AvailableGenres returns the subset of allKnown whose id appears in at least
// one movie, preserving allKnown's order.
func AvailableGenres(movies []models.Movie, allKnown []models.Genre) []models.Genre {
	present := make(map[int]bool)
	for _, m := range movies {
		for _, id := range m.GenreIDs {
			present[id] = true
		}
	}
	out := make([]models.Genre, 0, len(present))
	for _, g := range allKnown {
		if present[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

// AvailableLanguages returns the subset of allKnown spoken by at least one
// movie, preserving allKnown's order.
func AvailableLanguages(movies []models.Movie, allKnown []models.Language) []models.Language {
	present := make(map[string]bool)
	for _, m := range movies {
		present[m.OriginalLanguage] = true
	}
	out := make([]models.Language, 0, len(present))
	for _, l := range allKnown {
		if present[l.Code] {
			out = append(out, l)
		}
	}
	return out
}

// AvailableYears returns the distinct release years present in the collection,
// ascending. Unparseable dates are skipped.
func AvailableYears(movies []models.Movie) []int {
	present := make(map[int]bool)
	for _, m := range movies {
		if year, ok := ReleaseYear(m.ReleaseDate); ok {
			present[year] = true
		}
	}
	out := make([]int, 0, len(present))
	for year := range present {
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}

// AvailableOptions bundles the three facet extractions into the option
// universe the filter UI consumes.
func AvailableOptions(movies []models.Movie) models.MovieFilterOptions {
	return models.MovieFilterOptions{
		Genres:       AvailableGenres(movies, models.KnownGenres),
		Languages:    AvailableLanguages(movies, models.KnownLanguages),
		ReleaseYears: AvailableYears(movies),
	}
}
