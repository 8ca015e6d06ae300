package catalog

import (
	"strconv"
	"strings"

	"cinefeed/models"
)

// Transformers from upstream payload shapes to the canonical view models.
// All of them are total: malformed input degrades to placeholders, never to
// an error or panic.

// yearPrefix pulls a 4-digit year out of an upstream Year value, which may be
// a plain year ("2023") or a range ("2012–2015").
func yearPrefix(year string) (int, bool) {
	s := strings.TrimSpace(year)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// TransformSearchResultToMovie maps the lightweight search shape. Search
// results never carry a synopsis, genres or day-level dates: overview is
// always the placeholder, and the release date is synthesized as YYYY-01-01
// so year extraction and date sorting keep working downstream.
func TransformSearchResultToMovie(item SearchItem) models.Movie {
	poster := field(item.Poster).or(models.PlaceholderImagePath)

	releaseDate := models.NotAvailable
	if y, ok := yearPrefix(item.Year); ok {
		releaseDate = strconv.Itoa(y) + "-01-01"
	}

	return models.Movie{
		ID:               item.IMDBID,
		Title:            item.Title,
		Overview:         models.PlaceholderOverview,
		PosterPath:       poster,
		BackdropPath:     poster,
		ReleaseDate:      releaseDate,
		GenreIDs:         []int{},
		OriginalLanguage: "en",
	}
}

// TransformSearchResults maps a list of search items, dropping entries without
// an id and deduplicating by id so the result honors the collection
// uniqueness invariant.
func TransformSearchResults(items []SearchItem) []models.Movie {
	seen := make(map[string]bool, len(items))
	out := make([]models.Movie, 0, len(items))
	for _, item := range items {
		if item.IMDBID == "" || seen[item.IMDBID] {
			continue
		}
		seen[item.IMDBID] = true
		out = append(out, TransformSearchResultToMovie(item))
	}
	return out
}

func parseRating(raw string) float64 {
	f := field(raw)
	if !f.present() {
		return 0
	}
	v, err := strconv.ParseFloat(f.or(""), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseVoteCount(raw string) int {
	f := field(raw)
	if !f.present() {
		return 0
	}
	v, err := strconv.Atoi(strings.ReplaceAll(f.or(""), ",", ""))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseRuntimeMinutes(raw string) int {
	f := field(raw)
	if !f.present() {
		return 0
	}
	// Upstream format is "<minutes> min".
	s := strings.TrimSpace(strings.TrimSuffix(f.or(""), "min"))
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// splitList splits an upstream comma-joined value ("Action, Drama") into its
// trimmed parts, skipping empties and the sentinel.
func splitList(raw string) []string {
	f := field(raw)
	if !f.present() {
		return nil
	}
	parts := strings.Split(f.or(""), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func genreIDsFromNames(names []string) []int {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		if id, ok := models.GenreIDByName(name); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func languageCode(raw string) string {
	// Upstream lists languages by display name; the first one is the original.
	names := splitList(raw)
	if len(names) > 0 {
		if code, ok := models.LanguageCodeByName(names[0]); ok {
			return code
		}
	}
	return "en"
}

// TransformFullRecordToMovie maps the richer by-id shape onto the canonical
// record.
func TransformFullRecordToMovie(rec FullRecord) models.Movie {
	poster := field(rec.Poster).or(models.PlaceholderImagePath)
	return models.Movie{
		ID:               rec.IMDBID,
		Title:            rec.Title,
		Overview:         field(rec.Plot).or(models.PlaceholderOverview),
		PosterPath:       poster,
		BackdropPath:     poster,
		ReleaseDate:      field(rec.Released).or(models.NotAvailable),
		VoteAverage:      parseRating(rec.IMDBRating),
		VoteCount:        parseVoteCount(rec.IMDBVotes),
		GenreIDs:         genreIDsFromNames(splitList(rec.Genre)),
		OriginalLanguage: languageCode(rec.Language),
	}
}

// TransformFullRecordToHeroMovie builds the featured banner movie. The
// backdrop always resolves to a displayable path, falling back to the
// placeholder when the upstream poster is unavailable.
func TransformFullRecordToHeroMovie(rec FullRecord) models.HeroMovie {
	return models.HeroMovie{
		Movie:   TransformFullRecordToMovie(rec),
		Tagline: field(rec.Tagline).or(""),
	}
}

// TransformFullRecordToDetails maps the full-detail view model. Genre order
// follows the upstream record; names outside the reference table keep id 0.
func TransformFullRecordToDetails(rec FullRecord) models.MovieDetails {
	names := splitList(rec.Genre)
	genres := make([]models.Genre, 0, len(names))
	for _, name := range names {
		id, _ := models.GenreIDByName(name)
		genres = append(genres, models.Genre{ID: id, Name: name})
	}

	return models.MovieDetails{
		Movie:          TransformFullRecordToMovie(rec),
		Genres:         genres,
		RuntimeMinutes: parseRuntimeMinutes(rec.Runtime),
		Status:         field(rec.Status).or(""),
		Tagline:        field(rec.Tagline).or(""),
		Homepage:       field(rec.Website).or(""),
		IMDBID:         rec.IMDBID,
		Production:     splitList(rec.Production),
	}
}

func capMovies(movies []models.Movie) []models.Movie {
	if len(movies) > models.SectionMovieCap {
		return movies[:models.SectionMovieCap]
	}
	return movies
}

// TransformMoviesToSections assembles the homepage sections in display order:
// trending and big hits (both over the popular list), top rated, recently
// released. Sections with no source movies are omitted rather than rendered
// empty; the remaining order never changes.
func TransformMoviesToSections(popular, topRated, upcoming []models.Movie) []models.MovieSection {
	sections := make([]models.MovieSection, 0, 4)
	if len(popular) > 0 {
		sections = append(sections,
			models.MovieSection{Title: "Trending", Movies: capMovies(popular), Type: models.SectionTrending},
			models.MovieSection{Title: "Big Hits", Movies: capMovies(popular), Type: models.SectionBigHits},
		)
	}
	if len(topRated) > 0 {
		sections = append(sections, models.MovieSection{Title: "Top Rated", Movies: capMovies(topRated), Type: models.SectionTopRated})
	}
	if len(upcoming) > 0 {
		sections = append(sections, models.MovieSection{Title: "Recently Released", Movies: capMovies(upcoming), Type: models.SectionRecentlyReleased})
	}
	return sections
}

// CreateHomePageView is the final assembly seam. hero may be nil; the
// orchestrator calls this regardless of whether the hero fetch succeeded.
func CreateHomePageView(hero *models.HeroMovie, sections []models.MovieSection) models.HomePageData {
	if sections == nil {
		sections = []models.MovieSection{}
	}
	return models.HomePageData{HeroMovie: hero, Sections: sections}
}
