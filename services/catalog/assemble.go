package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kinoveli/models"
)

const (
	noDescriptionPlaceholder = "აღწერა არ არის."
	unknownDirector          = "უცნობია"
	maxCastNames             = 5
)

// assembleMovie merges a primary result, its detail record and an optional
// cached translation into the output shape. details may be nil when the
// per-item fetch failed; every absent field degrades to a documented default.
func assembleMovie(raw tmdbMovie, details *tmdbDetailResponse, trans *models.TranslationEntry, imdbRating float64) models.MovieResult {
	id := strconv.FormatInt(raw.ID, 10)

	m := models.MovieResult{
		ID:              id,
		Title:           pickTitle(trans, raw),
		OriginalTitle:   raw.OriginalTitle,
		Year:            parseReleaseYear(raw.ReleaseDate),
		PrimaryRating:   raw.VoteAverage,
		SecondaryRating: imdbRating,
		Genres:          []string{},
		Description:     pickDescription(trans, details, raw),
		Director:        unknownDirector,
		Cast:            []string{},
		PosterURL:       buildPosterURL(raw.PosterPath, id),
		TrailerURL:      trailerSearchURL(raw.OriginalTitle),
		IMDBURL:         fmt.Sprintf("https://www.themoviedb.org/movie/%s", id),
	}

	if details == nil {
		return m
	}

	for _, g := range details.Genres {
		if g.Name != "" {
			m.Genres = append(m.Genres, g.Name)
		}
	}

	for _, crew := range details.Credits.Crew {
		if crew.Job == "Director" && crew.Name != "" {
			m.Director = crew.Name
			break
		}
	}

	for _, cast := range details.Credits.Cast {
		if len(m.Cast) == maxCastNames {
			break
		}
		if cast.Name != "" {
			m.Cast = append(m.Cast, cast.Name)
		}
	}

	if trailer := findTrailer(details.Videos.Results); trailer != "" {
		m.TrailerURL = fmt.Sprintf("https://www.youtube.com/watch?v=%s", trailer)
	}

	if imdbID := strings.TrimSpace(details.ExternalIDs.IMDBID); imdbID != "" {
		m.IMDBURL = fmt.Sprintf("https://www.imdb.com/title/%s", imdbID)
	}

	return m
}

func pickTitle(trans *models.TranslationEntry, raw tmdbMovie) string {
	if trans != nil && trans.Title != "" {
		return trans.Title
	}
	if raw.Title != "" {
		return raw.Title
	}
	return raw.OriginalTitle
}

func pickDescription(trans *models.TranslationEntry, details *tmdbDetailResponse, raw tmdbMovie) string {
	if trans != nil && trans.Overview != "" {
		return trans.Overview
	}
	if details != nil && details.Overview != "" {
		return details.Overview
	}
	if raw.Overview != "" {
		return raw.Overview
	}
	return noDescriptionPlaceholder
}

func parseReleaseYear(date string) int {
	if date == "" {
		return 0
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

// buildPosterURL returns the provider poster URL, or a deterministic
// ID-seeded placeholder when the result has no poster path.
func buildPosterURL(posterPath, id string) string {
	trimmed := strings.TrimSpace(posterPath)
	if trimmed == "" {
		return fmt.Sprintf("https://picsum.photos/seed/%s/400/600", id)
	}
	return fmt.Sprintf("%s/%s/%s", tmdbImageBaseURL, tmdbPosterSize, strings.TrimPrefix(trimmed, "/"))
}

// findTrailer returns the key of the first YouTube trailer, if any.
func findTrailer(videos []tmdbVideo) string {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" && strings.TrimSpace(v.Key) != "" {
			return strings.TrimSpace(v.Key)
		}
	}
	return ""
}

func trailerSearchURL(originalTitle string) string {
	q := url.QueryEscape(originalTitle + " trailer")
	return "https://www.youtube.com/results?search_query=" + q
}

// capTotalPages bounds the provider-reported page count.
func capTotalPages(reported, limit int) int {
	if reported < 1 {
		reported = 1
	}
	if limit > 0 && reported > limit {
		return limit
	}
	return reported
}
