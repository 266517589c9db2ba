// Package catalog implements the movie discovery pipeline: filter
// normalization, the TMDB search/discover dispatch, bounded per-item detail
// enrichment, translation lookup and final result assembly.
package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"kinoveli/config"
	"kinoveli/models"
)

// Translator supplies Georgian translations for movie titles and synopses.
// TranslateMissing must be fail-soft: a translation outage yields an empty
// mapping, never an error, and previously cached entries stay reachable via
// Lookup.
type Translator interface {
	TranslateMissing(ctx context.Context, items []models.TranslationInput) map[string]models.TranslationEntry
	Lookup(id string) (models.TranslationEntry, bool)
}

// RatingSource provides the optional secondary rating for a title.
type RatingSource interface {
	IMDBRating(ctx context.Context, imdbID string) float64
}

// Service runs the fetch pipeline. Safe for concurrent use.
type Service struct {
	tmdb       *tmdbClient
	ratings    RatingSource
	translator Translator
	cfg        config.CatalogSettings

	seq atomic.Uint64
}

// NewService wires the pipeline from settings. translator may be nil, in which
// case results keep their provider-native text.
func NewService(tmdbCfg config.TMDBSettings, ratingsCfg config.RatingsSettings, catalogCfg config.CatalogSettings, translator Translator, httpc *http.Client) *Service {
	return &Service{
		tmdb:       newTMDBClient(tmdbCfg.APIKey, tmdbCfg.Language, httpc),
		ratings:    newMDBListClient(ratingsCfg.MDBListAPIKey, ratingsCfg.Enabled, httpc),
		translator: translator,
		cfg:        catalogCfg,
	}
}

// Fetch executes one pipeline run for the given filters and returns the
// assembled page. The primary query failing is a real error; detail,
// translation and rating failures degrade per-field instead. The returned
// sequence number increases per run so callers can discard results from a
// search that was superseded while in flight.
func (s *Service) Fetch(ctx context.Context, q models.FilterQuery) (models.FetchResponse, error) {
	seq := s.seq.Add(1)
	nq := normalizeQuery(q, s.cfg)

	var (
		page *tmdbPageResponse
		err  error
	)
	if nq.searchQuery != "" {
		page, err = s.tmdb.searchMovies(ctx, nq.searchQuery, nq.page, nq.includeAdult)
	} else {
		page, err = s.tmdb.discoverMovies(ctx, nq)
	}
	if err != nil {
		return models.FetchResponse{Movies: []models.MovieResult{}, Sequence: seq}, fmt.Errorf("primary query: %w", err)
	}

	raws := page.Results
	translated := s.translateBatch(ctx, raws)
	details, imdbRatings := s.fetchDetails(ctx, raws)

	movies := make([]models.MovieResult, 0, len(raws))
	for i, raw := range raws {
		id := strconv.FormatInt(raw.ID, 10)

		var trans *models.TranslationEntry
		if entry, ok := translated[id]; ok {
			trans = &entry
		} else if s.translator != nil {
			if entry, ok := s.translator.Lookup(id); ok {
				trans = &entry
			}
		}

		movies = append(movies, assembleMovie(raw, details[i], trans, imdbRatings[i]))
	}

	return models.FetchResponse{
		Movies:     movies,
		TotalPages: capTotalPages(page.TotalPages, s.cfg.MaxTotalPages),
		Sequence:   seq,
	}, nil
}

// translateBatch hands the page to the translator. Fail-soft by contract.
func (s *Service) translateBatch(ctx context.Context, raws []tmdbMovie) map[string]models.TranslationEntry {
	if s.translator == nil || len(raws) == 0 {
		return nil
	}
	inputs := make([]models.TranslationInput, 0, len(raws))
	for _, raw := range raws {
		inputs = append(inputs, models.TranslationInput{
			ID:       strconv.FormatInt(raw.ID, 10),
			Title:    raw.Title,
			Overview: raw.Overview,
		})
	}
	return s.translator.TranslateMissing(ctx, inputs)
}

// fetchDetails fans out one detail request per result through a bounded worker
// pool, fetching the secondary rating inside the same worker once the detail
// record yields an IMDB ID. A failed or timed-out call leaves a nil slot;
// assembly substitutes the documented placeholders.
func (s *Service) fetchDetails(ctx context.Context, raws []tmdbMovie) ([]*tmdbDetailResponse, []float64) {
	details := make([]*tmdbDetailResponse, len(raws))
	ratings := make([]float64, len(raws))
	if len(raws) == 0 {
		return details, ratings
	}

	timeout := time.Duration(s.cfg.DetailTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	workers := s.cfg.DetailWorkers
	if workers <= 0 {
		workers = 4
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i, raw := range raws {
		p.Go(func() {
			dctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			d, err := s.tmdb.movieDetails(dctx, raw.ID)
			if err != nil {
				log.Printf("[catalog] detail fetch for %d failed: %v", raw.ID, err)
				return
			}
			details[i] = d

			if s.ratings != nil {
				ratings[i] = s.ratings.IMDBRating(dctx, d.ExternalIDs.IMDBID)
			}
		})
	}
	p.Wait()

	return details, ratings
}
