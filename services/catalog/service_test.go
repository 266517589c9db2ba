package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"kinoveli/config"
	"kinoveli/models"
)

// stubTranslator is an in-memory Translator double.
type stubTranslator struct {
	cached     map[string]models.TranslationEntry
	translated map[string]models.TranslationEntry
	calls      int
}

func (s *stubTranslator) TranslateMissing(_ context.Context, items []models.TranslationInput) map[string]models.TranslationEntry {
	s.calls++
	out := make(map[string]models.TranslationEntry)
	for _, item := range items {
		if entry, ok := s.translated[item.ID]; ok {
			out[item.ID] = entry
		}
	}
	return out
}

func (s *stubTranslator) Lookup(id string) (models.TranslationEntry, bool) {
	entry, ok := s.cached[id]
	return entry, ok
}

func newTestService(httpc *http.Client, translator Translator) *Service {
	return &Service{
		tmdb:       newTMDBClient("test-key", "ka-GE", httpc),
		translator: translator,
		cfg: config.CatalogSettings{
			YearMin:          1950,
			YearMax:          2030,
			MaxTotalPages:    500,
			DetailWorkers:    2,
			DetailTimeoutSec: 5,
		},
	}
}

func TestFetchDiscoverEndToEnd(t *testing.T) {
	// Provider returns one item with no poster, no director credit and no
	// trailer; every placeholder law must hold on the assembled result.
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			switch {
			case strings.HasSuffix(path, "/discover/movie"):
				return jsonResponse(`{
					"page": 1,
					"results": [{
						"id": 42,
						"title": "Answer",
						"original_title": "Answer",
						"vote_average": 6.1
					}],
					"total_pages": 10000
				}`), nil
			case strings.HasSuffix(path, "/movie/42"):
				return jsonResponse(`{
					"genres": [{"id": 35, "name": "კომედია"}],
					"credits": {"crew": [{"name": "X", "job": "Producer"}], "cast": []},
					"videos": {"results": []},
					"external_ids": {}
				}`), nil
			default:
				t.Errorf("unexpected request path %s", path)
				return jsonResponse(`{}`), nil
			}
		}),
	}

	svc := newTestService(httpc, &stubTranslator{})

	resp, err := svc.Fetch(context.Background(), models.FilterQuery{
		Genres:    []string{"კომედია"},
		YearFrom:  2000,
		YearTo:    2020,
		MinRating: 5,
		Page:      1,
		SortBy:    "popularity.desc",
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(resp.Movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(resp.Movies))
	}
	m := resp.Movies[0]
	if m.ID != "42" {
		t.Fatalf("unexpected id %q", m.ID)
	}
	if m.Director != unknownDirector {
		t.Fatalf("expected director placeholder, got %q", m.Director)
	}
	if !strings.Contains(m.PosterURL, "picsum.photos/seed/42/") {
		t.Fatalf("expected placeholder poster, got %q", m.PosterURL)
	}
	if !strings.Contains(m.TrailerURL, "search_query=") {
		t.Fatalf("expected trailer search fallback, got %q", m.TrailerURL)
	}
	if len(m.Genres) != 1 || m.Genres[0] != "კომედია" {
		t.Fatalf("expected genre names from details, got %v", m.Genres)
	}
	if resp.TotalPages != 500 {
		t.Fatalf("expected total pages capped at 500, got %d", resp.TotalPages)
	}
}

func TestFetchUsesCachedTranslationWhenTranslatorRoundFails(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			switch {
			case strings.HasSuffix(path, "/search/movie"):
				return jsonResponse(`{
					"page": 1,
					"results": [{"id": 99, "title": "Cached Movie", "original_title": "Cached Movie"}],
					"total_pages": 1
				}`), nil
			default:
				return jsonResponse(`{"genres": [], "credits": {}, "videos": {}, "external_ids": {}}`), nil
			}
		}),
	}

	// Translator round yields nothing (outage), but a cached entry exists.
	translator := &stubTranslator{
		cached: map[string]models.TranslationEntry{
			"99": {Title: "ქეშირებული", Overview: "აღწერა ქეშიდან"},
		},
	}
	svc := newTestService(httpc, translator)

	resp, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "cached", Page: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(resp.Movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(resp.Movies))
	}
	if resp.Movies[0].Title != "ქეშირებული" {
		t.Fatalf("expected cached translation used, got %q", resp.Movies[0].Title)
	}
	if resp.Movies[0].Description != "აღწერა ქეშიდან" {
		t.Fatalf("expected cached overview used, got %q", resp.Movies[0].Description)
	}
}

func TestFetchPrimaryQueryFailureIsAnError(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}
	svc := newTestService(httpc, nil)

	resp, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "x", Page: 1})
	if err == nil {
		t.Fatal("expected error when the primary query fails")
	}
	if len(resp.Movies) != 0 || resp.TotalPages != 0 {
		t.Fatalf("expected empty response alongside the error, got %+v", resp)
	}
}

func TestFetchDetailFailureDegradesPerItem(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			switch {
			case strings.HasSuffix(path, "/search/movie"):
				return jsonResponse(`{
					"page": 1,
					"results": [
						{"id": 1, "title": "Good", "original_title": "Good", "overview": "native text"},
						{"id": 2, "title": "Bad", "original_title": "Bad"}
					],
					"total_pages": 1
				}`), nil
			case strings.HasSuffix(path, "/movie/1"):
				return jsonResponse(`{
					"genres": [{"id": 18, "name": "დრამა"}],
					"credits": {"crew": [{"name": "Dir One", "job": "Director"}], "cast": [{"name": "Actor"}]},
					"videos": {"results": []},
					"external_ids": {}
				}`), nil
			default:
				// Detail call for item 2 keeps failing
				return nil, errors.New("connection reset")
			}
		}),
	}
	svc := newTestService(httpc, nil)

	resp, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "mixed", Page: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(resp.Movies) != 2 {
		t.Fatalf("expected both items assembled, got %d", len(resp.Movies))
	}

	good, bad := resp.Movies[0], resp.Movies[1]
	if good.Director != "Dir One" {
		t.Fatalf("expected director for enriched item, got %q", good.Director)
	}
	if bad.Director != unknownDirector {
		t.Fatalf("expected placeholder director for failed item, got %q", bad.Director)
	}
	if bad.Description != noDescriptionPlaceholder {
		t.Fatalf("expected placeholder description for failed item, got %q", bad.Description)
	}
	if good.Description != "native text" {
		t.Fatalf("expected native overview fallback, got %q", good.Description)
	}
}

// stubRatings is an in-memory RatingSource double.
type stubRatings struct {
	byID map[string]float64
}

func (s *stubRatings) IMDBRating(_ context.Context, imdbID string) float64 {
	return s.byID[imdbID]
}

func TestFetchAttachesSecondaryRatingFromDetailFanOut(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.Path
			switch {
			case strings.HasSuffix(path, "/search/movie"):
				return jsonResponse(`{
					"page": 1,
					"results": [
						{"id": 7, "title": "Se7en", "original_title": "Se7en"},
						{"id": 8, "title": "NoDetails", "original_title": "NoDetails"}
					],
					"total_pages": 1
				}`), nil
			case strings.HasSuffix(path, "/movie/7"):
				return jsonResponse(`{
					"genres": [],
					"credits": {},
					"videos": {},
					"external_ids": {"imdb_id": "tt0114369"}
				}`), nil
			default:
				// Detail call for item 8 keeps failing
				return nil, errors.New("connection reset")
			}
		}),
	}

	svc := newTestService(httpc, nil)
	svc.ratings = &stubRatings{byID: map[string]float64{"tt0114369": 8.6}}

	resp, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "seven", Page: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(resp.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(resp.Movies))
	}

	if got := resp.Movies[0].SecondaryRating; got != 8.6 {
		t.Fatalf("expected secondary rating from detail record, got %v", got)
	}
	if got := resp.Movies[1].SecondaryRating; got != 0 {
		t.Fatalf("expected no secondary rating without a detail record, got %v", got)
	}
}

func TestFetchSequenceIncreasesPerRun(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(`{"page":1,"results":[],"total_pages":1}`), nil
		}),
	}
	svc := newTestService(httpc, nil)

	first, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "a", Page: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	second, err := svc.Fetch(context.Background(), models.FilterQuery{SearchQuery: "b", Page: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if second.Sequence <= first.Sequence {
		t.Fatalf("expected increasing sequence numbers, got %d then %d", first.Sequence, second.Sequence)
	}
}
