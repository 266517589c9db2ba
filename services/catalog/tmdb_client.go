package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	// w500 is plenty for poster cards in the UI
	tmdbPosterSize = "w500"
)

type tmdbClient struct {
	apiKey   string
	language string
	httpc    *http.Client
	limiter  *rate.Limiter
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if strings.TrimSpace(language) == "" {
		language = "ka-GE"
	}
	return &tmdbClient{
		apiKey:   strings.TrimSpace(apiKey),
		language: language,
		httpc:    httpc,
		// TMDB allows ~50 req/s; stay well under it
		limiter: rate.NewLimiter(rate.Limit(40), 10),
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// doGET performs an HTTP GET with rate limiting and retry with exponential
// backoff on transient failures (network errors, 429, 5xx).
func (c *tmdbClient) doGET(ctx context.Context, endpoint string, v any) error {
	var lastErr error
	backoff := 300 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[tmdb] http error (attempt %d/3): %v", attempt+1, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("tmdb request failed: %s", resp.Status)
			log.Printf("[tmdb] rate limited or server error (attempt %d/3): status %d", attempt+1, resp.StatusCode)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("tmdb request failed: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		if err != nil {
			return err
		}
		return nil
	}

	return lastErr
}

type tmdbMovie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	GenreIDs      []int   `json:"genre_ids"`
}

type tmdbPageResponse struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type tmdbCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbCastMember struct {
	Name string `json:"name"`
}

type tmdbVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type tmdbDetailResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Overview string `json:"overview"`
	Credits  struct {
		Crew []tmdbCrewMember `json:"crew"`
		Cast []tmdbCastMember `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
}

// searchMovies issues a free-text search. Facet filters do not apply in this
// mode; only the query, page, locale and adult flag are sent.
func (c *tmdbClient) searchMovies(ctx context.Context, query string, page int, includeAdult bool) (*tmdbPageResponse, error) {
	if !c.isConfigured() {
		return nil, errors.New("tmdb api key not configured")
	}

	params := c.baseParams(page, includeAdult)
	params.Set("query", query)
	endpoint := fmt.Sprintf("%s/search/movie?%s", tmdbBaseURL, params.Encode())

	var payload tmdbPageResponse
	if err := c.doGET(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// discoverMovies issues a faceted discovery request. Genre IDs are joined with
// commas (provider AND semantics), country codes with pipes (OR semantics).
func (c *tmdbClient) discoverMovies(ctx context.Context, q normalizedQuery) (*tmdbPageResponse, error) {
	if !c.isConfigured() {
		return nil, errors.New("tmdb api key not configured")
	}

	params := c.baseParams(q.page, q.includeAdult)
	params.Set("sort_by", q.sortBy)
	params.Set("vote_average.gte", strconv.FormatFloat(q.minRating, 'f', -1, 64))
	params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", q.yearFrom))
	params.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", q.yearTo))
	if len(q.genreIDs) > 0 {
		params.Set("with_genres", joinGenreIDs(q.genreIDs))
	}
	if len(q.countries) > 0 {
		params.Set("with_origin_country", strings.Join(q.countries, "|"))
	}
	endpoint := fmt.Sprintf("%s/discover/movie?%s", tmdbBaseURL, params.Encode())

	var payload tmdbPageResponse
	if err := c.doGET(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// movieDetails fetches extended details (credits, videos, external IDs) for a
// single movie in the configured locale.
func (c *tmdbClient) movieDetails(ctx context.Context, tmdbID int64) (*tmdbDetailResponse, error) {
	if !c.isConfigured() {
		return nil, errors.New("tmdb api key not configured")
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("append_to_response", "videos,credits,external_ids")
	endpoint := fmt.Sprintf("%s/movie/%d?%s", tmdbBaseURL, tmdbID, params.Encode())

	var payload tmdbDetailResponse
	if err := c.doGET(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *tmdbClient) baseParams(page int, includeAdult bool) url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", strconv.FormatBool(includeAdult))
	return params
}

func joinGenreIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
