package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const mdblistBaseURL = "https://api.mdblist.com"

// mdblistClient fetches aggregated ratings from MDBList. It backs the
// secondary (IMDB) rating on assembled results; when disabled or failing the
// rating is simply absent.
type mdblistClient struct {
	apiKey  string
	enabled bool
	httpc   *http.Client

	cacheMu sync.RWMutex
	cache   map[string]float64
}

type mdblistMediaResponse struct {
	Ratings []struct {
		Source string   `json:"source"`
		Value  *float64 `json:"value"`
	} `json:"ratings"`
}

func newMDBListClient(apiKey string, enabled bool, httpc *http.Client) *mdblistClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &mdblistClient{
		apiKey:  strings.TrimSpace(apiKey),
		enabled: enabled,
		httpc:   httpc,
		cache:   make(map[string]float64),
	}
}

// IMDBRating returns the IMDB rating for a title, or 0 when unavailable.
// Results are cached in memory for the process lifetime.
func (c *mdblistClient) IMDBRating(ctx context.Context, imdbID string) float64 {
	if c == nil || !c.enabled || c.apiKey == "" || imdbID == "" {
		return 0
	}
	if !strings.HasPrefix(imdbID, "tt") {
		imdbID = "tt" + imdbID
	}

	c.cacheMu.RLock()
	if rating, ok := c.cache[imdbID]; ok {
		c.cacheMu.RUnlock()
		return rating
	}
	c.cacheMu.RUnlock()

	rating, err := c.fetchIMDBRating(ctx, imdbID)
	if err != nil {
		// Transient failures stay uncached so the next page retries
		return 0
	}

	c.cacheMu.Lock()
	c.cache[imdbID] = rating
	c.cacheMu.Unlock()

	return rating
}

func (c *mdblistClient) fetchIMDBRating(ctx context.Context, imdbID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/imdb/movie/%s?apikey=%s", mdblistBaseURL, imdbID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("mdblist request failed: %s", resp.Status)
	}

	var payload mdblistMediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	for _, r := range payload.Ratings {
		if strings.EqualFold(r.Source, "imdb") && r.Value != nil {
			return *r.Value, nil
		}
	}
	return 0, nil
}
