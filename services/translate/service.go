// Package translate manages Georgian translations of movie titles and
// synopses: a persistent cache in the local key-value store, filled by
// batched calls to the Gemini API.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"kinoveli/config"
	"kinoveli/internal/database"
	"kinoveli/models"
)

const cacheKeyPrefix = "c_"

// generator abstracts the LLM call so tests can substitute canned output.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Service caches and batch-fills translations. Every failure inside
// TranslateMissing degrades to "no translations this round"; cached entries
// are never affected by a failed round.
type Service struct {
	store         database.Store
	client        generator
	enabled       bool
	chunkSize     int
	overviewLimit int
}

// NewService builds the translation service on top of the injected store.
func NewService(cfg config.TranslatorSettings, catalogCfg config.CatalogSettings, store database.Store, httpc *http.Client) *Service {
	return &Service{
		store:         store,
		client:        newGeminiClient(cfg.APIKey, cfg.Model, httpc),
		enabled:       cfg.Enabled && strings.TrimSpace(cfg.APIKey) != "",
		chunkSize:     catalogCfg.TranslateChunk,
		overviewLimit: catalogCfg.OverviewCharLimit,
	}
}

// Lookup returns the cached translation for a movie ID, if present.
func (s *Service) Lookup(id string) (models.TranslationEntry, bool) {
	raw, ok, err := s.store.Get(cacheKeyPrefix + id)
	if err != nil {
		log.Printf("[translate] cache read for %s failed: %v", id, err)
		return models.TranslationEntry{}, false
	}
	if !ok {
		return models.TranslationEntry{}, false
	}
	var entry models.TranslationEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("[translate] cache entry for %s is corrupt: %v", id, err)
		return models.TranslationEntry{}, false
	}
	return entry, true
}

// Store persists a translation entry for a movie ID.
func (s *Service) Store(id string, entry models.TranslationEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.store.Put(cacheKeyPrefix+id, string(data))
}

// TranslateMissing translates every item without a cache entry and returns
// the newly translated mapping. When all items are cached it returns an empty
// mapping without a network call. The batch is chunked so one oversized or
// failing chunk cannot sink the whole round.
func (s *Service) TranslateMissing(ctx context.Context, items []models.TranslationInput) map[string]models.TranslationEntry {
	results := make(map[string]models.TranslationEntry)

	missing := make([]models.TranslationInput, 0, len(items))
	for _, item := range items {
		if _, ok := s.Lookup(item.ID); !ok {
			missing = append(missing, item)
		}
	}
	if len(missing) == 0 || !s.enabled {
		return results
	}

	chunkSize := s.chunkSize
	if chunkSize <= 0 {
		chunkSize = 20
	}

	for start := 0; start < len(missing); start += chunkSize {
		end := start + chunkSize
		if end > len(missing) {
			end = len(missing)
		}
		s.translateChunk(ctx, missing[start:end], results)
	}

	return results
}

// translateChunk issues one batched request and merges parsed entries into
// out. Fail-soft: errors are logged and the chunk contributes nothing.
func (s *Service) translateChunk(ctx context.Context, chunk []models.TranslationInput, out map[string]models.TranslationEntry) {
	prompt, err := s.buildPrompt(chunk)
	if err != nil {
		log.Printf("[translate] building prompt failed: %v", err)
		return
	}

	text, err := s.client.generate(ctx, prompt)
	if err != nil {
		log.Printf("[translate] batch of %d failed: %v", len(chunk), err)
		return
	}

	parsed, err := parseBatchResponse(text)
	if err != nil {
		log.Printf("[translate] unparseable batch response: %v", err)
		return
	}

	for id, entry := range parsed {
		if entry.Title == "" && entry.Overview == "" {
			continue
		}
		if err := s.Store(id, entry); err != nil {
			log.Printf("[translate] caching %s failed: %v", id, err)
		}
		out[id] = entry
	}
}

// batchItem is the compact shape embedded in the prompt; short keys keep the
// request small.
type batchItem struct {
	ID       string `json:"id"`
	Title    string `json:"t"`
	Overview string `json:"o"`
}

func (s *Service) buildPrompt(chunk []models.TranslationInput) (string, error) {
	limit := s.overviewLimit
	if limit <= 0 {
		limit = 300
	}

	list := make([]batchItem, 0, len(chunk))
	for _, item := range chunk {
		list = append(list, batchItem{
			ID:       item.ID,
			Title:    item.Title,
			Overview: truncate(item.Overview, limit),
		})
	}

	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Translate the following movie data into Georgian.
Return ONLY a JSON object: {"ID": {"title": "Georgian Title", "overview": "Georgian Plot"}}.
Data: %s`, data), nil
}

func parseBatchResponse(text string) (map[string]models.TranslationEntry, error) {
	text = strings.TrimSpace(text)
	// Models occasionally wrap JSON output in a fenced code block
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, fmt.Errorf("empty response body")
	}

	var parsed map[string]models.TranslationEntry
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// truncate bounds a string to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
