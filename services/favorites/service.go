// Package favorites manages the user's saved movie list, persisted as one
// serialized entry in the local key-value store.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"kinoveli/internal/database"
	"kinoveli/models"
)

const storeKey = "favorites"

var (
	ErrStoreRequired = errors.New("favorites store not provided")
	ErrIDRequired    = errors.New("id is required")
)

// Service manages persistence and retrieval of favorite movies.
type Service struct {
	mu    sync.RWMutex
	store database.Store
	items map[string]models.Favorite
}

// NewService loads the favorites list from the provided store.
func NewService(store database.Store) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	svc := &Service{
		store: store,
		items: make(map[string]models.Favorite),
	}

	raw, ok, err := store.Get(storeKey)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if ok {
		var list []models.Favorite
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("decode favorites: %w", err)
		}
		for _, f := range list {
			svc.items[f.ID] = f
		}
	}

	return svc, nil
}

// List returns all favorites, most recently added first.
func (s *Service) List() []models.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Favorite, 0, len(s.items))
	for _, f := range s.items {
		items = append(items, f)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].AddedAt.After(items[j].AddedAt)
	})

	return items
}

// Add stores a favorite, keeping the original AddedAt when it already exists.
func (s *Service) Add(upsert models.FavoriteUpsert) (models.Favorite, error) {
	id := strings.TrimSpace(upsert.ID)
	if id == "" {
		return models.Favorite{}, ErrIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fav := models.Favorite{
		ID:        id,
		Title:     strings.TrimSpace(upsert.Title),
		Year:      upsert.Year,
		PosterURL: strings.TrimSpace(upsert.PosterURL),
		AddedAt:   time.Now().UTC(),
	}
	if existing, ok := s.items[id]; ok {
		fav.AddedAt = existing.AddedAt
	}
	s.items[id] = fav

	if err := s.persistLocked(); err != nil {
		return models.Favorite{}, err
	}
	return fav, nil
}

// Remove deletes a favorite by ID. Removing an absent ID is not an error.
func (s *Service) Remove(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	return s.persistLocked()
}

// IsFavorite reports whether the ID is in the list.
func (s *Service) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

func (s *Service) persistLocked() error {
	list := make([]models.Favorite, 0, len(s.items))
	for _, f := range s.items {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.store.Put(storeKey, string(data)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}
