package models

import "time"

// Favorite is a user-saved movie. A small display snapshot is stored alongside
// the ID so the favorites list can render without re-querying the provider.
type Favorite struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	PosterURL string    `json:"posterUrl,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// FavoriteUpsert is the payload accepted when adding a favorite.
type FavoriteUpsert struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	PosterURL string `json:"posterUrl"`
}
