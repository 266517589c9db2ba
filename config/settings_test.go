package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	s, err := m.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Server.Port != 8080 {
		t.Fatalf("unexpected default port %d", s.Server.Port)
	}
	if s.TMDB.Language != "ka-GE" {
		t.Fatalf("unexpected default language %q", s.TMDB.Language)
	}
	if s.Catalog.MaxTotalPages != 500 {
		t.Fatalf("unexpected default page cap %d", s.Catalog.MaxTotalPages)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file written: %v", err)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"server":{"host":"127.0.0.1","port":9090},"tmdb":{"apiKey":"k"}}`), 0o644); err != nil {
		t.Fatalf("seed settings failed: %v", err)
	}

	s, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Server.Port != 9090 || s.TMDB.APIKey != "k" {
		t.Fatalf("explicit values lost: %+v", s)
	}
	if s.TMDB.Language != "ka-GE" || s.Catalog.TranslateChunk != 20 {
		t.Fatalf("defaults not backfilled: %+v", s)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	s := DefaultSettings()
	s.TMDB.APIKey = "secret"
	if err := m.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.TMDB.APIKey != "secret" {
		t.Fatalf("round-trip lost data: %+v", loaded)
	}
}
