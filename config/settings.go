package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server     ServerSettings     `json:"server"`
	TMDB       TMDBSettings       `json:"tmdb"`
	Translator TranslatorSettings `json:"translator"`
	Ratings    RatingsSettings    `json:"ratings"`
	Catalog    CatalogSettings    `json:"catalog"`
	Database   DatabaseSettings   `json:"database"`
	Log        LogConfig          `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// TMDBSettings configures the movie metadata provider.
type TMDBSettings struct {
	APIKey   string `json:"apiKey"`
	Language string `json:"language"` // locale for titles/overviews, e.g. "ka-GE"
}

// TranslatorSettings configures the Gemini translation client.
type TranslatorSettings struct {
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	Enabled bool   `json:"enabled"`
}

// RatingsSettings configures the optional MDBList secondary rating source.
type RatingsSettings struct {
	MDBListAPIKey string `json:"mdblistApiKey"`
	Enabled       bool   `json:"enabled"`
}

// CatalogSettings bounds the discovery pipeline.
type CatalogSettings struct {
	YearMin           int `json:"yearMin"`
	YearMax           int `json:"yearMax"`
	MaxTotalPages     int `json:"maxTotalPages"`
	DetailWorkers     int `json:"detailWorkers"`
	DetailTimeoutSec  int `json:"detailTimeoutSec"`
	TranslateChunk    int `json:"translateChunk"`
	OverviewCharLimit int `json:"overviewCharLimit"`
}

// DatabaseSettings defines where the local key-value store lives.
type DatabaseSettings struct {
	Path string `json:"path"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8080,
		},
		TMDB: TMDBSettings{
			Language: "ka-GE",
		},
		Translator: TranslatorSettings{
			Model:   "gemini-2.0-flash",
			Enabled: true,
		},
		Catalog: CatalogSettings{
			YearMin:           1950,
			YearMax:           2030,
			MaxTotalPages:     500,
			DetailWorkers:     4,
			DetailTimeoutSec:  10,
			TranslateChunk:    20,
			OverviewCharLimit: 300,
		},
		Database: DatabaseSettings{
			Path: filepath.Join("cache", "kinoveli.db"),
		},
		Log: LogConfig{
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults for configs that predate newer settings
	defaults := DefaultSettings()
	if strings.TrimSpace(s.TMDB.Language) == "" {
		s.TMDB.Language = defaults.TMDB.Language
	}
	if strings.TrimSpace(s.Translator.Model) == "" {
		s.Translator.Model = defaults.Translator.Model
	}
	if s.Catalog.YearMin == 0 {
		s.Catalog.YearMin = defaults.Catalog.YearMin
	}
	if s.Catalog.YearMax == 0 {
		s.Catalog.YearMax = defaults.Catalog.YearMax
	}
	if s.Catalog.MaxTotalPages <= 0 {
		s.Catalog.MaxTotalPages = defaults.Catalog.MaxTotalPages
	}
	if s.Catalog.DetailWorkers <= 0 {
		s.Catalog.DetailWorkers = defaults.Catalog.DetailWorkers
	}
	if s.Catalog.DetailTimeoutSec <= 0 {
		s.Catalog.DetailTimeoutSec = defaults.Catalog.DetailTimeoutSec
	}
	if s.Catalog.TranslateChunk <= 0 {
		s.Catalog.TranslateChunk = defaults.Catalog.TranslateChunk
	}
	if s.Catalog.OverviewCharLimit <= 0 {
		s.Catalog.OverviewCharLimit = defaults.Catalog.OverviewCharLimit
	}
	if strings.TrimSpace(s.Database.Path) == "" {
		s.Database.Path = defaults.Database.Path
	}

	return s, nil
}

// Save writes settings to disk atomically (write temp file then rename).
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
