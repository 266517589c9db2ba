package models

// FilterQuery describes one user-initiated search against the movie catalog.
// Genres and countries are UI-level values: Georgian genre labels and ISO 3166-1
// country codes. Zero-valued fields fall back to catalog defaults during
// normalization.
type FilterQuery struct {
	SearchQuery string   `json:"searchQuery" validate:"max=256"`
	Genres      []string `json:"genres" validate:"max=32,dive,max=64"`
	Countries   []string `json:"countries" validate:"max=32,dive,len=2"`
	YearFrom    int      `json:"yearFrom" validate:"min=0"`
	YearTo      int      `json:"yearTo" validate:"min=0"`
	MinRating   float64  `json:"minRating" validate:"min=0,max=10"`
	SortBy      string   `json:"sortBy"`
	Page        int      `json:"page" validate:"min=0,max=500"`
}

// MovieResult is one fully assembled catalog entry: the primary listing record
// merged with detail data and, when available, cached Georgian translations.
type MovieResult struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	OriginalTitle   string   `json:"originalTitle,omitempty"`
	Year            int      `json:"year"`
	PrimaryRating   float64  `json:"tmdbRating"`
	SecondaryRating float64  `json:"imdbRating,omitempty"`
	Genres          []string `json:"genres"`
	Description     string   `json:"description"`
	Director        string   `json:"director"`
	Cast            []string `json:"cast"`
	PosterURL       string   `json:"posterUrl"`
	TrailerURL      string   `json:"trailerUrl,omitempty"`
	IMDBURL         string   `json:"imdbUrl,omitempty"`
}

// FetchResponse is the result of one pipeline run. Sequence increases
// monotonically per run so callers can discard completions from a search that
// has since been superseded.
type FetchResponse struct {
	Movies     []MovieResult `json:"movies"`
	TotalPages int           `json:"totalPages"`
	Sequence   uint64        `json:"sequence"`
}

// TranslationEntry holds the Georgian title and synopsis for one movie.
// Entries are cached forever under "c_<id>" once translated.
type TranslationEntry struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
}

// TranslationInput is one item submitted for batch translation: the provider
// ID plus the native-language text to translate.
type TranslationInput struct {
	ID       string
	Title    string
	Overview string
}
