package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"kinoveli/config"
	"kinoveli/models"
	catalogpkg "kinoveli/services/catalog"
)

type catalogService interface {
	Fetch(ctx context.Context, q models.FilterQuery) (models.FetchResponse, error)
}

var _ catalogService = (*catalogpkg.Service)(nil)

// MoviesHandler serves the discovery pipeline over HTTP.
type MoviesHandler struct {
	Service  catalogService
	Catalog  config.CatalogSettings
	validate *validator.Validate
}

func NewMoviesHandler(s catalogService, catalogCfg config.CatalogSettings) *MoviesHandler {
	return &MoviesHandler{
		Service:  s,
		Catalog:  catalogCfg,
		validate: validator.New(),
	}
}

// Fetch handles GET /api/movies.
func (h *MoviesHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	q, err := parseFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter query: "+err.Error())
		return
	}

	resp, err := h.Service.Fetch(r.Context(), q)
	if err != nil {
		log.Printf("[movies] fetch failed: %v", err)
		writeError(w, http.StatusBadGateway, "movie provider unavailable")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// filtersResponse mirrors the static tables the search form is built from.
type filtersResponse struct {
	Genres    []string          `json:"genres"`
	Countries map[string]string `json:"countries"`
	SortKeys  []string          `json:"sortKeys"`
	YearMin   int               `json:"yearMin"`
	YearMax   int               `json:"yearMax"`
}

// Filters handles GET /api/catalog/filters.
func (h *MoviesHandler) Filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filtersResponse{
		Genres:    catalogpkg.GenreLabels(),
		Countries: catalogpkg.Countries(),
		SortKeys:  catalogpkg.SortKeys(),
		YearMin:   h.Catalog.YearMin,
		YearMax:   h.Catalog.YearMax,
	})
}

func parseFilterQuery(r *http.Request) (models.FilterQuery, error) {
	values := r.URL.Query()

	q := models.FilterQuery{
		SearchQuery: strings.TrimSpace(values.Get("searchQuery")),
		Genres:      splitMulti(values["genres"]),
		Countries:   splitMulti(values["countries"]),
		SortBy:      strings.TrimSpace(values.Get("sortBy")),
	}

	var err error
	if q.YearFrom, err = parseIntParam(values.Get("yearFrom")); err != nil {
		return q, err
	}
	if q.YearTo, err = parseIntParam(values.Get("yearTo")); err != nil {
		return q, err
	}
	if q.Page, err = parseIntParam(values.Get("page")); err != nil {
		return q, err
	}
	if raw := strings.TrimSpace(values.Get("minRating")); raw != "" {
		q.MinRating, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, err
		}
	}

	return q, nil
}

// splitMulti accepts both repeated params and comma-separated values.
func splitMulti(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func parseIntParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
