package catalog

import (
	"strings"

	"kinoveli/config"
	"kinoveli/models"
)

// adultGenreLabel is the only UI genre that flips the provider's adult flag.
const adultGenreLabel = "ეროტიკული (18+)"

// genreMap translates the Georgian UI genre labels to TMDB genre IDs. Several
// labels intentionally share a provider genre (e.g. both "მისტიკა" and
// "დეტექტივი" map to Mystery), so mapped IDs must be deduplicated.
var genreMap = map[string]int{
	"მძაფრსიუჟეტიანი":   28,
	"სათავგადასავლო":    12,
	"ანიმაციური":        16,
	"ბიოგრაფიული":       36,
	"კომედია":           35,
	"კრიმინალური":       80,
	"დოკუმენტური":       99,
	"დრამა":             18,
	"საოჯახო":           10751,
	"ფენტეზი":           14,
	"ისტორიული":         36,
	"საშინელებათა":      27,
	"მუსიკალური":        10402,
	"დეტექტივი":         9648,
	"მელოდრამა":         10749,
	"ფანტასტიკა":        878,
	"თრილერი":           53,
	"საომარი":           10752,
	"ვესტერნი":          37,
	"მისტიკა":           9648,
	"ანიმე":             16,
	"ფსიქოლოგიური":      53,
	"სუპერგმირული":      28,
	"კიბერპანკი":        878,
	"სლეშერი":           27,
	"პოსტ-აპოკალიფსური": 878,
	adultGenreLabel:     10749,
}

// GenreLabels returns the UI genre labels in display order.
func GenreLabels() []string {
	return []string{
		"მძაფრსიუჟეტიანი", "სათავგადასავლო", "ანიმაციური", "ბიოგრაფიული", "კომედია",
		"კრიმინალური", "დოკუმენტური", "დრამა", "საოჯახო", "ფენტეზი", "ისტორიული",
		"საშინელებათა", "მუსიკალური", "დეტექტივი", "მელოდრამა", "ფანტასტიკა",
		"თრილერი", "საომარი", "ვესტერნი", adultGenreLabel, "ანიმე", "ფსიქოლოგიური",
		"სუპერგმირული", "კიბერპანკი", "სლეშერი", "პოსტ-აპოკალიფსური", "მისტიკა",
	}
}

// Countries returns the selectable origin countries (ISO code -> Georgian name).
func Countries() map[string]string {
	return map[string]string{
		"US": "აშშ",
		"FR": "საფრანგეთი",
		"IT": "იტალია",
		"GB": "დიდი ბრიტანეთი",
		"GE": "საქართველო",
		"DE": "გერმანია",
		"ES": "ესპანეთი",
		"JP": "იაპონია",
		"KR": "სამხრეთ კორეა",
		"TR": "თურქეთი",
		"IN": "ინდოეთი",
		"BR": "ბრაზილია",
		"RU": "რუსეთი",
		"CN": "ჩინეთი",
	}
}

const defaultSortKey = "popularity.desc"

var validSortKeys = map[string]bool{
	"popularity.desc":           true,
	"popularity.asc":            true,
	"vote_average.desc":         true,
	"vote_average.asc":          true,
	"primary_release_date.desc": true,
	"primary_release_date.asc":  true,
	"revenue.desc":              true,
}

// SortKeys returns the accepted sort keys for discovery requests.
func SortKeys() []string {
	return []string{
		"popularity.desc", "popularity.asc",
		"vote_average.desc", "vote_average.asc",
		"primary_release_date.desc", "primary_release_date.asc",
		"revenue.desc",
	}
}

// normalizedQuery is the validated query descriptor fed into the dispatcher.
type normalizedQuery struct {
	searchQuery  string
	genreIDs     []int
	countries    []string
	yearFrom     int
	yearTo       int
	minRating    float64
	sortBy       string
	page         int
	includeAdult bool
}

// normalizeQuery constrains a FilterQuery to the catalog bounds and maps genre
// labels to provider IDs. Pure transform: unmapped labels are dropped, never
// rejected.
func normalizeQuery(q models.FilterQuery, cfg config.CatalogSettings) normalizedQuery {
	nq := normalizedQuery{
		searchQuery: strings.TrimSpace(q.SearchQuery),
		yearFrom:    q.YearFrom,
		yearTo:      q.YearTo,
		minRating:   q.MinRating,
		sortBy:      strings.TrimSpace(q.SortBy),
		page:        q.Page,
	}

	if nq.minRating < 0 {
		nq.minRating = 0
	}
	if nq.minRating > 10 {
		nq.minRating = 10
	}

	if nq.yearFrom < cfg.YearMin {
		nq.yearFrom = cfg.YearMin
	}
	if nq.yearTo > cfg.YearMax || nq.yearTo == 0 {
		nq.yearTo = cfg.YearMax
	}
	if nq.yearFrom > nq.yearTo {
		nq.yearFrom, nq.yearTo = nq.yearTo, nq.yearFrom
	}

	if nq.page < 1 {
		nq.page = 1
	}
	if !validSortKeys[nq.sortBy] {
		nq.sortBy = defaultSortKey
	}

	nq.genreIDs = mapGenreLabels(q.Genres)
	nq.includeAdult = containsLabel(q.Genres, adultGenreLabel)

	seenCountry := make(map[string]bool)
	for _, c := range q.Countries {
		code := strings.ToUpper(strings.TrimSpace(c))
		if code == "" || seenCountry[code] {
			continue
		}
		seenCountry[code] = true
		nq.countries = append(nq.countries, code)
	}

	return nq
}

// mapGenreLabels resolves UI labels to provider genre IDs, dropping unknown
// labels and deduplicating the result while preserving first-seen order.
func mapGenreLabels(labels []string) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0, len(labels))
	for _, label := range labels {
		id, ok := genreMap[strings.TrimSpace(label)]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}
