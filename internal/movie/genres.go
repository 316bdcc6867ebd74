package movie

import (
	"regexp"
	"strings"
)

// genreAliases folds the per-source genre vocabularies onto one canonical
// set. Identity entries are listed so membership doubles as a known-genre
// check.
var genreAliases = map[string]string{
	"Action":             "Action",
	"Adventure":          "Adventure",
	"Animation":          "Animation",
	"Anime":              "Anime",
	"Biography":          "Biography",
	"Comedy":             "Comedy",
	"Crime":              "Crime",
	"Documentary":        "Documentary",
	"Drama":              "Drama",
	"Family":             "Family",
	"Fantasy":            "Fantasy",
	"History":            "History",
	"Horror":             "Horror",
	"Kids":               "Kids & Family",
	"Kids & Family":      "Kids & Family",
	"LGBTQ+":             "LGBTQ+",
	"Music":              "Music",
	"Musical":            "Musical",
	"Mystery":            "Mystery & Thriller",
	"Mystery & Thriller": "Mystery & Thriller",
	"Romance":            "Romance",
	"Sci-Fi":             "Sci-Fi",
	"Science Fiction":    "Sci-Fi",
	"Short":              "Short",
	"Sports":             "Sports",
	"Thriller":           "Mystery & Thriller",
	"War":                "War",
	"Western":            "Western",
}

// Qualifier words some sources prepend ("Epic Western", "Psychological
// Thriller") that carry no taxonomy meaning.
var genreQualifiers = regexp.MustCompile(`(?i)\b(epic|psychological)\b`)

// NormalizeGenre canonicalizes one raw genre string. Compound labels split
// on '&' or ',' and each part maps independently, so "Mystery & Thriller"
// and "Thriller" land on the same canonical name. Unknown parts pass
// through unchanged.
func NormalizeGenre(raw string) []string {
	if raw == "" {
		return nil
	}
	stripped := genreQualifiers.ReplaceAllString(raw, "")
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.FieldsFunc(stripped, func(r rune) bool {
		return r == '&' || r == ','
	}) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if canonical, ok := genreAliases[part]; ok {
			part = canonical
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// CanonicalGenres merges per-source genre lists into a deduplicated
// canonical union, preserving first-seen order.
func CanonicalGenres(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, raw := range list {
			for _, g := range NormalizeGenre(raw) {
				if _, ok := seen[g]; ok {
					continue
				}
				seen[g] = struct{}{}
				out = append(out, g)
			}
		}
	}
	return out
}
