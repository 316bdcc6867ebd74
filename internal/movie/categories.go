package movie

import "strings"

// categoryMap translates ceremony-database phrasings onto the canonical
// award taxonomy. Keys are uppercase because that is how the ceremony
// database prints them.
var categoryMap = map[string]string{
	"ACTOR":                          "Best Actor",
	"ACTOR IN A LEADING ROLE":        "Best Actor",
	"ACTOR IN A SUPPORTING ROLE":     "Best Supporting Actor",
	"ACTRESS":                        "Best Actress",
	"ACTRESS IN A LEADING ROLE":      "Best Actress",
	"ACTRESS IN A SUPPORTING ROLE":   "Best Supporting Actress",
	"COSTUME DESIGN":                 "Best Costume Design",
	"DIRECTING":                      "Best Director",
	"FILM EDITING":                   "Best Film Editing",
	"MUSIC (ORIGINAL DRAMATIC SCORE)": "Best Original Score",
	"MUSIC (ORIGINAL SCORE)":         "Best Original Score",
	"MUSIC (ORIGINAL SONG)":          "Best Original Song",
	"BEST PICTURE":                   "Best Picture",
	"SOUND":                          "Best Sound",
	"SOUND EDITING":                  "Best Sound",
	"SOUND MIXING":                   "Best Sound",
	"VISUAL EFFECTS":                 "Best Visual Effects",
	"ART DIRECTION":                  "Best Production Design",
	"PRODUCTION DESIGN":              "Best Production Design",
	"CINEMATOGRAPHY":                 "Best Cinematography",
	"FOREIGN LANGUAGE FILM":          "Best International Feature",
	"INTERNATIONAL FEATURE FILM":     "Best International Feature",
	"WRITING (SCREENPLAY--BASED ON MATERIAL FROM ANOTHER MEDIUM)": "Best Adapted Screenplay",
	"WRITING (ADAPTED SCREENPLAY)":                                "Best Adapted Screenplay",
	"WRITING (ORIGINAL SCREENPLAY)":                               "Best Original Screenplay",
}

// NormalizeCategory maps a free-text award-category label onto the canonical
// taxonomy. Unmapped labels pass through unchanged so downstream preference
// lookups always have a non-empty key.
func NormalizeCategory(category string) string {
	if category == "" {
		return ""
	}
	if canonical, ok := categoryMap[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return canonical
	}
	return category
}
