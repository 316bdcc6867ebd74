package tomatometer

import "encoding/json"

// SearchResponse is the shape of the search endpoint's JSON payload.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// SearchItem is a single hit on the search page.
type SearchItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Year  string `json:"year,omitempty"`
}

// ldMovie is the subset of the detail page's JSON-LD block we care about.
// Newer pages drop the scorecard attributes and only carry this.
type ldMovie struct {
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	Genre           stringList `json:"genre"`
	DateCreated     string     `json:"dateCreated"`
	Image           string     `json:"image"`
	AggregateRating struct {
		RatingValue json.Number `json:"ratingValue"`
	} `json:"aggregateRating"`
	Audience struct {
		RatingValue json.Number `json:"ratingValue"`
	} `json:"audience"`
}

// stringList accepts either a bare string or an array of strings, both of
// which appear in the wild for the genre field.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one != "" {
		*s = []string{one}
	}
	return nil
}
