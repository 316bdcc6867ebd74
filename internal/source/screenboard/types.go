package screenboard

// SearchResponse is the wire shape of the search endpoint.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
	Total   int         `json:"total"`
}

// SearchHit is one search result row.
type SearchHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// TitleResponse is the wire shape of the title detail endpoint.
type TitleResponse struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Rating string   `json:"rating"` // "8.8" on a 0-10 scale, "N/A" when unrated
	Poster string   `json:"poster,omitempty"`
	Genres []string `json:"genres,omitempty"`
}
