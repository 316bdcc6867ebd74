package academy

// FilmSearchResponse is the shape of the film search endpoint's payload.
type FilmSearchResponse struct {
	Films []FilmHit `json:"films"`
}

// FilmHit is a single film entry in the awards database.
type FilmHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// NominationsResponse is the per-film awards payload.
type NominationsResponse struct {
	Film        string           `json:"film"`
	Nominations []NominationItem `json:"nominations"`
}

// NominationItem is one nomination row as the database reports it.
type NominationItem struct {
	Category  string `json:"category"`
	Statement string `json:"statement,omitempty"`
	Winner    bool   `json:"winner"`
}
