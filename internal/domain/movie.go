package domain

// Movie is the display metadata for a catalog entry, keyed by its TMDB ID.
type Movie struct {
	TMDBID      int64    `json:"id"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	Runtime     int      `json:"runtime"`
	ReleaseYear string   `json:"release_year"`
	Overview    string   `json:"overview"`
	PosterURL   string   `json:"poster_url,omitempty"`
	Cast        []string `json:"cast,omitempty"`
}
