package domain

// Signal identifies which similarity model produced a candidate.
type Signal string

const (
	// SignalContent marks candidates from the text-profile model ("Similar Movies").
	SignalContent Signal = "similar"
	// SignalCollaborative marks candidates from the taste-factor model ("Viewers Also Liked").
	SignalCollaborative Signal = "also_liked"
)

// Candidate is a raw similarity hit, produced fresh per query and never persisted.
type Candidate struct {
	TMDBID int64   `json:"tmdb_id"`
	Score  float64 `json:"score"`
}

// BlendedCandidate carries a combined score plus every signal that contributed to it.
type BlendedCandidate struct {
	TMDBID  int64    `json:"tmdb_id"`
	Score   float64  `json:"score"`
	Signals []Signal `json:"signals"`
}

// RailItem is an enriched candidate as it appears in one recommendation rail.
type RailItem struct {
	Movie
	Score  float64 `json:"score"`
	Signal Signal  `json:"rec_type"`
}

// SimilarResult holds both rails for one reference movie.
type SimilarResult struct {
	MovieID          int64      `json:"movie_id"`
	SimilarMovies    []RailItem `json:"similar_movies"`
	ViewersAlsoLiked []RailItem `json:"viewers_also_liked"`
	CacheHit         bool       `json:"-"`
}

type ResultMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}
