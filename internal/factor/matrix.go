// Package factor holds the collaborative similarity model: a sparse user x
// movie rating matrix factorized into dense per-movie taste vectors, plus the
// ID bridge between the MovieLens and TMDB namespaces.
package factor

import (
	"errors"
	"fmt"
)

// Rating is one raw interaction record from the ratings dataset.
type Rating struct {
	UserID  int64
	MovieID int64
	Value   float64
}

// Link is one row of the join table bridging MovieLens and TMDB IDs.
type Link struct {
	MovieID int64
	TMDBID  int64
}

// Bridge translates between the two ID namespaces. Lookups fail closed: an
// unmapped ID reports not-found, it is never guessed.
type Bridge struct {
	MLToTMDB map[int64]int64
	TMDBToML map[int64]int64
}

func NewBridge(links []Link) (*Bridge, error) {
	if len(links) == 0 {
		return nil, errors.New("factor: empty link table")
	}
	b := &Bridge{
		MLToTMDB: make(map[int64]int64, len(links)),
		TMDBToML: make(map[int64]int64, len(links)),
	}
	for _, l := range links {
		if l.MovieID <= 0 || l.TMDBID <= 0 {
			return nil, fmt.Errorf("factor: malformed link row %+v", l)
		}
		b.MLToTMDB[l.MovieID] = l.TMDBID
		b.TMDBToML[l.TMDBID] = l.MovieID
	}
	return b, nil
}

// TMDB translates a MovieLens ID to its TMDB counterpart.
func (b *Bridge) TMDB(mlID int64) (int64, bool) {
	id, ok := b.MLToTMDB[mlID]
	return id, ok
}

// ML translates a TMDB ID to its MovieLens counterpart.
func (b *Bridge) ML(tmdbID int64) (int64, bool) {
	id, ok := b.TMDBToML[tmdbID]
	return id, ok
}

type entry struct {
	row, col int
	val      float64
}

// Matrix is the sparse user x movie rating matrix restricted to movies that
// meet the popularity floor, together with both index namespaces.
type Matrix struct {
	entries  []entry
	nUsers   int
	nMovies  int
	MovieIDs []int64 // column -> MovieLens ID, first-appearance order

	// GlobalMean is the scalar mean of all kept ratings; decomposition
	// centers recorded entries by subtracting it.
	GlobalMean float64
}

// Assemble builds the rating matrix from raw records, dropping movies with
// fewer than minRatings interactions. Sparsely-rated movies would otherwise
// produce noise-dominated factor vectors.
func Assemble(ratings []Rating, minRatings int) (*Matrix, error) {
	if len(ratings) == 0 {
		return nil, errors.New("factor: no ratings to assemble")
	}
	if minRatings < 1 {
		minRatings = 1
	}

	counts := make(map[int64]int)
	for _, r := range ratings {
		if r.UserID <= 0 || r.MovieID <= 0 {
			return nil, fmt.Errorf("factor: malformed rating row %+v", r)
		}
		counts[r.MovieID]++
	}

	userIdx := make(map[int64]int)
	movieIdx := make(map[int64]int)
	var movieIDs []int64

	m := &Matrix{}
	var sum float64
	for _, r := range ratings {
		if counts[r.MovieID] < minRatings {
			continue
		}
		row, ok := userIdx[r.UserID]
		if !ok {
			row = len(userIdx)
			userIdx[r.UserID] = row
		}
		col, ok := movieIdx[r.MovieID]
		if !ok {
			col = len(movieIdx)
			movieIdx[r.MovieID] = col
			movieIDs = append(movieIDs, r.MovieID)
		}
		m.entries = append(m.entries, entry{row: row, col: col, val: r.Value})
		sum += r.Value
	}

	if len(m.entries) == 0 {
		return nil, fmt.Errorf("factor: no movie met the %d-rating floor", minRatings)
	}

	m.nUsers = len(userIdx)
	m.nMovies = len(movieIDs)
	m.MovieIDs = movieIDs
	m.GlobalMean = sum / float64(len(m.entries))
	return m, nil
}

// Users and Movies report the matrix shape.
func (m *Matrix) Users() int  { return m.nUsers }
func (m *Matrix) Movies() int { return m.nMovies }

// Kept reports how many interaction records survived the popularity floor.
func (m *Matrix) Kept() int { return len(m.entries) }
