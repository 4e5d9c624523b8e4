package repository

import (
	"context"
	"fmt"

	"github.com/Mehdibargach/watchnext/internal/factor"
)

// LoadRatings reads every interaction record. A scan failure is fatal to the
// caller: training aborts on malformed rows rather than fit on bad data.
func (r *Repository) LoadRatings(ctx context.Context) ([]factor.Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, movie_id, rating FROM ratings`,
	)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []factor.Rating
	for rows.Next() {
		var rec factor.Rating
		if err := rows.Scan(&rec.UserID, &rec.MovieID, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// CountRatingsByMovie returns per-movie interaction counts, used to pick the
// most-rated movies for the content corpus.
func (r *Repository) CountRatingsByMovie(ctx context.Context) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT movie_id, COUNT(*) FROM ratings GROUP BY movie_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("count ratings by movie: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var movieID int64
		var count int
		if err := rows.Scan(&movieID, &count); err != nil {
			return nil, fmt.Errorf("scan rating count: %w", err)
		}
		counts[movieID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating counts: %w", err)
	}
	return counts, nil
}
