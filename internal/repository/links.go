package repository

import (
	"context"
	"fmt"

	"github.com/Mehdibargach/watchnext/internal/factor"
)

// LoadLinks reads the MovieLens -> TMDB join table. Rows without a TMDB
// counterpart are excluded at the SQL level; the bridge is a partial mapping
// by design.
func (r *Repository) LoadLinks(ctx context.Context) ([]factor.Link, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT movie_id, tmdb_id FROM links WHERE tmdb_id IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []factor.Link
	for rows.Next() {
		var l factor.Link
		if err := rows.Scan(&l.MovieID, &l.TMDBID); err != nil {
			return nil, fmt.Errorf("scan link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}
