// Package repository reads the training datasets out of Postgres: the raw
// MovieLens-style ratings and the links join table bridging MovieLens IDs to
// TMDB IDs. Serving never touches the database; these loaders run only inside
// the offline training job.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
