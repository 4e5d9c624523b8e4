// Package seeds populates Postgres with a miniature MovieLens-style dataset
// for local development, so the trainer can run end to end without the full
// 25M-rating dump.
package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	seedUsers  = 60
	seedMovies = 80
	seedRows   = 2500
)

func Setup(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))

	logger.Info().Msg("seed: creating tables")
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ratings (
			user_id  BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			rating   DOUBLE PRECISION NOT NULL
		);
		CREATE TABLE IF NOT EXISTS links (
			movie_id BIGINT PRIMARY KEY,
			tmdb_id  BIGINT
		);
	`); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Msg("seed: truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE ratings, links`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	logger.Info().Msg("seed: inserting links")
	if err := seedLinks(ctx, pool); err != nil {
		return fmt.Errorf("seed links: %w", err)
	}

	logger.Info().Msg("seed: inserting ratings")
	if err := seedRatings(ctx, pool, rng); err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}

	logger.Info().Msg("seed: complete")
	return nil
}

// seedLinks bridges most movies to a fake TMDB namespace. A handful stay
// unmapped so the bridge's partial coverage shows up in development too.
func seedLinks(ctx context.Context, pool *pgxpool.Pool) error {
	rows := []string{}
	args := []any{}

	for movieID := int64(1); movieID <= seedMovies; movieID++ {
		if movieID%10 == 0 {
			continue // unmapped on purpose
		}
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, movieID, movieID+100000)
	}

	query := "INSERT INTO links (movie_id, tmdb_id) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

// seedRatings draws user/movie pairs with a power-law skew so a few movies
// are heavily rated and the tail is sparse, then rates them around one of two
// taste clusters.
func seedRatings(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand) error {
	seen := make(map[[2]int64]bool)

	rows := []string{}
	args := []any{}

	for i := 0; i < seedRows; i++ {
		userID := int64(math.Ceil(math.Pow(rng.Float64(), 1.2) * seedUsers))
		userID = max(1, min(userID, seedUsers))

		movieID := int64(math.Ceil(math.Pow(rng.Float64(), 1.6) * seedMovies))
		movieID = max(1, min(movieID, seedMovies))

		key := [2]int64{userID, movieID}
		if seen[key] {
			continue
		}
		seen[key] = true

		rating := clusterRating(rng, userID, movieID)

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, userID, movieID, rating)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO ratings (user_id, movie_id, rating) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

// clusterRating gives users with even IDs a taste for even movies and odd
// users for odd movies, with noise. Enough co-rating structure for the factor
// model to find.
func clusterRating(rng *rand.Rand, userID, movieID int64) float64 {
	base := 2.0
	if userID%2 == movieID%2 {
		base = 4.0
	}
	rating := base + rng.Float64()*1.5 - 0.5
	rating = math.Round(rating*2) / 2 // half-star steps
	return max(0.5, min(rating, 5.0))
}
