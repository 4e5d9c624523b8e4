// The train command is the offline model-building job. It reads the ratings
// and links tables from Postgres, fetches text profiles from TMDB for the
// most-rated movies, fits the content vector space and the latent factor
// model, and writes the versioned artifact set the server loads at startup.
//
// Run with the single argument "seed" to populate a miniature development
// dataset first:
//
//	watchnext-train seed
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Mehdibargach/watchnext/internal/artifact"
	"github.com/Mehdibargach/watchnext/internal/catalog"
	"github.com/Mehdibargach/watchnext/internal/config"
	"github.com/Mehdibargach/watchnext/internal/corpus"
	"github.com/Mehdibargach/watchnext/internal/factor"
	"github.com/Mehdibargach/watchnext/internal/logging"
	"github.com/Mehdibargach/watchnext/internal/recommend"
	"github.com/Mehdibargach/watchnext/internal/repository"
	"github.com/Mehdibargach/watchnext/internal/vectorspace"
	"github.com/Mehdibargach/watchnext/seeds"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("training failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	start := time.Now()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = cfg.DBPoolSize
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		return err
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seeds.Setup(ctx, pool, logger); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	repo := repository.New(pool)

	// ------------ Load datasets ---------------
	links, err := repo.LoadLinks(ctx)
	if err != nil {
		return err
	}
	bridge, err := factor.NewBridge(links)
	if err != nil {
		return err
	}
	logger.Info().Int("links", len(links)).Msg("id bridge built")

	ratings, err := repo.LoadRatings(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("ratings", len(ratings)).Msg("ratings loaded")

	// ------------ Content corpus ---------------
	corpusIDs, err := selectCorpus(ctx, repo, bridge, cfg.CorpusSize)
	if err != nil {
		return err
	}
	logger.Info().Int("movies", len(corpusIDs)).Msg("content corpus selected")

	profiles, err := fetchProfiles(ctx, cfg, logger, corpusIDs)
	if err != nil {
		return err
	}

	content, err := fitContent(cfg, logger, corpusIDs, profiles)
	if err != nil {
		return err
	}

	// ------------ Latent factors ---------------
	matrix, err := factor.Assemble(ratings, cfg.MinRatings)
	if err != nil {
		return err
	}
	logger.Info().
		Int("users", matrix.Users()).
		Int("movies", matrix.Movies()).
		Int("kept_ratings", matrix.Kept()).
		Float64("global_mean", matrix.GlobalMean).
		Msg("rating matrix assembled")

	collab, err := factor.Decompose(matrix, cfg.Factors, bridge)
	if err != nil {
		return err
	}
	logger.Info().Int("factors", collab.K).Msg("latent factor model trained")

	// ------------ Persist ---------------
	set := &artifact.Set{
		SchemaVersion: artifact.SchemaVersion,
		TrainedAt:     time.Now().UTC(),
		Content:       content,
		Collaborative: collab,
	}
	if err := artifact.Save(cfg.ModelPath, set); err != nil {
		return err
	}
	logger.Info().
		Str("path", cfg.ModelPath).
		Dur("elapsed", time.Since(start)).
		Msg("artifact set written")

	logSanity(cfg, logger, set)
	return nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

// selectCorpus picks the most-rated movies that have a TMDB mapping; the
// content corpus covers the titles people actually query for.
func selectCorpus(ctx context.Context, repo *repository.Repository, bridge *factor.Bridge, size int) ([]int64, error) {
	counts, err := repo.CountRatingsByMovie(ctx)
	if err != nil {
		return nil, err
	}

	mlIDs := make([]int64, 0, len(counts))
	for id := range counts {
		mlIDs = append(mlIDs, id)
	}
	sort.Slice(mlIDs, func(i, j int) bool {
		if counts[mlIDs[i]] != counts[mlIDs[j]] {
			return counts[mlIDs[i]] > counts[mlIDs[j]]
		}
		return mlIDs[i] < mlIDs[j]
	})

	var tmdbIDs []int64
	for _, mlID := range mlIDs {
		if len(tmdbIDs) == size {
			break
		}
		if tmdbID, ok := bridge.TMDB(mlID); ok {
			tmdbIDs = append(tmdbIDs, tmdbID)
		}
	}
	if len(tmdbIDs) == 0 {
		return nil, fmt.Errorf("no rated movie has a TMDB mapping")
	}
	return tmdbIDs, nil
}

// fetchProfiles pulls synopsis, genres and cast for every corpus movie with
// bounded concurrency, reusing the on-disk fetch cache between runs.
func fetchProfiles(ctx context.Context, cfg *config.Config, logger zerolog.Logger, tmdbIDs []int64) (map[int64]corpus.Doc, error) {
	cached, err := loadFetchCache(cfg.FetchCachePath)
	if err != nil {
		logger.Warn().Err(err).Msg("fetch cache unreadable, starting cold")
		cached = make(map[int64]corpus.Doc)
	}

	var toFetch []int64
	for _, id := range tmdbIDs {
		if _, ok := cached[id]; !ok {
			toFetch = append(toFetch, id)
		}
	}
	logger.Info().Int("cached", len(cached)).Int("to_fetch", len(toFetch)).Msg("fetching TMDB profiles")

	client := catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBImageBaseURL, cfg.TMDBAPIKey, logger)

	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make(chan corpus.Doc, len(toFetch))
	)
	g.SetLimit(cfg.FetchConcurrency)
	for _, id := range toFetch {
		id := id
		g.Go(func() error {
			movie, err := client.FetchWithCredits(gctx, id)
			if err != nil {
				// Missing metadata for one movie is not fatal; it just
				// stays out of the corpus.
				logger.Warn().Int64("tmdb_id", id).Err(err).Msg("profile fetch failed")
				return nil
			}
			results <- corpus.Doc{
				TMDBID:   movie.TMDBID,
				Title:    movie.Title,
				Overview: movie.Overview,
				Genres:   movie.Genres,
				Cast:     movie.Cast,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	close(results)
	for doc := range results {
		cached[doc.TMDBID] = doc
	}

	if err := saveFetchCache(cfg.FetchCachePath, cached); err != nil {
		logger.Warn().Err(err).Msg("fetch cache not saved")
	}
	return cached, nil
}

func fitContent(cfg *config.Config, logger zerolog.Logger, tmdbIDs []int64, profiles map[int64]corpus.Doc) (*vectorspace.Model, error) {
	builder := corpus.NewBuilder(cfg.GenreRepeat)

	var docs []vectorspace.Document
	for _, id := range tmdbIDs {
		doc, ok := profiles[id]
		if !ok {
			continue
		}
		text := builder.Profile(doc)
		if text == "" {
			continue // no synopsis, no profile
		}
		docs = append(docs, vectorspace.Document{TMDBID: id, Text: text})
	}
	logger.Info().Int("profiles", len(docs)).Msg("text profiles built")

	content, err := vectorspace.Fit(docs, vectorspace.Options{
		MaxFeatures: cfg.MaxFeatures,
		MinDocFreq:  cfg.MinDocFreq,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("movies", len(content.IDs)).
		Int("vocabulary", len(content.Vocabulary)).
		Msg("content vector space fitted")
	return content, nil
}

// logSanity runs one hybrid blend over the freshly trained models so a bad
// training run shows up in the log, not in production.
func logSanity(cfg *config.Config, logger zerolog.Logger, set *artifact.Set) {
	if len(set.Content.IDs) == 0 {
		return
	}
	probe := set.Content.IDs[0]

	engine := recommend.NewEngine(set, nil, recommend.Options{
		ContentMinScore: cfg.ContentMinScore,
		CollabMinScore:  cfg.CollabMinScore,
		Alpha:           cfg.BlendAlpha,
	}, logger)

	blended, err := engine.Evaluate(probe, 5)
	if err != nil {
		logger.Warn().Err(err).Msg("sanity blend failed")
		return
	}
	for _, b := range blended {
		logger.Info().
			Int64("probe", probe).
			Int64("tmdb_id", b.TMDBID).
			Float64("score", b.Score).
			Interface("signals", b.Signals).
			Msg("sanity blend")
	}
}

func loadFetchCache(path string) (map[int64]corpus.Doc, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[int64]corpus.Doc), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeFetchCache(data)
}

func saveFetchCache(path string, cache map[int64]corpus.Doc) error {
	data, err := encodeFetchCache(cache)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cacheDir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
