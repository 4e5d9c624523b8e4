package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/artifact"
	"github.com/Mehdibargach/watchnext/internal/cache"
	"github.com/Mehdibargach/watchnext/internal/catalog"
	"github.com/Mehdibargach/watchnext/internal/config"
	"github.com/Mehdibargach/watchnext/internal/handler"
	"github.com/Mehdibargach/watchnext/internal/logging"
	"github.com/Mehdibargach/watchnext/internal/recommend"
	"github.com/Mehdibargach/watchnext/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		panic(err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// ------------ Model artifacts ---------------
	// A missing or invalid artifact set does not stop the server: queries
	// answer 503 models_not_loaded until a trained set is deployed and the
	// process restarted.
	models, err := artifact.Load(cfg.ModelPath)
	if err != nil {
		logger.Error().Str("path", cfg.ModelPath).Err(err).Msg("model artifacts unavailable, serving in degraded mode")
		models = nil
	} else {
		logger.Info().
			Str("path", cfg.ModelPath).
			Time("trained_at", models.TrainedAt).
			Int("corpus_movies", len(models.Content.IDs)).
			Int("factor_movies", len(models.Collaborative.MovieIDs)).
			Int("factors", models.Collaborative.K).
			Msg("model artifacts loaded")
	}

	// ------------ Redis ---------------
	responseCache := setupCache(cfg, logger)

	// ------------ Wiring ---------------
	tmdb := catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBImageBaseURL, cfg.TMDBAPIKey, logger)

	engine := recommend.NewEngine(models, tmdb, recommend.Options{
		ContentMinScore:   cfg.ContentMinScore,
		CollabMinScore:    cfg.CollabMinScore,
		Alpha:             cfg.BlendAlpha,
		EnrichTimeout:     cfg.EnrichTimeout,
		EnrichConcurrency: cfg.EnrichConcurrency,
	}, logger)

	svc := recommend.NewService(engine, responseCache, logger)
	h := handler.NewHandler(svc, logger)

	// ---------------- Server --------------------
	logger.Info().Str("addr", cfg.Addr()).Msg("server listening")
	if err := http.ListenAndServe(cfg.Addr(), router.Setup(h)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// setupCache connects to redis; the cache is optional and the server runs
// without it if the connection fails.
func setupCache(cfg *config.Config, logger zerolog.Logger) *cache.Cache {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, response caching disabled")
		return nil
	}
	return cache.NewCache(redis.NewClient(redisOpts), cfg.CacheTTL)
}
