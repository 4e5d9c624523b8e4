package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/cache"
	"github.com/Mehdibargach/watchnext/internal/domain"
)

const (
	defaultLimit = 5
	maxLimit     = 25
)

// Service fronts the engine with the redis response cache. A nil cache is
// allowed and simply disables caching.
type Service struct {
	engine *Engine
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewService(engine *Engine, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{engine: engine, cache: c, logger: logger}
}

// GetSimilar returns both rails for a movie, serving from cache when
// possible. Cache failures are logged and ignored: the engine is the source
// of truth.
func (s *Service) GetSimilar(ctx context.Context, tmdbID int64, limit int) (*domain.SimilarResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, tmdbID, limit)
		if err != nil {
			s.logger.Warn().Int64("tmdb_id", tmdbID).Err(err).Msg("cache get failed")
		}
		if found {
			cached.CacheHit = true
			return cached, nil
		}
	}

	result, err := s.engine.Similar(ctx, tmdbID, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tmdbID, limit, result); err != nil {
			s.logger.Warn().Int64("tmdb_id", tmdbID).Err(err).Msg("cache set failed")
		}
	}
	return result, nil
}
