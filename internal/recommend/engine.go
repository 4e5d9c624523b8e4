// Package recommend is the query-time orchestrator. It runs both similarity
// searches for a reference movie, applies the confidence gates, enriches the
// surviving candidates with catalog metadata and returns the two rails.
//
// The hybrid blend is computed on demand for offline evaluation only; the
// exposed contract stays two independent rails. Each rail has its own value:
// "Similar Movies" is the same universe and genre, "Viewers Also Liked" is
// the same audience and taste.
package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/artifact"
	"github.com/Mehdibargach/watchnext/internal/blend"
	"github.com/Mehdibargach/watchnext/internal/domain"
)

// MetadataFetcher is the catalog collaborator the engine enriches candidates
// through.
type MetadataFetcher interface {
	Fetch(ctx context.Context, tmdbID int64) (*domain.Movie, error)
}

// Options tune query-time policy. Negative scores and alpha fall back to the
// defaults; zero is a real setting (a zero threshold disables that gate, a
// zero alpha weights the blend fully collaborative). Zero timeout and
// concurrency fall back to the defaults.
type Options struct {
	ContentMinScore   float64
	CollabMinScore    float64
	Alpha             float64
	EnrichTimeout     time.Duration
	EnrichConcurrency int
}

// Engine answers similarity queries against an immutable model set. The set
// is loaded once; concurrent queries share it without locking.
type Engine struct {
	models  *artifact.Set
	catalog MetadataFetcher
	opts    Options
	logger  zerolog.Logger
}

func NewEngine(models *artifact.Set, catalog MetadataFetcher, opts Options, logger zerolog.Logger) *Engine {
	if opts.ContentMinScore < 0 {
		opts.ContentMinScore = blend.DefaultContentMinScore
	}
	if opts.CollabMinScore < 0 {
		opts.CollabMinScore = blend.DefaultCollabMinScore
	}
	if opts.Alpha < 0 || opts.Alpha > 1 {
		opts.Alpha = blend.DefaultAlpha
	}
	if opts.EnrichTimeout <= 0 {
		opts.EnrichTimeout = 5 * time.Second
	}
	if opts.EnrichConcurrency <= 0 {
		opts.EnrichConcurrency = 8
	}
	return &Engine{
		models:  models,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

// Loaded reports whether the engine holds a model set.
func (e *Engine) Loaded() bool {
	return e.models != nil
}

// Similar returns both recommendation rails for a reference movie. A movie
// absent from the content corpus, the rating matrix or the ID bridge yields
// empty rails, not an error; querying before models are loaded is an error.
func (e *Engine) Similar(ctx context.Context, tmdbID int64, n int) (*domain.SimilarResult, error) {
	if !e.Loaded() {
		return nil, domain.ErrModelsNotLoaded
	}

	// The two searches are independent: no shared mutable state, order
	// does not matter.
	contentRaw := e.models.Content.Nearest(tmdbID, n)
	collabRaw := e.models.Collaborative.Nearest(tmdbID, n)

	contentRaw = blend.Gate(contentRaw, e.opts.ContentMinScore)
	collabRaw = blend.Gate(collabRaw, e.opts.CollabMinScore)

	metadata := e.enrich(ctx, unionIDs(contentRaw, collabRaw))

	result := &domain.SimilarResult{MovieID: tmdbID}
	result.SimilarMovies = buildRail(contentRaw, metadata, domain.SignalContent)
	result.ViewersAlsoLiked = buildRail(collabRaw, metadata, domain.SignalCollaborative)
	return result, nil
}

// Evaluate exposes the hybrid blend of the gated rails for offline setting of
// thresholds and alpha. Not part of the HTTP contract.
func (e *Engine) Evaluate(tmdbID int64, n int) ([]domain.BlendedCandidate, error) {
	if !e.Loaded() {
		return nil, domain.ErrModelsNotLoaded
	}

	contentRaw := blend.Gate(e.models.Content.Nearest(tmdbID, n), e.opts.ContentMinScore)
	collabRaw := blend.Gate(e.models.Collaborative.Nearest(tmdbID, n), e.opts.CollabMinScore)
	return blend.Blend(contentRaw, collabRaw, e.opts.Alpha, n), nil
}

// enrich fetches metadata for every unique candidate ID exactly once, with a
// bounded worker pool. Each lookup has its own timeout; one failure drops
// that candidate and never cancels the rest of the query.
func (e *Engine) enrich(ctx context.Context, ids []int64) map[int64]*domain.Movie {
	metadata := make(map[int64]*domain.Movie, len(ids))
	if len(ids) == 0 {
		return metadata
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, e.opts.EnrichConcurrency)
	)
	for _, id := range ids {
		wg.Add(1)
		go func(tmdbID int64) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			fetchCtx, cancel := context.WithTimeout(ctx, e.opts.EnrichTimeout)
			defer cancel()

			movie, err := e.catalog.Fetch(fetchCtx, tmdbID)
			if err != nil {
				e.logger.Warn().Int64("tmdb_id", tmdbID).Err(err).Msg("enrichment lookup failed, dropping candidate")
				return
			}
			mu.Lock()
			metadata[tmdbID] = movie
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return metadata
}

// buildRail attaches metadata to each candidate, dropping any whose
// enrichment failed: a partially-described movie is never surfaced.
func buildRail(candidates []domain.Candidate, metadata map[int64]*domain.Movie, signal domain.Signal) []domain.RailItem {
	items := make([]domain.RailItem, 0, len(candidates))
	for _, c := range candidates {
		movie, ok := metadata[c.TMDBID]
		if !ok {
			continue
		}
		items = append(items, domain.RailItem{
			Movie:  *movie,
			Score:  c.Score,
			Signal: signal,
		})
	}
	return items
}

func unionIDs(lists ...[]domain.Candidate) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, list := range lists {
		for _, c := range list {
			if _, ok := seen[c.TMDBID]; ok {
				continue
			}
			seen[c.TMDBID] = struct{}{}
			ids = append(ids, c.TMDBID)
		}
	}
	return ids
}
