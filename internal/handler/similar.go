package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

// GET /movies/{movieID}/similar
func (h *Handler) GetSimilarMovies(w http.ResponseWriter, r *http.Request) {
	movieIDStr := chi.URLParam(r, "movieID")
	movieID, err := strconv.ParseInt(movieIDStr, 10, 64)
	if err != nil || movieID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid movie_id parameter")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 25 {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	result, err := h.service.GetSimilar(r.Context(), movieID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrModelsNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "models_not_loaded",
				"Recommendation models are not loaded yet")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.logger.Error().Int64("movie_id", movieID).Err(err).Msg("similar query failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := SimilarResponse{
		MovieID:          result.MovieID,
		SimilarMovies:    result.SimilarMovies,
		ViewersAlsoLiked: result.ViewersAlsoLiked,
		Metadata: domain.ResultMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.SimilarMovies) + len(result.ViewersAlsoLiked),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}
