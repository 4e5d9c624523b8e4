package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

type stubService struct {
	result *domain.SimilarResult
	err    error
}

func (s *stubService) GetSimilar(_ context.Context, tmdbID int64, limit int) (*domain.SimilarResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func serve(t *testing.T, svc SimilarProvider, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(svc, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/movies/{movieID}/similar", h.GetSimilarMovies)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetSimilarMovies(t *testing.T) {
	svc := &stubService{result: &domain.SimilarResult{
		MovieID: 603,
		SimilarMovies: []domain.RailItem{
			{Movie: domain.Movie{TMDBID: 604, Title: "The Matrix Reloaded"}, Score: 0.81, Signal: domain.SignalContent},
		},
		ViewersAlsoLiked: []domain.RailItem{
			{Movie: domain.Movie{TMDBID: 605, Title: "The Matrix Revolutions"}, Score: 0.77, Signal: domain.SignalCollaborative},
		},
	}}

	rec := serve(t, svc, "/movies/603/similar?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp SimilarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MovieID != 603 {
		t.Errorf("movie_id = %d, want 603", resp.MovieID)
	}
	if len(resp.SimilarMovies) != 1 || resp.SimilarMovies[0].Signal != domain.SignalContent {
		t.Errorf("unexpected content rail: %+v", resp.SimilarMovies)
	}
	if resp.Metadata.TotalCount != 2 {
		t.Errorf("total_count = %d, want 2", resp.Metadata.TotalCount)
	}
}

func TestGetSimilarMoviesInvalidID(t *testing.T) {
	rec := serve(t, &stubService{}, "/movies/abc/similar")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetSimilarMoviesInvalidLimit(t *testing.T) {
	rec := serve(t, &stubService{}, "/movies/603/similar?limit=9999")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetSimilarMoviesModelsNotLoaded(t *testing.T) {
	rec := serve(t, &stubService{err: domain.ErrModelsNotLoaded}, "/movies/603/similar")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "models_not_loaded" {
		t.Errorf("error code = %q, want models_not_loaded", resp.Error)
	}
}

func TestGetSimilarMoviesEmptyRailsStillOK(t *testing.T) {
	// Absence is a valid state, not an error: rails hidden, query succeeds.
	svc := &stubService{result: &domain.SimilarResult{MovieID: 42}}

	rec := serve(t, svc, "/movies/42/similar")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp SimilarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.SimilarMovies) != 0 || len(resp.ViewersAlsoLiked) != 0 {
		t.Errorf("expected empty rails, got %+v", resp)
	}
}
