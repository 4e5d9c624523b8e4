package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

// SimilarProvider is what the HTTP layer needs from the recommendation
// service.
type SimilarProvider interface {
	GetSimilar(ctx context.Context, tmdbID int64, limit int) (*domain.SimilarResult, error)
}

type Handler struct {
	service SimilarProvider
	logger  zerolog.Logger
}

func NewHandler(svc SimilarProvider, logger zerolog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
