package handler

import "github.com/Mehdibargach/watchnext/internal/domain"

type SimilarResponse struct {
	MovieID          int64             `json:"movie_id"`
	SimilarMovies    []domain.RailItem `json:"similar_movies"`
	ViewersAlsoLiked []domain.RailItem `json:"viewers_also_liked"`
	Metadata         domain.ResultMeta `json:"metadata"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
