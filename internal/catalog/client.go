// Package catalog is the TMDB metadata client. The serving path uses Fetch to
// enrich recommendation candidates; the trainer uses FetchWithCredits to pull
// the synopsis, genres and top cast the text profiles are built from.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	posterSize     = "w500"
	maxCast        = 5
)

type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	http         *http.Client
	logger       zerolog.Logger
}

func NewClient(baseURL, imageBaseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		apiKey:       apiKey,
		http:         &http.Client{Timeout: defaultTimeout},
		logger:       logger,
	}
}

type movieResponse struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	Runtime     int     `json:"runtime"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

// Fetch returns display metadata for one movie, or domain.ErrMovieNotFound
// when TMDB has no entry for the ID.
func (c *Client) Fetch(ctx context.Context, tmdbID int64) (*domain.Movie, error) {
	return c.fetch(ctx, tmdbID, false)
}

// FetchWithCredits additionally retrieves the top cast members, using a
// single request via append_to_response.
func (c *Client) FetchWithCredits(ctx context.Context, tmdbID int64) (*domain.Movie, error) {
	return c.fetch(ctx, tmdbID, true)
}

func (c *Client) fetch(ctx context.Context, tmdbID int64, withCredits bool) (*domain.Movie, error) {
	url := fmt.Sprintf("%s/movie/%d?language=en-US", c.baseURL, tmdbID)
	if withCredits {
		url += "&append_to_response=credits"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request for movie %d: %w", tmdbID, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tmdb movie %d: %w", tmdbID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrMovieNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int64("tmdb_id", tmdbID).Int("status", resp.StatusCode).Msg("tmdb fetch failed")
		return nil, fmt.Errorf("tmdb movie %d: unexpected status %d", tmdbID, resp.StatusCode)
	}

	var payload movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb movie %d: %w", tmdbID, err)
	}

	movie := &domain.Movie{
		TMDBID:      tmdbID,
		Title:       payload.Title,
		Overview:    payload.Overview,
		Rating:      payload.VoteAverage,
		Runtime:     payload.Runtime,
		ReleaseYear: releaseYear(payload.ReleaseDate),
	}
	for _, g := range payload.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	if payload.PosterPath != "" {
		movie.PosterURL = fmt.Sprintf("%s/%s%s", c.imageBaseURL, posterSize, payload.PosterPath)
	}
	if withCredits {
		for i, member := range payload.Credits.Cast {
			if i == maxCast {
				break
			}
			movie.Cast = append(movie.Cast, member.Name)
		}
	}
	return movie, nil
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
