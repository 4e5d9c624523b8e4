package domain

import "errors"

var (
	// ErrModelsNotLoaded means a query arrived before the offline artifacts were
	// loaded. Callers must surface this explicitly rather than return an empty
	// result, which would be indistinguishable from "no similar movies".
	ErrModelsNotLoaded = errors.New("models not loaded")

	// ErrMovieNotFound is returned by the catalog when TMDB has no such movie.
	ErrMovieNotFound = errors.New("movie not found")
)
