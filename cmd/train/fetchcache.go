package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/Mehdibargach/watchnext/internal/corpus"
)

// cachedProfile is the on-disk shape of one fetched TMDB profile. The cache
// keeps re-runs of the trainer from hammering the API.
type cachedProfile struct {
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Genres   []string `json:"genres"`
	Cast     []string `json:"cast"`
}

func decodeFetchCache(data []byte) (map[int64]corpus.Doc, error) {
	var raw map[int64]cachedProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	docs := make(map[int64]corpus.Doc, len(raw))
	for id, p := range raw {
		docs[id] = corpus.Doc{
			TMDBID:   id,
			Title:    p.Title,
			Overview: p.Overview,
			Genres:   p.Genres,
			Cast:     p.Cast,
		}
	}
	return docs, nil
}

func encodeFetchCache(docs map[int64]corpus.Doc) ([]byte, error) {
	raw := make(map[int64]cachedProfile, len(docs))
	for id, doc := range docs {
		raw[id] = cachedProfile{
			Title:    doc.Title,
			Overview: doc.Overview,
			Genres:   doc.Genres,
			Cast:     doc.Cast,
		}
	}
	return json.Marshal(raw)
}

func cacheDir(path string) string {
	return filepath.Dir(path)
}
