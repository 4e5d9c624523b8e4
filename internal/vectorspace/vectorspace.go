// Package vectorspace holds the content similarity model: a frozen-vocabulary
// TF-IDF vector per movie and exact cosine nearest-neighbor lookup over all of
// them.
//
// Term weighting follows the standard smooth-IDF formulation: raw term count
// scaled by ln((1+N)/(1+df))+1, with every row L2-normalized so the cosine of
// two rows reduces to a sparse dot product. The vocabulary is fixed at fit
// time; movies outside the fitted corpus simply have no vector and queries for
// them return nothing.
package vectorspace

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

const (
	// DefaultMaxFeatures caps the vocabulary size.
	DefaultMaxFeatures = 8000
	// DefaultMinDocFreq drops terms appearing in fewer documents than this.
	DefaultMinDocFreq = 2
)

var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9_-]+`)

// Document is one corpus entry: a movie ID and its text profile.
type Document struct {
	TMDBID int64
	Text   string
}

// Options tune the fit. Zero values fall back to the defaults.
type Options struct {
	MaxFeatures int
	MinDocFreq  int
}

// Vector is a sparse row: parallel slices of ascending column indices and
// their weights.
type Vector struct {
	Indices []int
	Values  []float64
}

// Model is the fitted content vector space. All fields are frozen after Fit;
// concurrent readers need no locking.
type Model struct {
	Vocabulary map[string]int
	IDF        []float64
	Rows       []Vector
	IDs        []int64

	idToRow map[int64]int
}

// Fit builds the vector space over all profiles at once. Documents with no
// in-vocabulary terms still get a (zero) row so the ID list and the matrix
// stay in lockstep.
func Fit(docs []Document, opts Options) (*Model, error) {
	if len(docs) == 0 {
		return nil, errors.New("vectorspace: empty corpus")
	}
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	minDocFreq := opts.MinDocFreq
	if minDocFreq <= 0 {
		minDocFreq = DefaultMinDocFreq
	}

	// Term counts per document and document frequencies across the corpus.
	termCounts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, tok := range Tokenize(doc.Text) {
			counts[tok]++
			corpusFreq[tok]++
		}
		termCounts[i] = counts
		for term := range counts {
			docFreq[term]++
		}
	}

	vocab := buildVocabulary(docFreq, corpusFreq, minDocFreq, maxFeatures)
	if len(vocab) == 0 {
		return nil, errors.New("vectorspace: no terms survived vocabulary selection")
	}

	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for term, col := range vocab {
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	m := &Model{
		Vocabulary: vocab,
		IDF:        idf,
		Rows:       make([]Vector, len(docs)),
		IDs:        make([]int64, len(docs)),
	}
	for i, doc := range docs {
		m.IDs[i] = doc.TMDBID
		m.Rows[i] = weigh(termCounts[i], vocab, idf)
	}
	m.Reindex()

	return m, nil
}

// Reindex rebuilds the ID lookup. Call after decoding a persisted model.
func (m *Model) Reindex() {
	m.idToRow = make(map[int64]int, len(m.IDs))
	for i, id := range m.IDs {
		m.idToRow[id] = i
	}
}

// Contains reports whether the movie is part of the fitted corpus.
func (m *Model) Contains(tmdbID int64) bool {
	_, ok := m.idToRow[tmdbID]
	return ok
}

// Nearest returns up to n movies most similar to the given one, descending by
// cosine similarity, ties broken by row order. Out-of-corpus movies yield an
// empty result; so do corpus members that share no vocabulary with anything
// else. Movies with zero similarity are excluded, never padded in.
func (m *Model) Nearest(tmdbID int64, n int) []domain.Candidate {
	row, ok := m.idToRow[tmdbID]
	if !ok || n <= 0 {
		return nil
	}

	ref := m.Rows[row]
	candidates := make([]domain.Candidate, 0, len(m.Rows))
	for i := range m.Rows {
		if i == row {
			continue
		}
		sim := dot(ref, m.Rows[i])
		if sim <= 0 {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			TMDBID: m.IDs[i],
			Score:  round4(sim),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// Tokenize lowercases and splits text into word tokens of at least two
// characters. Underscores and hyphens survive so tagged genre and actor
// tokens stay intact.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if isStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// buildVocabulary keeps terms meeting the document-frequency floor, capped to
// maxFeatures by total corpus frequency (ties alphabetical). Column indices
// are assigned in alphabetical term order.
func buildVocabulary(docFreq, corpusFreq map[string]int, minDocFreq, maxFeatures int) map[string]int {
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDocFreq {
			kept = append(kept, term)
		}
	}

	if len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
				return corpusFreq[kept[i]] > corpusFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}

	sort.Strings(kept)
	vocab := make(map[string]int, len(kept))
	for i, term := range kept {
		vocab[term] = i
	}
	return vocab
}

// weigh builds one L2-normalized TF-IDF row from raw term counts.
func weigh(counts map[string]int, vocab map[string]int, idf []float64) Vector {
	type cell struct {
		col int
		val float64
	}
	cells := make([]cell, 0, len(counts))
	for term, count := range counts {
		col, ok := vocab[term]
		if !ok {
			continue
		}
		cells = append(cells, cell{col: col, val: float64(count) * idf[col]})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].col < cells[j].col })

	var norm float64
	for _, c := range cells {
		norm += c.val * c.val
	}
	norm = math.Sqrt(norm)

	v := Vector{
		Indices: make([]int, len(cells)),
		Values:  make([]float64, len(cells)),
	}
	for i, c := range cells {
		v.Indices[i] = c.col
		if norm > 0 {
			v.Values[i] = c.val / norm
		}
	}
	return v
}

// dot is the sparse dot product of two rows; with L2-normalized rows this is
// exactly their cosine similarity.
func dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
