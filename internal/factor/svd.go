package factor

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

// DefaultFactors is the default number of latent taste factors.
const DefaultFactors = 100

// Model is the fitted collaborative similarity model: one dense k-dimensional
// taste vector per movie column of the rating matrix, plus the ID bridge.
// Immutable after Decompose; concurrent readers need no locking.
type Model struct {
	Factors  [][]float64
	MovieIDs []int64
	K        int
	Bridge   *Bridge

	movieRow map[int64]int
	norms    []float64
}

// Decompose centers the rating matrix by its global mean and runs a truncated
// singular value decomposition, keeping k = min(factors, min(users,movies)-1)
// components, further capped by the numerical rank of the centered matrix.
// The right singular vectors become the per-movie taste vectors.
// Deterministic for a fixed matrix and k; the sign ambiguity inherent to SVD
// does not affect cosine ranking.
func Decompose(m *Matrix, factors int, bridge *Bridge) (*Model, error) {
	if bridge == nil {
		return nil, errors.New("factor: nil bridge")
	}
	if factors <= 0 {
		factors = DefaultFactors
	}
	if m.nUsers < 2 || m.nMovies < 2 {
		return nil, fmt.Errorf("factor: matrix too small to factorize (%d users x %d movies)", m.nUsers, m.nMovies)
	}

	dense := mat.NewDense(m.nUsers, m.nMovies, nil)
	for _, e := range m.entries {
		dense.Set(e.row, e.col, e.val-m.GlobalMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(dense, mat.SVDThin); !ok {
		return nil, errors.New("factor: svd failed to converge")
	}

	k := factors
	if limit := min(m.nUsers, m.nMovies) - 1; k > limit {
		k = limit
	}
	// Singular vectors past the numerical rank span the null space: they carry
	// no rating structure, only rounding noise, and must never reach the taste
	// vectors.
	if rank := numericalRank(svd.Values(nil)); k > rank {
		k = rank
	}
	if k < 1 {
		return nil, errors.New("factor: matrix has no signal after centering")
	}

	var v mat.Dense
	svd.VTo(&v)

	model := &Model{
		Factors:  make([][]float64, m.nMovies),
		MovieIDs: append([]int64(nil), m.MovieIDs...),
		K:        k,
		Bridge:   bridge,
	}
	for i := 0; i < m.nMovies; i++ {
		vec := make([]float64, k)
		for f := 0; f < k; f++ {
			vec[f] = v.At(i, f)
		}
		model.Factors[i] = vec
	}
	model.Reindex()

	return model, nil
}

// Reindex rebuilds the lookup tables. Call after decoding a persisted model.
func (m *Model) Reindex() {
	m.movieRow = make(map[int64]int, len(m.MovieIDs))
	for i, id := range m.MovieIDs {
		m.movieRow[id] = i
	}
	m.norms = make([]float64, len(m.Factors))
	for i, vec := range m.Factors {
		m.norms[i] = l2(vec)
	}
}

// Nearest returns up to n movies whose taste vectors are closest to the given
// movie's, descending by cosine similarity, ties broken by row order. The
// TMDB ID is translated through the bridge; movies that are unmapped or fell
// under the popularity floor yield an empty result. Result rows without a
// TMDB mapping are silently dropped, never substituted.
func (m *Model) Nearest(tmdbID int64, n int) []domain.Candidate {
	if n <= 0 {
		return nil
	}
	mlID, ok := m.Bridge.ML(tmdbID)
	if !ok {
		return nil
	}
	row, ok := m.movieRow[mlID]
	if !ok {
		return nil
	}

	ref := m.Factors[row]
	refNorm := m.norms[row]
	if refNorm == 0 {
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(m.Factors))
	for i := range m.Factors {
		if i == row || m.norms[i] == 0 {
			continue
		}
		recTMDB, ok := m.Bridge.TMDB(m.MovieIDs[i])
		if !ok {
			continue
		}
		sim := dotDense(ref, m.Factors[i]) / (refNorm * m.norms[i])
		candidates = append(candidates, domain.Candidate{
			TMDBID: recTMDB,
			Score:  math.Round(sim*10000) / 10000,
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

// numericalRank counts singular values above a relative tolerance of the
// largest one. Values are returned by gonum in descending order.
func numericalRank(s []float64) int {
	if len(s) == 0 || s[0] == 0 {
		return 0
	}
	tol := s[0] * 1e-10
	rank := 0
	for _, v := range s {
		if v > tol {
			rank++
		}
	}
	return rank
}

func dotDense(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func l2(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
