// Package blend holds the per-query scoring policy shared by both similarity
// rails: the confidence gate, min-max score normalization, and the weighted
// hybrid combination of the two signals.
package blend

import (
	"math"
	"sort"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

const (
	// DefaultContentMinScore gates the text-profile rail.
	DefaultContentMinScore = 0.10
	// DefaultCollabMinScore gates the taste-factor rail. The two thresholds
	// differ because the two score distributions are not comparable.
	DefaultCollabMinScore = 0.15
	// DefaultAlpha is the content weight in the hybrid blend.
	DefaultAlpha = 0.5
)

// Gate suppresses an entire candidate list when its best score falls below
// the threshold. A short weak rail erodes trust more than an honestly absent
// one.
func Gate(candidates []domain.Candidate, minScore float64) []domain.Candidate {
	if len(candidates) > 0 && candidates[0].Score < minScore {
		return nil
	}
	return candidates
}

// Normalize min-max rescales scores within one list to [0,1]. A flat
// distribution maps every score to 1.0: with nothing to discriminate on, the
// list is treated as uniformly maximal confidence (and division by zero is
// avoided). Empty input yields empty output.
func Normalize(candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	minS, maxS := candidates[0].Score, candidates[0].Score
	for _, c := range candidates[1:] {
		minS = math.Min(minS, c.Score)
		maxS = math.Max(maxS, c.Score)
	}

	out := make([]domain.Candidate, len(candidates))
	for i, c := range candidates {
		score := 1.0
		if maxS != minS {
			score = (c.Score - minS) / (maxS - minS)
		}
		out[i] = domain.Candidate{TMDBID: c.TMDBID, Score: score}
	}
	return out
}

// Blend combines the two candidate lists with weight alpha on the content
// side. With no collaborative input the top n content candidates pass through
// unchanged, tagged with their signal. Otherwise both lists are normalized
// independently and every movie in either list gets a blended score; a movie
// present in only one list keeps only that side's weighted share, so
// dual-source agreement always outranks an equal single-source score.
func Blend(content, collaborative []domain.Candidate, alpha float64, n int) []domain.BlendedCandidate {
	if n <= 0 {
		return nil
	}

	if len(collaborative) == 0 {
		out := make([]domain.BlendedCandidate, 0, min(n, len(content)))
		for _, c := range content {
			if len(out) == n {
				break
			}
			out = append(out, domain.BlendedCandidate{
				TMDBID:  c.TMDBID,
				Score:   c.Score,
				Signals: []domain.Signal{domain.SignalContent},
			})
		}
		return out
	}

	contentNorm := Normalize(content)
	collabNorm := Normalize(collaborative)

	contentScores := make(map[int64]float64, len(contentNorm))
	for _, c := range contentNorm {
		contentScores[c.TMDBID] = c.Score
	}
	collabScores := make(map[int64]float64, len(collabNorm))
	for _, c := range collabNorm {
		collabScores[c.TMDBID] = c.Score
	}

	// Union in discovery order: content list first, then collaborative
	// movies not already seen. Keeps ties deterministic.
	seen := make(map[int64]struct{}, len(contentScores)+len(collabScores))
	var ids []int64
	for _, c := range contentNorm {
		if _, ok := seen[c.TMDBID]; ok {
			continue
		}
		seen[c.TMDBID] = struct{}{}
		ids = append(ids, c.TMDBID)
	}
	for _, c := range collabNorm {
		if _, ok := seen[c.TMDBID]; ok {
			continue
		}
		seen[c.TMDBID] = struct{}{}
		ids = append(ids, c.TMDBID)
	}

	blended := make([]domain.BlendedCandidate, 0, len(ids))
	for _, id := range ids {
		cbScore, inContent := contentScores[id]
		cfScore, inCollab := collabScores[id]

		var score float64
		var signals []domain.Signal
		switch {
		case inContent && inCollab:
			score = alpha*cbScore + (1-alpha)*cfScore
			signals = []domain.Signal{domain.SignalContent, domain.SignalCollaborative}
		case inContent:
			score = alpha * cbScore // penalized single-source
			signals = []domain.Signal{domain.SignalContent}
		default:
			score = (1 - alpha) * cfScore // penalized single-source
			signals = []domain.Signal{domain.SignalCollaborative}
		}

		blended = append(blended, domain.BlendedCandidate{
			TMDBID:  id,
			Score:   math.Round(score*10000) / 10000,
			Signals: signals,
		})
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].Score > blended[j].Score
	})
	if len(blended) > n {
		blended = blended[:n]
	}
	return blended
}
