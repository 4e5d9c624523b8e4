package vectorspace

import (
	"math"
	"testing"
)

func fitFixture(t *testing.T, docs []Document, opts Options) *Model {
	t.Helper()
	m, err := Fit(docs, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return m
}

func TestFitEmptyCorpus(t *testing.T) {
	if _, err := Fit(nil, Options{}); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestNearestOutOfCorpus(t *testing.T) {
	m := fitFixture(t, []Document{
		{TMDBID: 1, Text: "space opera starship rebellion"},
		{TMDBID: 2, Text: "space opera starship empire"},
	}, Options{MinDocFreq: 1})

	if m.Contains(999) {
		t.Error("movie 999 should not be in the fitted corpus")
	}
	if got := m.Nearest(999, 5); len(got) != 0 {
		t.Errorf("expected empty result for out-of-corpus movie, got %d", len(got))
	}
}

func TestNearestExcludesSelfAndCaps(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "wizard school magic dragon"},
		{TMDBID: 2, Text: "wizard school magic owl"},
		{TMDBID: 3, Text: "wizard magic ring quest"},
		{TMDBID: 4, Text: "wizard dragon quest sword"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1})

	got := m.Nearest(1, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	for _, c := range got {
		if c.TMDBID == 1 {
			t.Error("reference movie must not appear in its own results")
		}
	}
}

func TestNearestZeroSimilarityExcluded(t *testing.T) {
	// Only 3 other movies share vocabulary with movie 1; the remaining two
	// overlap with nothing it says. Asking for 5 must return 3, not pad.
	docs := []Document{
		{TMDBID: 1, Text: "heist crew vault getaway driver"},
		{TMDBID: 2, Text: "heist crew bank vault"},
		{TMDBID: 3, Text: "getaway driver chase crew"},
		{TMDBID: 4, Text: "vault robbery heist plan"},
		{TMDBID: 5, Text: "romance wedding paris spring"},
		{TMDBID: 6, Text: "documentary penguins antarctica nature"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1})

	got := m.Nearest(1, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 overlapping results, got %d", len(got))
	}
	for _, c := range got {
		if c.Score <= 0 {
			t.Errorf("zero-similarity candidate %d leaked into results", c.TMDBID)
		}
	}
}

func TestNearestSortedDescending(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "alpha beta gamma delta"},
		{TMDBID: 2, Text: "alpha beta gamma epsilon"},
		{TMDBID: 3, Text: "alpha beta zeta eta"},
		{TMDBID: 4, Text: "alpha theta iota kappa"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1})

	got := m.Nearest(1, 10)
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results not sorted at %d: %f > %f", i, got[i].Score, got[i-1].Score)
		}
	}
	if len(got) == 0 || got[0].TMDBID != 2 {
		t.Errorf("expected movie 2 (largest overlap) first, got %+v", got)
	}
}

func TestSelfSimilarityIsMaximal(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "storm chaser tornado"},
		{TMDBID: 2, Text: "storm chaser hurricane"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1})

	row := m.Rows[0]
	self := dot(row, row)
	if math.Abs(self-1.0) > 1e-9 {
		t.Errorf("self cosine should be 1.0 on a normalized row, got %f", self)
	}
}

func TestMinDocFreqPrunesVocabulary(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "shared shared unique1"},
		{TMDBID: 2, Text: "shared unique2"},
		{TMDBID: 3, Text: "shared unique3"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 2})

	if len(m.Vocabulary) != 1 {
		t.Fatalf("expected only the shared term to survive, got %v", m.Vocabulary)
	}
	if _, ok := m.Vocabulary["shared"]; !ok {
		t.Errorf("expected term 'shared' in vocabulary, got %v", m.Vocabulary)
	}
}

func TestMaxFeaturesCapsByCorpusFrequency(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "common common common rare1 mid"},
		{TMDBID: 2, Text: "common common rare2 mid"},
		{TMDBID: 3, Text: "common rare3 mid"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1, MaxFeatures: 2})

	if len(m.Vocabulary) != 2 {
		t.Fatalf("expected capped vocabulary of 2, got %d", len(m.Vocabulary))
	}
	if _, ok := m.Vocabulary["common"]; !ok {
		t.Error("most frequent term should survive the cap")
	}
	if _, ok := m.Vocabulary["mid"]; !ok {
		t.Error("second most frequent term should survive the cap")
	}
}

func TestVectorDimensionalityUniform(t *testing.T) {
	docs := []Document{
		{TMDBID: 1, Text: "alpha beta"},
		{TMDBID: 2, Text: "beta gamma"},
		{TMDBID: 3, Text: "gamma alpha"},
	}
	m := fitFixture(t, docs, Options{MinDocFreq: 1})

	dims := len(m.IDF)
	for i, row := range m.Rows {
		for _, col := range row.Indices {
			if col < 0 || col >= dims {
				t.Errorf("row %d has out-of-range column %d (dims=%d)", i, col, dims)
			}
		}
	}
	if len(m.Rows) != len(m.IDs) {
		t.Errorf("rows and ids out of lockstep: %d vs %d", len(m.Rows), len(m.IDs))
	}
}

func TestTokenizeStopWordsAndTags(t *testing.T) {
	tokens := Tokenize("The quick GENRE_Action and actor_john_wick runs")
	for _, tok := range tokens {
		if tok == "the" || tok == "and" {
			t.Errorf("stop word %q leaked through tokenization", tok)
		}
	}

	want := map[string]bool{"genre_action": false, "actor_john_wick": false}
	for _, tok := range tokens {
		if _, ok := want[tok]; ok {
			want[tok] = true
		}
	}
	for tag, seen := range want {
		if !seen {
			t.Errorf("tagged token %q lost in tokenization: %v", tag, tokens)
		}
	}
}
