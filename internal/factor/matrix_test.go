package factor

import "testing"

func TestAssembleEmptyRatings(t *testing.T) {
	if _, err := Assemble(nil, 1); err == nil {
		t.Fatal("expected error for empty ratings")
	}
}

func TestAssembleMalformedRow(t *testing.T) {
	ratings := []Rating{{UserID: 0, MovieID: 5, Value: 3}}
	if _, err := Assemble(ratings, 1); err == nil {
		t.Fatal("expected error for malformed rating row")
	}
}

func TestAssemblePopularityFloor(t *testing.T) {
	ratings := []Rating{
		{UserID: 1, MovieID: 10, Value: 4},
		{UserID: 2, MovieID: 10, Value: 5},
		{UserID: 3, MovieID: 10, Value: 3},
		{UserID: 1, MovieID: 20, Value: 2},
		{UserID: 2, MovieID: 20, Value: 4},
		{UserID: 3, MovieID: 30, Value: 5}, // single rating, under the floor
	}

	m, err := Assemble(ratings, 2)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if m.Movies() != 2 {
		t.Errorf("expected 2 movies past the floor, got %d", m.Movies())
	}
	for _, id := range m.MovieIDs {
		if id == 30 {
			t.Error("movie 30 should have been filtered by the popularity floor")
		}
	}
	if m.Kept() != 5 {
		t.Errorf("expected 5 kept ratings, got %d", m.Kept())
	}

	// Mean of the 5 surviving ratings: (4+5+3+2+4)/5.
	if want := 3.6; m.GlobalMean != want {
		t.Errorf("expected global mean %f, got %f", want, m.GlobalMean)
	}
}

func TestAssembleNothingSurvivesFloor(t *testing.T) {
	ratings := []Rating{
		{UserID: 1, MovieID: 10, Value: 4},
		{UserID: 2, MovieID: 20, Value: 5},
	}
	if _, err := Assemble(ratings, 50); err == nil {
		t.Fatal("expected error when no movie meets the floor")
	}
}

func TestBridgeFailsClosed(t *testing.T) {
	b, err := NewBridge([]Link{
		{MovieID: 1, TMDBID: 100},
		{MovieID: 2, TMDBID: 200},
	})
	if err != nil {
		t.Fatalf("NewBridge failed: %v", err)
	}

	if id, ok := b.TMDB(1); !ok || id != 100 {
		t.Errorf("TMDB(1) = %d, %v; want 100, true", id, ok)
	}
	if id, ok := b.ML(200); !ok || id != 2 {
		t.Errorf("ML(200) = %d, %v; want 2, true", id, ok)
	}
	if _, ok := b.TMDB(99); ok {
		t.Error("unmapped MovieLens ID must report not found")
	}
	if _, ok := b.ML(99); ok {
		t.Error("unmapped TMDB ID must report not found")
	}
}

func TestBridgeMutualInverse(t *testing.T) {
	links := []Link{
		{MovieID: 1, TMDBID: 100},
		{MovieID: 2, TMDBID: 200},
		{MovieID: 3, TMDBID: 300},
	}
	b, err := NewBridge(links)
	if err != nil {
		t.Fatalf("NewBridge failed: %v", err)
	}

	for _, l := range links {
		tmdb, ok := b.TMDB(l.MovieID)
		if !ok {
			t.Fatalf("TMDB(%d) not found", l.MovieID)
		}
		back, ok := b.ML(tmdb)
		if !ok || back != l.MovieID {
			t.Errorf("round trip %d -> %d -> %d broken", l.MovieID, tmdb, back)
		}
	}
}

func TestBridgeRejectsMalformedRows(t *testing.T) {
	if _, err := NewBridge(nil); err == nil {
		t.Fatal("expected error for empty link table")
	}
	if _, err := NewBridge([]Link{{MovieID: 1, TMDBID: 0}}); err == nil {
		t.Fatal("expected error for malformed link row")
	}
}
