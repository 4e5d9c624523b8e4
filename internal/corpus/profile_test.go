package corpus

import (
	"strings"
	"testing"
)

func TestProfileTagsAndRepeats(t *testing.T) {
	b := NewBuilder(3)

	profile := b.Profile(Doc{
		TMDBID:   603,
		Overview: "A hacker discovers the action packed truth.",
		Genres:   []string{"Action", "Science Fiction"},
		Cast:     []string{"Keanu Reeves", "Carrie-Anne Moss"},
	})

	if got := strings.Count(profile, "genre_action"); got != 3 {
		t.Errorf("expected genre_action repeated 3 times, got %d", got)
	}
	if got := strings.Count(profile, "genre_science_fiction"); got != 3 {
		t.Errorf("expected genre_science_fiction repeated 3 times, got %d", got)
	}
	if !strings.Contains(profile, "actor_keanu_reeves") {
		t.Error("expected actor_keanu_reeves in profile")
	}
	if !strings.Contains(profile, "actor_carrie-anne_moss") {
		t.Error("expected actor_carrie-anne_moss in profile")
	}

	// The synopsis word stays untagged.
	if !strings.HasPrefix(profile, "A hacker discovers") {
		t.Errorf("profile should start with the synopsis, got %q", profile)
	}
}

func TestProfileEmptyOverview(t *testing.T) {
	b := NewBuilder(3)

	if got := b.Profile(Doc{TMDBID: 1, Genres: []string{"Drama"}}); got != "" {
		t.Errorf("expected empty profile without a synopsis, got %q", got)
	}
	if got := b.Profile(Doc{TMDBID: 2, Overview: "   "}); got != "" {
		t.Errorf("expected empty profile for whitespace synopsis, got %q", got)
	}
}

func TestProfileCastBound(t *testing.T) {
	b := NewBuilder(1)

	doc := Doc{
		Overview: "ensemble piece",
		Cast:     []string{"A One", "B Two", "C Three", "D Four", "E Five", "F Six", "G Seven"},
	}

	profile := b.Profile(doc)
	if got := strings.Count(profile, "actor_"); got != MaxCast {
		t.Errorf("expected %d actor tags, got %d", MaxCast, got)
	}
	if strings.Contains(profile, "actor_f_six") {
		t.Error("cast beyond the bound should be dropped")
	}
}
