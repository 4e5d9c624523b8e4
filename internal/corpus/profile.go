// Package corpus turns raw movie metadata into the text profiles the content
// vector space is fitted on.
//
// A profile is the synopsis followed by the genres (each repeated so the
// categorical signal outweighs incidental word overlap in the synopsis) and
// the most prominent cast members. Genre and actor tokens carry a tag prefix
// so the word "action" in a synopsis can never collide with the genre
// "Action".
package corpus

import "strings"

const (
	// DefaultGenreRepeat is how many times each genre token is repeated.
	DefaultGenreRepeat = 3
	// MaxCast bounds how many contributor names enter the profile.
	MaxCast = 5

	genrePrefix = "genre_"
	actorPrefix = "actor_"
)

// Doc is the raw metadata a profile is built from.
type Doc struct {
	TMDBID   int64
	Title    string
	Overview string
	Genres   []string
	Cast     []string
}

// Builder assembles text profiles with a fixed genre weight.
type Builder struct {
	genreRepeat int
}

func NewBuilder(genreRepeat int) *Builder {
	if genreRepeat < 1 {
		genreRepeat = DefaultGenreRepeat
	}
	return &Builder{genreRepeat: genreRepeat}
}

// Profile builds the text profile for one movie. Movies without a synopsis
// have no usable profile and return the empty string; callers exclude them
// from the corpus.
func (b *Builder) Profile(doc Doc) string {
	if strings.TrimSpace(doc.Overview) == "" {
		return ""
	}

	parts := []string{doc.Overview}

	for _, genre := range doc.Genres {
		tag := genrePrefix + slug(genre)
		for i := 0; i < b.genreRepeat; i++ {
			parts = append(parts, tag)
		}
	}

	cast := doc.Cast
	if len(cast) > MaxCast {
		cast = cast[:MaxCast]
	}
	for _, actor := range cast {
		parts = append(parts, actorPrefix+slug(actor))
	}

	return strings.Join(parts, " ")
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
