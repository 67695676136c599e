// Daily post generation: tone sampling weighted by the city's mood,
// then a template and a day-dependent variant.
package feed

import (
	"fmt"
	"log/slog"
)

// PostsPerDay is the number of feed slots offered each day.
const PostsPerDay = 3

// Mood bands that skew the tone distribution.
const (
	moodBright = 20
	moodDark   = -20
)

// Variant thresholds: UPDATE copies appear after day 3, BREAKING after day 6.
const (
	updateAfterDay   = 3
	breakingAfterDay = 6
)

// Rand is the subset of *rand.Rand the generator needs.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Distribution maps each tone to its draw probability.
type Distribution struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Of returns the probability assigned to a tone.
func (d Distribution) Of(t Tone) float64 {
	switch t {
	case TonePositive:
		return d.Positive
	case ToneNegative:
		return d.Negative
	default:
		return d.Neutral
	}
}

// DistributionFor returns the tone distribution for a global mood.
// A happy city is fed more good news, an angry one more bad news.
func DistributionFor(mood float64) Distribution {
	switch {
	case mood > moodBright:
		return Distribution{Positive: 0.5, Negative: 0.2, Neutral: 0.3}
	case mood < moodDark:
		return Distribution{Positive: 0.2, Negative: 0.5, Neutral: 0.3}
	default:
		return Distribution{Positive: 0.33, Negative: 0.33, Neutral: 0.34}
	}
}

// SelectTone samples a tone by inverse CDF over d using r ∈ [0,1).
// A draw that clears every cumulative bound falls back to neutral.
func SelectTone(d Distribution, r float64) Tone {
	cumulative := 0.0
	for _, t := range Tones {
		cumulative += d.Of(t)
		if r < cumulative {
			return t
		}
	}
	return ToneNeutral
}

// Variations returns the day-dependent variants of a template, base first.
func Variations(tmpl Post, day int) []Post {
	variants := []Post{tmpl}

	if day > updateAfterDay {
		v := tmpl
		v.Title = tmpl.Title + " - UPDATE"
		v.Content = "New developments: " + tmpl.Content
		variants = append(variants, v)
	}

	if day > breakingAfterDay {
		v := tmpl
		v.Title = "BREAKING: " + tmpl.Title
		v.Content = tmpl.Content + " - situation escalating"
		v.Intensity = IntensityHigh
		variants = append(variants, v)
	}

	return variants
}

// Generator draws daily posts.
type Generator struct {
	rng Rand
}

// NewGenerator creates a generator over the given random source.
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng}
}

// DailyPosts fills the three feed slots for a day given the global mood.
func (g *Generator) DailyPosts(day int, mood float64) [PostsPerDay]Post {
	var posts [PostsPerDay]Post
	dist := DistributionFor(mood)

	for i := range posts {
		tone := SelectTone(dist, g.rng.Float64())
		pool := Templates(tone)
		tmpl := pool[g.rng.Intn(len(pool))]

		variants := Variations(tmpl, day)
		p := variants[g.rng.Intn(len(variants))]
		p.ID = fmt.Sprintf("post-%d", i)
		posts[i] = p
	}

	slog.Debug("daily posts generated",
		"day", day,
		"mood", mood,
		"tones", fmt.Sprintf("%s/%s/%s", posts[0].Tone, posts[1].Tone, posts[2].Tone),
	)
	return posts
}
