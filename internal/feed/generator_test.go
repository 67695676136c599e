package feed

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestDistributionFor_Bands(t *testing.T) {
	cases := []struct {
		mood float64
		want Distribution
	}{
		{25, Distribution{0.5, 0.2, 0.3}},
		{20, Distribution{0.33, 0.33, 0.34}},
		{-20, Distribution{0.33, 0.33, 0.34}},
		{-21, Distribution{0.2, 0.5, 0.3}},
	}
	for _, c := range cases {
		if got := DistributionFor(c.mood); got != c.want {
			t.Fatalf("DistributionFor(%v) = %+v, want %+v", c.mood, got, c.want)
		}
	}
}

func TestSelectTone_InverseCDF(t *testing.T) {
	d := Distribution{Positive: 0.5, Negative: 0.2, Neutral: 0.3}
	if got := SelectTone(d, 0.0); got != TonePositive {
		t.Fatalf("r=0: got %s", got)
	}
	if got := SelectTone(d, 0.5); got != ToneNegative {
		t.Fatalf("r=0.5: got %s", got)
	}
	if got := SelectTone(d, 0.69); got != ToneNegative {
		t.Fatalf("r=0.69: got %s", got)
	}
	if got := SelectTone(d, 0.71); got != ToneNeutral {
		t.Fatalf("r=0.71: got %s", got)
	}
}

func TestSelectTone_FallsBackToNeutral(t *testing.T) {
	short := Distribution{Positive: 0.1, Negative: 0.1, Neutral: 0.1}
	if got := SelectTone(short, 0.99); got != ToneNeutral {
		t.Fatalf("fallback: got %s", got)
	}
}

func TestSelectTone_PositiveFractionWhenHappy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := DistributionFor(25)

	const n = 10000
	positive := 0
	for i := 0; i < n; i++ {
		if SelectTone(d, rng.Float64()) == TonePositive {
			positive++
		}
	}
	frac := float64(positive) / n
	if math.Abs(frac-0.5) > 0.03 {
		t.Fatalf("positive fraction = %.3f, want ≈0.5", frac)
	}
}

func TestVariations_ByDay(t *testing.T) {
	tmpl := Templates(TonePositive)[0]

	if got := len(Variations(tmpl, 3)); got != 1 {
		t.Fatalf("day 3 variants = %d, want 1", got)
	}
	v := Variations(tmpl, 4)
	if len(v) != 2 || !strings.HasSuffix(v[1].Title, " - UPDATE") {
		t.Fatalf("day 4 variants = %+v", v)
	}
	if !strings.HasPrefix(v[1].Content, "New developments: ") {
		t.Fatalf("update content = %q", v[1].Content)
	}

	v = Variations(tmpl, 7)
	if len(v) != 3 {
		t.Fatalf("day 7 variants = %d, want 3", len(v))
	}
	if !strings.HasPrefix(v[2].Title, "BREAKING: ") || v[2].Intensity != IntensityHigh {
		t.Fatalf("breaking variant = %+v", v[2])
	}
	if tmpl.Intensity != IntensityLow {
		t.Fatalf("template mutated: %+v", tmpl)
	}
}

func TestTemplates_EightPerTone(t *testing.T) {
	for _, tone := range Tones {
		pool := Templates(tone)
		if len(pool) != 8 {
			t.Fatalf("%s pool = %d, want 8", tone, len(pool))
		}
		for _, p := range pool {
			if p.Tone != tone {
				t.Fatalf("%s pool has tone %s", tone, p.Tone)
			}
		}
	}
}

func TestGenerator_DailyPosts(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	posts := g.DailyPosts(8, 0)

	ids := map[string]bool{}
	for i, p := range posts {
		if p.ID == "" || ids[p.ID] {
			t.Fatalf("slot %d: bad id %q", i, p.ID)
		}
		ids[p.ID] = true
		if p.Tone == "" || p.Title == "" {
			t.Fatalf("slot %d: incomplete post %+v", i, p)
		}
	}
	if posts[0].ID != "post-0" || posts[2].ID != "post-2" {
		t.Fatalf("ids = %s,%s,%s", posts[0].ID, posts[1].ID, posts[2].ID)
	}
}

func TestParseAction(t *testing.T) {
	if a, ok := ParseAction(" Boost "); !ok || a != ActionBoost {
		t.Fatalf("ParseAction boost = %q %v", a, ok)
	}
	if _, ok := ParseAction("share"); ok {
		t.Fatalf("ParseAction accepted unknown verb")
	}
}

func TestAction_Valid(t *testing.T) {
	for _, a := range []Action{ActionBoost, ActionHide, ActionIgnore} {
		if !a.Valid() {
			t.Fatalf("%q not valid", a)
		}
	}
	for _, a := range []Action{"", "explode", "Boost"} {
		if a.Valid() {
			t.Fatalf("%q valid", a)
		}
	}
}
