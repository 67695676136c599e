// Mood engine: how a single citizen feels about one curation decision.
package citizens

import (
	"math"

	"github.com/talgya/echo-chamber/internal/feed"
)

// Reaction coefficients.
const (
	positiveGain   = 5.0  // × optimism
	negativeSting  = 10.0 // × reactivity
	neutralNudge   = 1.0
	boostAmplifier = 1.5
	hideSuspicion  = 5.0 // × skepticism

	skepticThreshold  = 0.7
	conformThreshold  = 0.7
	boostedLiePenalty = 0.1
	hideTrustPenalty  = 0.05

	momentumRate = 0.1
	driftRate    = 0.1 // × resilience

	sensitisation = 0.02 // reactivity gained per boosted negative post
)

// ReactTo applies one decision on a post to a citizen and returns the raw
// mood change before homeostatic drift. Citizens without a personality are
// left untouched.
func ReactTo(c *Citizen, p feed.Post, action feed.Action, day int) float64 {
	if !c.Active() {
		return 0
	}
	t := &c.Personality.Traits

	var base float64
	switch p.Tone {
	case feed.TonePositive:
		base = positiveGain * t.Optimism
	case feed.ToneNegative:
		base = -negativeSting * t.Reactivity
	default:
		base = neutralNudge
	}

	var change float64
	switch action {
	case feed.ActionBoost:
		change = base * boostAmplifier
		if p.Tone == feed.ToneNegative && t.Skepticism > skepticThreshold {
			// Skeptics see amplified bad news as manipulation.
			change *= boostAmplifier
			c.Memory.AdjustTrust(-boostedLiePenalty)
		}
	case feed.ActionHide:
		// Hiding breeds suspicion regardless of what was hidden.
		change = -hideSuspicion * t.Skepticism
		c.Memory.AdjustTrust(-hideTrustPenalty)
		if t.Conformity > conformThreshold {
			change *= boostAmplifier
		}
	}

	if p.IsPolitical() {
		alignment := -0.5
		if p.Tone == feed.TonePositive {
			alignment = 0.5
		}
		agreement := 1 - math.Abs(t.PoliticalLean-alignment)
		change *= 0.5 + agreement
	}

	c.Memory.EmotionalMomentum += change * momentumRate

	pull := (c.Personality.Archetype.DefaultMood() - c.CurrentMood) * t.Resilience * driftRate
	c.CurrentMood = clamp(c.CurrentMood+change+pull, MinMood, MaxMood)

	c.Memory.Remember(SeenPost{Post: p, Action: action, Reaction: change})
	c.Memory.TrustInPlatform = clamp(c.Memory.TrustInPlatform, 0, 1)

	if action == feed.ActionBoost && p.Tone == feed.ToneNegative {
		t.Reactivity = clamp(t.Reactivity+sensitisation, 0, MaxReactivity)
	}

	c.Memory.DecisionsWitnessed++
	c.Memory.EmotionalHistory = append(c.Memory.EmotionalHistory, EmotionalRecord{
		Day:      day,
		Action:   action,
		Tone:     p.Tone,
		Reaction: change,
		Mood:     c.CurrentMood,
	})

	return change
}

// ReactAll runs ReactTo for every citizen in the crowd.
func ReactAll(crowd []*Citizen, p feed.Post, action feed.Action, day int) {
	for _, c := range crowd {
		ReactTo(c, p, action, day)
	}
}
