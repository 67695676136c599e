// Package feed provides the post catalogue, tone sampling, and the daily
// generator that fills the player's three feed slots.
package feed

import "strings"

// Tone classifies a post's emotional valence.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// Tones lists every tone in sampling order.
var Tones = [3]Tone{TonePositive, ToneNegative, ToneNeutral}

// Intensity is the severity label on a post.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Level returns the 1–3 numeric level shown to players.
func (i Intensity) Level() int {
	switch i {
	case IntensityHigh:
		return 3
	case IntensityMedium:
		return 2
	default:
		return 1
	}
}

// TopicPolitics is the only topic with special handling: it moves the
// session's political bias and scales citizen reactions by lean.
const TopicPolitics = "politics"

// Action is one of the three curation verbs available to the player.
type Action string

const (
	ActionBoost  Action = "boost"
	ActionHide   Action = "hide"
	ActionIgnore Action = "ignore"
)

// Valid reports whether a is one of the three curation verbs.
func (a Action) Valid() bool {
	switch a {
	case ActionBoost, ActionHide, ActionIgnore:
		return true
	}
	return false
}

// ParseAction maps a verb to an Action. Unknown verbs report false.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", false
	}
	return a, true
}

// Post is a single feed item. Templates are never mutated; variants are copies.
type Post struct {
	ID        string    `json:"id,omitempty"`
	Emoji     string    `json:"emoji"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Intensity Intensity `json:"intensity"`
	Topic     string    `json:"topic"`
	Tone      Tone      `json:"tone"`
}

// IsPolitical reports whether the post is politics-coded.
func (p Post) IsPolitical() bool {
	return p.Topic == TopicPolitics
}
