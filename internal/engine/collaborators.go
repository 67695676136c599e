package engine

import (
	"github.com/talgya/echo-chamber/internal/citizens"
	"github.com/talgya/echo-chamber/internal/feed"
)

// Store persists what outlives a session: citizen memory per slot, the
// decision log, and the settings record.
type Store interface {
	LoadMemories() (map[citizens.CitizenID]citizens.Persisted, error)
	SaveMemories(map[citizens.CitizenID]citizens.Persisted) error
	AppendDecision(Decision) error
	ClearDecisions() error
	LoadSettings() (map[string]bool, error)
	SaveSettings(map[string]bool) error
}

// Renderer receives a fresh view after every state change.
type Renderer interface {
	Render(View)
}

// Cue names an audio cue. Synthesis belongs to the player.
type Cue string

const (
	CueBoostPositive Cue = "boost-positive"
	CueBoostNegative Cue = "boost-negative"
	CueHide          Cue = "hide"
	CueIgnore        Cue = "ignore"
	CueChaos         Cue = "chaos"
)

// CuePlayer plays named audio cues.
type CuePlayer interface {
	Play(Cue)
}

// cueFor returns the cue for a decision. Neutral boosts are silent.
func cueFor(action feed.Action, tone feed.Tone) (Cue, bool) {
	switch action {
	case feed.ActionBoost:
		switch tone {
		case feed.TonePositive:
			return CueBoostPositive, true
		case feed.ToneNegative:
			return CueBoostNegative, true
		}
		return "", false
	case feed.ActionHide:
		return CueHide, true
	case feed.ActionIgnore:
		return CueIgnore, true
	}
	return "", false
}
