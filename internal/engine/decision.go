// Decision effects: what each curation verb does to the city.
package engine

import (
	"time"

	"github.com/talgya/echo-chamber/internal/feed"
)

// Decision is the immutable log record of one player action.
type Decision struct {
	SessionID        string      `json:"session_id" db:"session_id"`
	Day              int         `json:"day" db:"day"`
	Action           feed.Action `json:"action" db:"action"`
	Tone             feed.Tone   `json:"tone" db:"tone"`
	Topic            string      `json:"topic" db:"topic"`
	Description      string      `json:"description" db:"description"`
	Timestamp        time.Time   `json:"timestamp" db:"timestamp"`
	MoodBefore       float64     `json:"mood_before" db:"mood_before"`
	EngagementBefore float64     `json:"engagement_before" db:"engagement_before"`
}

// Flat deltas for hide and ignore.
const (
	hideEngagement   = -5
	hideMood         = -5
	ignoreEngagement = -3
)

// boostEngagement returns the engagement gain from boosting a post.
// Wholesome content spreads less than outrage or filler.
func boostEngagement(p feed.Post) float64 {
	if p.Tone == feed.TonePositive {
		return float64(p.Intensity.Level())
	}
	return float64(p.Intensity.Level()) * 5
}

// boostMood returns the mood shift from boosting a post.
func boostMood(p feed.Post) float64 {
	switch p.Tone {
	case feed.TonePositive:
		return 10
	case feed.ToneNegative:
		return -15
	default:
		return 2
	}
}

// ApplyEffect mutates g for an action on p. Bounds are enforced on every write.
func ApplyEffect(g *GlobalState, p feed.Post, action feed.Action) {
	switch action {
	case feed.ActionBoost:
		g.AddEngagement(boostEngagement(p))
		g.AddMood(boostMood(p))
		if p.IsPolitical() {
			switch p.Tone {
			case feed.TonePositive:
				g.Bias.Left++
			case feed.ToneNegative:
				g.Bias.Right++
			}
		}
	case feed.ActionHide:
		g.AddEngagement(hideEngagement)
		g.AddMood(hideMood)
	case feed.ActionIgnore:
		g.AddEngagement(ignoreEngagement)
	}
}
