// Read-only projections of session state for renderers. Settings decide
// which optional labels are exposed; the projection never feeds back.
package engine

import (
	"github.com/talgya/echo-chamber/internal/citizens"
	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/feed"
)

// Scene appearance bands driven by global mood.
const (
	SceneBright  = "bright"
	SceneNeutral = "neutral"
	SceneDark    = "dark"

	sceneBrightAbove = 20
	sceneDarkBelow   = -20
	graffitiBelow    = -30
)

// PostView is a post as the player sees it.
type PostView struct {
	ID             string         `json:"id"`
	Emoji          string         `json:"emoji"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Topic          string         `json:"topic"`
	Tone           feed.Tone      `json:"tone,omitempty"`
	Intensity      feed.Intensity `json:"intensity,omitempty"`
	IntensityLevel int            `json:"intensity_level,omitempty"`
}

// PersonalitySummary is the tooltip detail for a citizen.
type PersonalitySummary struct {
	Archetype          citizens.Archetype `json:"archetype"`
	Label              string             `json:"label"`
	Traits             citizens.Traits    `json:"traits"`
	Trust              float64            `json:"trust"`
	Momentum           float64            `json:"momentum"`
	DecisionsWitnessed int                `json:"decisions_witnessed"`
}

// CitizenView is what a renderer needs to draw one figure.
type CitizenView struct {
	ID          citizens.CitizenID     `json:"id"`
	Name        string                 `json:"name"`
	Emoji       string                 `json:"emoji"`
	State       citizens.BehaviorState `json:"state"`
	Mood        float64                `json:"mood"`
	X           float64                `json:"x"`
	Y           float64                `json:"y"`
	ProtestSign bool                   `json:"protest_sign,omitempty"`
	Personality *PersonalitySummary    `json:"personality,omitempty"`
}

// SceneView describes how the city backdrop should look.
type SceneView struct {
	Appearance string `json:"appearance"`
	Graffiti   bool   `json:"graffiti"`
}

// View is the complete read-only projection of a session.
type View struct {
	SessionID      string        `json:"session_id"`
	Day            int           `json:"day"`
	MaxDays        int           `json:"max_days"`
	Engagement     float64       `json:"engagement"`
	Mood           float64       `json:"mood"`
	Bias           PoliticalBias `json:"political_bias"`
	Pending        bool          `json:"pending"`
	Ended          bool          `json:"ended"`
	Ending         *Ending       `json:"ending,omitempty"`
	FinalDays      int           `json:"final_days,omitempty"`
	ActiveProtests int           `json:"active_protests"`
	Posts          []PostView    `json:"posts"`
	Citizens       []CitizenView `json:"citizens"`
	Scene          SceneView     `json:"scene"`
}

// SceneFor returns the backdrop for a global mood.
func SceneFor(mood float64) SceneView {
	switch {
	case mood > sceneBrightAbove:
		return SceneView{Appearance: SceneBright}
	case mood < sceneDarkBelow:
		return SceneView{Appearance: SceneDark, Graffiti: mood < graffitiBelow}
	default:
		return SceneView{Appearance: SceneNeutral}
	}
}

// ProjectPost builds a post view with optional labels gated by settings.
func ProjectPost(p feed.Post, set config.Settings) PostView {
	v := PostView{
		ID:      p.ID,
		Emoji:   p.Emoji,
		Title:   p.Title,
		Content: p.Content,
		Topic:   p.Topic,
	}
	if set.ShowTone {
		v.Tone = p.Tone
	}
	if set.ShowIntensity {
		v.Intensity = p.Intensity
		v.IntensityLevel = p.Intensity.Level()
	}
	return v
}

// ProjectCitizen builds a citizen view with optional detail gated by settings.
func ProjectCitizen(c *citizens.Citizen, set config.Settings) CitizenView {
	v := CitizenView{
		ID:    c.ID,
		Name:  c.Name,
		State: c.State(),
		Mood:  c.CurrentMood,
		X:     c.Position.X,
		Y:     c.Position.Y,
	}
	if set.ShowProtestSigns && c.Protesting {
		v.ProtestSign = true
	}
	if !c.Active() {
		return v
	}
	v.Emoji = c.Personality.Archetype.Profile().Emoji
	if set.ShowNPCTooltips {
		v.Personality = &PersonalitySummary{
			Archetype:          c.Personality.Archetype,
			Label:              c.Personality.Archetype.Profile().Label,
			Traits:             c.Personality.Traits,
			Trust:              c.Memory.TrustInPlatform,
			Momentum:           c.Memory.EmotionalMomentum,
			DecisionsWitnessed: c.Memory.DecisionsWitnessed,
		}
	}
	return v
}
