// Package citizens provides the citizen data model: archetypes, traits,
// memory, the mood engine that reacts to curation decisions, and the crowd
// pass that spreads conformity and protest.
package citizens

// CitizenID is the citizen's slot in the crowd. Slots are stable across
// sessions so persisted memory can be merged back into the same seat.
type CitizenID int

// Mood bounds shared by citizens and the city.
const (
	MinMood = -50.0
	MaxMood = 50.0
)

// Trait bounds.
const (
	MaxReactivity = 2.0 // Reactivity drifts above 1 through sensitisation
	MinLean       = -0.5
	MaxLean       = 0.5
)

// Traits are drawn once at creation and drift slowly thereafter.
// Every trait but PoliticalLean lives in [0,1]; reactivity may reach 2.
type Traits struct {
	Optimism      float64 `json:"optimism"`
	Reactivity    float64 `json:"reactivity"`
	Conformity    float64 `json:"conformity"`
	Resilience    float64 `json:"resilience"`
	Skepticism    float64 `json:"skepticism"`
	PoliticalLean float64 `json:"political_lean"` // -0.5 (left) to +0.5 (right)
}

// Personality pairs the immutable archetype with the citizen's traits.
type Personality struct {
	Archetype Archetype `json:"archetype"`
	Traits    Traits    `json:"traits"`
}

// Vec is a 2D position or velocity in scene units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Citizen is one member of the simulated crowd.
type Citizen struct {
	ID   CitizenID `json:"id"`
	Name string    `json:"name"`

	// Personality is nil for records restored from partially written state;
	// such citizens are inert in every simulation pass.
	Personality *Personality `json:"personality,omitempty"`
	Memory      Memory       `json:"memory"`
	CurrentMood float64      `json:"current_mood"` // -50 to +50

	// Protesting is set by the crowd pass and holds for the session.
	Protesting bool `json:"protesting"`

	// Motion state, owned by the animation scheduler.
	Position Vec `json:"position"`
	Velocity Vec `json:"velocity"`
}

// Active reports whether the citizen has a usable personality record.
func (c *Citizen) Active() bool {
	return c != nil && c.Personality != nil
}

// State returns the citizen's current behavioural state.
func (c *Citizen) State() BehaviorState {
	if c == nil {
		return StateWalking
	}
	if c.Protesting {
		return StateProtesting
	}
	return StateForMood(c.CurrentMood)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
