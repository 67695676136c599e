// Package engine runs a curation session: the global engagement and mood
// scalars, the daily decision cycle, the citizen passes each decision
// triggers, and the ending the session resolves to.
package engine

// Global bounds and starting values.
const (
	DefaultMaxDays    = 10
	InitialEngagement = 50.0
	MinEngagement     = 0.0
	MaxEngagement     = 100.0
	MinMood           = -50.0
	MaxMood           = 50.0
)

// PoliticalBias tallies politics-coded boosts by direction.
type PoliticalBias struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Total returns the number of politics-coded boosts.
func (b PoliticalBias) Total() int {
	return b.Left + b.Right
}

// Lopsided reports whether one side has more than double the other.
func (b PoliticalBias) Lopsided() bool {
	return b.Total() > 0 && (b.Left > 2*b.Right || b.Right > 2*b.Left)
}

// GlobalState is the session-wide state mutated once per decision.
type GlobalState struct {
	Day        int           `json:"day"`
	Engagement float64       `json:"engagement"` // 0–100
	Mood       float64       `json:"mood"`       // -50 to +50
	Bias       PoliticalBias `json:"political_bias"`
}

// NewGlobalState returns the state every session starts from.
func NewGlobalState() GlobalState {
	return GlobalState{
		Day:        1,
		Engagement: InitialEngagement,
		Mood:       0,
	}
}

// AddEngagement shifts engagement and clamps it.
func (g *GlobalState) AddEngagement(delta float64) {
	g.Engagement = clamp(g.Engagement+delta, MinEngagement, MaxEngagement)
}

// AddMood shifts mood and clamps it.
func (g *GlobalState) AddMood(delta float64) {
	g.Mood = clamp(g.Mood+delta, MinMood, MaxMood)
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
