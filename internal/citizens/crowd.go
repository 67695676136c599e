// Crowd dynamics: conformity pulls citizens toward the people standing
// near them, and sustained anger among activists turns into protest.
package citizens

import "log/slog"

// Crowd pass constants.
const (
	NeighborRadius       = 100.0 // Horizontal distance that counts as "nearby"
	conformityGate       = 0.5
	conformityRate       = 0.05
	protestMomentumBelow = -20.0
)

// Rand is the subset of *rand.Rand the crowd pass needs.
type Rand interface {
	Float64() float64
}

// Crowd tracks the collective state that outlives a single pass.
type Crowd struct {
	rng            Rand
	ActiveProtests int
}

// NewCrowd creates a crowd tracker over the given random source.
func NewCrowd(rng Rand) *Crowd {
	return &Crowd{rng: rng}
}

// TickReport summarises one crowd pass.
type TickReport struct {
	Influenced  int         `json:"influenced"`
	NewProtests int         `json:"new_protests"`
	Joined      []CitizenID `json:"joined,omitempty"`
}

// Tick runs one conformity and protest pass after every citizen has
// reacted to a decision. Neighbor averages are read from a snapshot taken
// before any citizen moves, so the result does not depend on slice order.
func (cr *Crowd) Tick(all []*Citizen) TickReport {
	var report TickReport

	snapshot := make(map[*Citizen]float64, len(all))
	for _, c := range all {
		if c != nil {
			snapshot[c] = c.CurrentMood
		}
	}

	for _, c := range all {
		if !c.Active() || c.Personality.Traits.Conformity <= conformityGate {
			continue
		}
		near := Neighbors(c, all)
		if len(near) == 0 {
			continue
		}
		sum := 0.0
		for _, n := range near {
			sum += snapshot[n]
		}
		conformity := c.Personality.Traits.Conformity
		influence := (sum/float64(len(near)) - snapshot[c]) * conformity * conformityRate
		c.CurrentMood = clamp(snapshot[c]+influence, MinMood, MaxMood)
		report.Influenced++
	}

	for _, c := range all {
		if !c.Active() || c.Protesting {
			continue
		}
		if c.Personality.Archetype == ArchActivist && c.Memory.EmotionalMomentum < protestMomentumBelow {
			c.Protesting = true
			cr.ActiveProtests++
			report.NewProtests++
			slog.Debug("protest started", "citizen", c.ID, "momentum", c.Memory.EmotionalMomentum)
		}
	}

	if cr.ActiveProtests > 0 {
		for _, c := range all {
			if !c.Active() || c.Protesting {
				continue
			}
			if c.Personality.Traits.Conformity > cr.rng.Float64() {
				c.Protesting = true
				report.Joined = append(report.Joined, c.ID)
			}
		}
	}

	return report
}

// Neighbors returns the active citizens within NeighborRadius of c along
// the street, excluding c itself.
func Neighbors(c *Citizen, all []*Citizen) []*Citizen {
	var out []*Citizen
	for _, other := range all {
		if other == c || !other.Active() {
			continue
		}
		if abs(other.Position.X-c.Position.X) < NeighborRadius {
			out = append(out, other)
		}
	}
	return out
}

// Reset clears collective state for a new session.
func (cr *Crowd) Reset() {
	cr.ActiveProtests = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
