// Package motion moves citizens around the street between decisions. It
// reads each citizen's behavioural state and writes only position and
// velocity; mood and memory are never touched here.
package motion

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/echo-chamber/internal/citizens"
)

// Street bounds in scene units.
const (
	WrapLeft  = -50.0
	WrapRight = 750.0
	ChaosTop  = 380.0
	ChaosLow  = 500.0
	Center    = citizens.StreetWidth / 2
)

// Horizontal velocity spread per state; velocity is drawn uniformly from
// [-spread/2, spread/2] whenever a citizen enters the state.
var spreadX = map[citizens.BehaviorState]float64{
	citizens.StateWalking:    2,
	citizens.StateHappy:      1.5,
	citizens.StateAngry:      3,
	citizens.StateChaos:      6,
	citizens.StateProtesting: 1,
}

const (
	chaosSpreadY      = 2.0
	chaosBurstX       = 8.0
	chaosBurstY       = 3.0
	chaosBurstChance  = 0.1
	happyBob          = 2.0
	protestPull       = 0.02
	jitterAmplitude   = 0.3
	jitterFrequency   = 0.05
	happyBobFrequency = 0.15
)

// Rand is the randomness the stepper draws from.
type Rand interface {
	Float64() float64
}

// Stepper advances citizen motion one frame at a time.
type Stepper struct {
	rng   Rand
	noise opensimplex.Noise
	frame uint64

	last  map[citizens.CitizenID]citizens.BehaviorState
	baseY map[citizens.CitizenID]float64
}

// NewStepper creates a stepper. The seed drives both velocity draws and the
// noise field that adds jitter to every step.
func NewStepper(seed int64) *Stepper {
	return &Stepper{
		rng:   rand.New(rand.NewSource(seed + 500)),
		noise: opensimplex.NewNormalized(seed),
		last:  make(map[citizens.CitizenID]citizens.BehaviorState),
		baseY: make(map[citizens.CitizenID]float64),
	}
}

// Frame returns the number of frames stepped so far.
func (s *Stepper) Frame() uint64 {
	return s.frame
}

// Reset forgets per-citizen motion state, for a new crowd.
func (s *Stepper) Reset() {
	s.last = make(map[citizens.CitizenID]citizens.BehaviorState)
	s.baseY = make(map[citizens.CitizenID]float64)
}

// Step moves every citizen one frame.
func (s *Stepper) Step(all []*citizens.Citizen) {
	s.frame++
	for _, c := range all {
		if c == nil {
			continue
		}
		s.stepOne(c)
	}
}

func (s *Stepper) stepOne(c *citizens.Citizen) {
	state := c.State()
	if prev, seen := s.last[c.ID]; !seen || prev != state {
		s.enter(c, state)
	}

	switch state {
	case citizens.StateChaos:
		c.Position.X += c.Velocity.X
		c.Position.Y += c.Velocity.Y
		if s.rng.Float64() < chaosBurstChance {
			c.Velocity.X = s.spread(chaosBurstX)
			c.Velocity.Y = s.spread(chaosBurstY)
		}
		c.Position.Y = clamp(c.Position.Y, ChaosTop, ChaosLow)
	case citizens.StateHappy:
		c.Position.X += c.Velocity.X
		c.Position.Y = s.baseY[c.ID] + math.Sin(float64(s.frame)*happyBobFrequency)*happyBob
	case citizens.StateProtesting:
		c.Velocity.X = (Center - c.Position.X) * protestPull
		c.Position.X += c.Velocity.X
	default:
		c.Position.X += c.Velocity.X
	}

	c.Position.X += s.jitter(c.ID)
	c.Position.X = wrap(c.Position.X)
}

// enter re-draws velocity for a citizen that changed state.
func (s *Stepper) enter(c *citizens.Citizen, state citizens.BehaviorState) {
	s.last[c.ID] = state
	s.baseY[c.ID] = c.Position.Y
	c.Velocity.X = s.spread(spreadX[state])
	c.Velocity.Y = 0
	if state == citizens.StateChaos {
		c.Velocity.Y = s.spread(chaosSpreadY)
	}
}

// jitter is a small smooth sideways wobble sampled from the noise field.
func (s *Stepper) jitter(id citizens.CitizenID) float64 {
	n := s.noise.Eval2(float64(id)*7.3, float64(s.frame)*jitterFrequency)
	return (n - 0.5) * 2 * jitterAmplitude
}

func (s *Stepper) spread(width float64) float64 {
	return (s.rng.Float64() - 0.5) * width
}

// wrap moves a citizen that walked off one edge to the other.
func wrap(x float64) float64 {
	if x < WrapLeft {
		return WrapRight
	}
	if x > WrapRight {
		return WrapLeft
	}
	return x
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
