// Citizen spawning: draws an archetype and trait vector for each seat in
// the crowd and places the citizen on the street.
package citizens

import (
	"math/rand"

	"github.com/talgya/echo-chamber/internal/entropy"
)

// DefaultCrowdSize is the number of citizens in a session.
const DefaultCrowdSize = 10

// Street geometry for spawn placement.
const (
	StreetWidth  = 700.0
	StreetTop    = 380.0
	StreetHeight = 120.0
)

// Spawner creates citizens for a session.
type Spawner struct {
	rng *rand.Rand
}

// NewSpawner creates a spawner with the given seed. A zero seed draws a
// fresh one.
func NewSpawner(seed int64) *Spawner {
	seed = entropy.Resolve(seed)
	return &Spawner{rng: rand.New(rand.NewSource(seed + 300))}
}

// NewSpawnerFromRand wraps an existing random source.
func NewSpawnerFromRand(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng}
}

// SpawnCrowd creates count citizens in slots 0..count-1.
func (s *Spawner) SpawnCrowd(count int) []*Citizen {
	crowd := make([]*Citizen, 0, count)
	for i := 0; i < count; i++ {
		crowd = append(crowd, s.Create(CitizenID(i)))
	}
	return crowd
}

// Create draws a fresh citizen for a slot: uniform archetype, each trait
// uniform over its range, empty memory, mood at the archetype's baseline.
func (s *Spawner) Create(id CitizenID) *Citizen {
	arch := archetypeOrder[s.rng.Intn(len(archetypeOrder))]

	traits := Traits{
		Optimism:      s.rng.Float64(),
		Reactivity:    s.rng.Float64(),
		Conformity:    s.rng.Float64(),
		Resilience:    s.rng.Float64(),
		Skepticism:    s.rng.Float64(),
		PoliticalLean: MinLean + s.rng.Float64()*(MaxLean-MinLean),
	}

	return &Citizen{
		ID:          id,
		Name:        s.generateName(),
		Personality: &Personality{Archetype: arch, Traits: traits},
		Memory:      NewMemory(),
		CurrentMood: arch.DefaultMood(),
		Position: Vec{
			X: s.rng.Float64() * StreetWidth,
			Y: StreetTop + s.rng.Float64()*StreetHeight,
		},
		Velocity: Vec{X: (s.rng.Float64() - 0.5) * 2},
	}
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var firstNames = []string{
	"Astrid", "Bram", "Calla", "Doran", "Elara", "Finn", "Greta",
	"Hugo", "Iris", "Jasper", "Kira", "Leif", "Mira", "Nils",
	"Olwen", "Petra", "Quinn", "Rowan", "Senna", "Theron", "Una",
	"Varen", "Willa", "Yorick", "Zara",
}

var lastNames = []string{
	"Voss", "Thornwood", "Ashford", "Dunmore", "Greenvale", "Millward",
	"Copperfield", "Silverdale", "Deepwell", "Brightwater", "Windholm",
	"Holloway", "Farrow", "Thatcher", "Caldwell", "Harper", "Mercer",
}
