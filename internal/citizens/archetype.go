// Archetypes: the six personality categories a citizen can be born into.
// Each fixes the mood the citizen drifts back toward between decisions.
package citizens

// Archetype is an immutable personality category.
type Archetype string

// Archetype constants: the 6 personality categories.
const (
	ArchOptimist  Archetype = "optimist"
	ArchPessimist Archetype = "pessimist"
	ArchNeutral   Archetype = "neutral"
	ArchAnxious   Archetype = "anxious"
	ArchActivist  Archetype = "activist"
	ArchZen       Archetype = "zen"
)

// ArchetypeProfile carries an archetype's baseline and display affordance.
type ArchetypeProfile struct {
	DefaultMood float64
	Emoji       string
	Label       string
}

// archetypeOrder fixes the draw order so seeded spawns are reproducible.
var archetypeOrder = [...]Archetype{
	ArchOptimist,
	ArchPessimist,
	ArchNeutral,
	ArchAnxious,
	ArchActivist,
	ArchZen,
}

var archetypeProfiles = map[Archetype]ArchetypeProfile{
	ArchOptimist:  {DefaultMood: 20, Emoji: "😊", Label: "Optimist"},
	ArchPessimist: {DefaultMood: -20, Emoji: "😒", Label: "Pessimist"},
	ArchNeutral:   {DefaultMood: 0, Emoji: "😐", Label: "Neutral"},
	ArchAnxious:   {DefaultMood: -10, Emoji: "😰", Label: "Anxious"},
	ArchActivist:  {DefaultMood: 0, Emoji: "✊", Label: "Activist"},
	ArchZen:       {DefaultMood: 10, Emoji: "🧘", Label: "Zen"},
}

// Archetypes returns every archetype in draw order.
func Archetypes() []Archetype {
	return archetypeOrder[:]
}

// Profile returns the archetype's profile. Unknown archetypes get a neutral
// profile so restored records never fault.
func (a Archetype) Profile() ArchetypeProfile {
	if p, ok := archetypeProfiles[a]; ok {
		return p
	}
	return archetypeProfiles[ArchNeutral]
}

// DefaultMood is the baseline the citizen's mood drifts toward.
func (a Archetype) DefaultMood() float64 {
	return a.Profile().DefaultMood
}

// Valid reports whether a is one of the six known archetypes.
func (a Archetype) Valid() bool {
	_, ok := archetypeProfiles[a]
	return ok
}
