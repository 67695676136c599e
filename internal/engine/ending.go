package engine

// EndingKind identifies one of the five narrative outcomes.
type EndingKind string

const (
	EndingHarmony      EndingKind = "harmony"
	EndingChaos        EndingKind = "chaos"
	EndingSurveillance EndingKind = "surveillance"
	EndingGhostTown    EndingKind = "ghost_town"
	EndingMediocre     EndingKind = "mediocre"
)

// Ending is the outcome a finished session resolves to.
type Ending struct {
	Kind        EndingKind `json:"kind"`
	Emoji       string     `json:"emoji"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

var endings = map[EndingKind]Ending{
	EndingHarmony: {
		Kind:        EndingHarmony,
		Emoji:       "🌈",
		Title:       "Harmony Achieved",
		Description: "Society found peace and balance. Your thoughtful curation created a calm, unified community. However, the platform's owners fired you for 'low engagement metrics.' Sometimes doing the right thing has a cost.",
	},
	EndingChaos: {
		Kind:        EndingChaos,
		Emoji:       "🔥",
		Title:       "Descent into Chaos",
		Description: "The city burns with rage and division. Your algorithm fed the flames of discord for clicks and views. Engagement is through the roof, and you've been promoted to Chief Algorithm Officer. Was it worth it?",
	},
	EndingSurveillance: {
		Kind:        EndingSurveillance,
		Emoji:       "👁️",
		Title:       "Surveillance State",
		Description: "Your biased curation empowered one political faction to dominate. Democracy withered as dissent was silenced. The algorithm became the architect of authoritarianism.",
	},
	EndingGhostTown: {
		Kind:        EndingGhostTown,
		Emoji:       "👻",
		Title:       "Digital Ghost Town",
		Description: "Your heavy-handed moderation drove everyone away. The platform died, taking countless connections and communities with it. In trying to control the conversation, you ended it.",
	},
	EndingMediocre: {
		Kind:        EndingMediocre,
		Emoji:       "🤷",
		Title:       "Mediocre Middle",
		Description: "You maintained the status quo. Nothing got better, nothing got worse. The endless scroll continues, and society remains trapped in the echo chamber. Another day, another feed.",
	},
}

// DetermineEnding picks the outcome for a final state. Rules are checked in
// priority order and the first match wins.
func DetermineEnding(g GlobalState) Ending {
	switch {
	case g.Mood >= 30 && g.Engagement < 50:
		return endings[EndingHarmony]
	case g.Mood <= -30 && g.Engagement >= 50:
		return endings[EndingChaos]
	case g.Bias.Lopsided():
		return endings[EndingSurveillance]
	case g.Engagement <= 10:
		return endings[EndingGhostTown]
	default:
		return endings[EndingMediocre]
	}
}
