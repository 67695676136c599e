package citizens

// BehaviorState is what the animation scheduler reads to decide how a
// citizen moves. The simulation sets it; it never drives timers itself.
type BehaviorState string

const (
	StateWalking    BehaviorState = "walking"
	StateHappy      BehaviorState = "happy"
	StateAngry      BehaviorState = "angry"
	StateChaos      BehaviorState = "chaos"
	StateProtesting BehaviorState = "protesting"
)

// Mood thresholds for behavioural states.
const (
	chaosBelow = -30
	angryBelow = -10
	happyAbove = 20
)

// StateForMood maps a mood to its behavioural state.
func StateForMood(mood float64) BehaviorState {
	switch {
	case mood < chaosBelow:
		return StateChaos
	case mood < angryBelow:
		return StateAngry
	case mood > happyAbove:
		return StateHappy
	default:
		return StateWalking
	}
}
