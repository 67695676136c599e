package citizens

import (
	"testing"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func placed(arch Archetype, traits Traits, x, mood float64) *Citizen {
	c := newTestCitizen(arch, traits)
	c.Position = Vec{X: x, Y: StreetTop}
	c.CurrentMood = mood
	return c
}

func TestCrowdTick_ConformistDriftsTowardNeighbors(t *testing.T) {
	follower := placed(ArchNeutral, Traits{Conformity: 0.9}, 0, 0)
	loner := placed(ArchNeutral, Traits{Conformity: 0.1}, 50, 20)
	far := placed(ArchNeutral, Traits{Conformity: 0.1}, 500, -40)

	cr := NewCrowd(fixedRand(0.99))
	report := cr.Tick([]*Citizen{follower, loner, far})

	approx(t, "follower", follower.CurrentMood, 0.9)
	approx(t, "loner", loner.CurrentMood, 20)
	approx(t, "far", far.CurrentMood, -40)
	if report.Influenced != 1 {
		t.Fatalf("influenced = %d, want 1", report.Influenced)
	}
}

func TestCrowdTick_SnapshotIsOrderIndependent(t *testing.T) {
	run := func(reverse bool) (float64, float64) {
		a := placed(ArchNeutral, Traits{Conformity: 1}, 0, 0)
		b := placed(ArchNeutral, Traits{Conformity: 1}, 10, 10)
		all := []*Citizen{a, b}
		if reverse {
			all = []*Citizen{b, a}
		}
		NewCrowd(fixedRand(0.99)).Tick(all)
		return a.CurrentMood, b.CurrentMood
	}

	a1, b1 := run(false)
	a2, b2 := run(true)
	approx(t, "a", a1, 0.5)
	approx(t, "b", b1, 9.5)
	if a1 != a2 || b1 != b2 {
		t.Fatalf("order dependent: (%v,%v) vs (%v,%v)", a1, b1, a2, b2)
	}
}

func TestCrowdTick_NoNeighborsNoInfluence(t *testing.T) {
	c := placed(ArchNeutral, Traits{Conformity: 1}, 0, 10)
	other := placed(ArchNeutral, Traits{Conformity: 1}, 100, -10)
	NewCrowd(fixedRand(0.99)).Tick([]*Citizen{c, other})
	approx(t, "mood", c.CurrentMood, 10)
}

func TestCrowdTick_ActivistStartsProtestOnce(t *testing.T) {
	activist := placed(ArchActivist, Traits{}, 0, -30)
	activist.Memory.EmotionalMomentum = -25
	calm := placed(ArchNeutral, Traits{Conformity: 0.2}, 600, 0)

	cr := NewCrowd(fixedRand(0.5))
	report := cr.Tick([]*Citizen{activist, calm})

	if !activist.Protesting || activist.State() != StateProtesting {
		t.Fatalf("activist not protesting")
	}
	if cr.ActiveProtests != 1 || report.NewProtests != 1 {
		t.Fatalf("protests = %d, new = %d", cr.ActiveProtests, report.NewProtests)
	}
	if calm.Protesting {
		t.Fatalf("low-conformity citizen joined")
	}

	cr.Tick([]*Citizen{activist, calm})
	if cr.ActiveProtests != 1 {
		t.Fatalf("protest counted twice: %d", cr.ActiveProtests)
	}
}

func TestCrowdTick_NonActivistNeverStartsProtest(t *testing.T) {
	angry := placed(ArchPessimist, Traits{}, 0, -50)
	angry.Memory.EmotionalMomentum = -100

	cr := NewCrowd(fixedRand(0.0))
	cr.Tick([]*Citizen{angry})
	if cr.ActiveProtests != 0 || angry.Protesting {
		t.Fatalf("pessimist started a protest")
	}
}

func TestCrowdTick_ProtestSpreadsByConformity(t *testing.T) {
	activist := placed(ArchActivist, Traits{}, 0, -30)
	activist.Memory.EmotionalMomentum = -21
	joiner := placed(ArchNeutral, Traits{Conformity: 0.6}, 300, 0)
	holdout := placed(ArchNeutral, Traits{Conformity: 0.4}, 600, 0)

	cr := NewCrowd(fixedRand(0.5))
	report := cr.Tick([]*Citizen{activist, joiner, holdout})

	if !joiner.Protesting {
		t.Fatalf("conformist did not join")
	}
	if holdout.Protesting {
		t.Fatalf("holdout joined")
	}
	if len(report.Joined) != 1 || report.Joined[0] != joiner.ID {
		t.Fatalf("joined = %v", report.Joined)
	}
}

func TestCrowdTick_SkipsInertCitizens(t *testing.T) {
	inert := &Citizen{Position: Vec{X: 0}, CurrentMood: 40}
	c := placed(ArchNeutral, Traits{Conformity: 1}, 10, 0)

	NewCrowd(fixedRand(0.0)).Tick([]*Citizen{inert, c, nil})
	approx(t, "mood", c.CurrentMood, 0)
	if inert.CurrentMood != 40 || inert.Protesting {
		t.Fatalf("inert citizen mutated: %+v", inert)
	}
}

func TestStateForMood(t *testing.T) {
	cases := map[float64]BehaviorState{
		-31: StateChaos,
		-30: StateAngry,
		-11: StateAngry,
		-10: StateWalking,
		20:  StateWalking,
		21:  StateHappy,
	}
	for mood, want := range cases {
		if got := StateForMood(mood); got != want {
			t.Fatalf("StateForMood(%v) = %s, want %s", mood, got, want)
		}
	}
}
