package motion

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/talgya/echo-chamber/internal/citizens"
)

func crowd(t *testing.T) []*citizens.Citizen {
	t.Helper()
	return citizens.NewSpawner(4).SpawnCrowd(citizens.DefaultCrowdSize)
}

func TestStep_NeverTouchesMood(t *testing.T) {
	all := crowd(t)
	all[1].CurrentMood = -40
	all[2].CurrentMood = 30
	all[3].Protesting = true

	before := make([]float64, len(all))
	trust := make([]float64, len(all))
	for i, c := range all {
		before[i] = c.CurrentMood
		trust[i] = c.Memory.TrustInPlatform
	}

	s := NewStepper(1)
	for i := 0; i < 500; i++ {
		s.Step(all)
	}
	for i, c := range all {
		if c.CurrentMood != before[i] || c.Memory.TrustInPlatform != trust[i] {
			t.Fatalf("citizen %d mood/trust changed by motion", c.ID)
		}
	}
	if s.Frame() != 500 {
		t.Fatalf("frame = %d", s.Frame())
	}
}

func TestStep_StaysOnStreet(t *testing.T) {
	all := crowd(t)
	for _, c := range all {
		c.CurrentMood = -45 // chaos
	}
	s := NewStepper(2)
	for i := 0; i < 2000; i++ {
		s.Step(all)
		for _, c := range all {
			if c.Position.X < WrapLeft || c.Position.X > WrapRight {
				t.Fatalf("frame %d: x = %v", i, c.Position.X)
			}
			if c.Position.Y < ChaosTop || c.Position.Y > ChaosLow {
				t.Fatalf("frame %d: y = %v", i, c.Position.Y)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	if wrap(-51) != WrapRight || wrap(751) != WrapLeft || wrap(10) != 10 {
		t.Fatalf("wrap broken")
	}
}

func TestStep_ProtestersGather(t *testing.T) {
	all := crowd(t)
	c := all[0]
	c.Protesting = true
	c.Position.X = 20

	s := NewStepper(3)
	for i := 0; i < 300; i++ {
		s.Step(all[:1])
	}
	if d := c.Position.X - Center; d > 20 || d < -20 {
		t.Fatalf("protester at x=%v, centre %v", c.Position.X, Center)
	}
}

func TestStep_RedrawsVelocityOnStateChange(t *testing.T) {
	all := crowd(t)
	c := all[0]
	c.CurrentMood = 0
	s := NewStepper(5)
	s.Step(all[:1])
	if v := c.Velocity.X; v < -1 || v > 1 {
		t.Fatalf("walking vx = %v", v)
	}
	if c.Velocity.Y != 0 {
		t.Fatalf("walking vy = %v", c.Velocity.Y)
	}

	c.CurrentMood = -45
	s.Step(all[:1])
	if s.last[c.ID] != citizens.StateChaos {
		t.Fatalf("state = %s", s.last[c.ID])
	}
}

func TestStep_Deterministic(t *testing.T) {
	a, b := crowd(t), crowd(t)
	sa, sb := NewStepper(9), NewStepper(9)
	for i := 0; i < 100; i++ {
		sa.Step(a)
		sb.Step(b)
	}
	for i := range a {
		if a[i].Position != b[i].Position {
			t.Fatalf("citizen %d diverged: %+v vs %+v", i, a[i].Position, b[i].Position)
		}
	}
}

func TestLoop_RunsUntilStopped(t *testing.T) {
	var frames atomic.Uint64
	l := NewLoop(time.Millisecond, func(uint64) { frames.Add(1) })

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for frames.Load() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("loop produced %d frames", frames.Load())
		}
		time.Sleep(time.Millisecond)
	}
	l.Stop()
	l.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Stop")
	}
	if l.Frame() < 5 {
		t.Fatalf("frame = %d", l.Frame())
	}
}

func TestLoop_StopBeforeRun(t *testing.T) {
	var frames atomic.Uint64
	l := NewLoop(time.Millisecond, func(uint64) { frames.Add(1) })
	l.Stop()

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run blocked after an early Stop")
	}
	if n := frames.Load(); n != 0 {
		t.Fatalf("stopped loop ran %d frames", n)
	}
}
