package motion

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is 20 frames per second.
const DefaultInterval = 50 * time.Millisecond

// Loop drives frames at a fixed interval until stopped.
type Loop struct {
	Interval time.Duration // Base frame interval
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused

	// OnFrame runs every frame with the frame counter.
	OnFrame func(frame uint64)

	mu      sync.Mutex
	frame   uint64
	stop    chan struct{}
	stopped bool
	running bool
}

// NewLoop creates a loop with default settings.
func NewLoop(interval time.Duration, onFrame func(frame uint64)) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		Interval: interval,
		Speed:    1.0,
		OnFrame:  onFrame,
		stop:     make(chan struct{}),
	}
}

// Run starts the frame loop. Blocks until Stop is called; a loop that was
// stopped before Run returns at once.
func (l *Loop) Run() {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return
	}
	l.running = true
	stop := l.stop
	l.mu.Unlock()

	slog.Info("motion loop started", "interval", l.Interval, "speed", l.Speed)

	for {
		speed := l.speed()
		if speed <= 0 {
			// Paused; check again shortly.
			select {
			case <-stop:
				slog.Info("motion loop stopped", "frame", l.Frame())
				return
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		start := time.Now()
		l.step()

		// Sleep for the remainder of the frame, adjusted for speed.
		wait := time.Duration(float64(l.Interval)/speed) - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-stop:
			slog.Info("motion loop stopped", "frame", l.Frame())
			return
		case <-time.After(wait):
		}
	}
}

// Stop halts the loop, or keeps it from starting if Run has not been
// called yet. It is safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		close(l.stop)
		l.stopped = true
	}
}

// SetSpeed changes the speed multiplier; 0 pauses.
func (l *Loop) SetSpeed(speed float64) {
	l.mu.Lock()
	l.Speed = speed
	l.mu.Unlock()
}

// Frame returns the current frame counter.
func (l *Loop) Frame() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

func (l *Loop) speed() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Speed
}

func (l *Loop) step() {
	l.mu.Lock()
	l.frame++
	frame := l.frame
	l.mu.Unlock()

	if l.OnFrame != nil {
		l.OnFrame(frame)
	}
}
