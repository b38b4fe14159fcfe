package frameloop

import (
	"sync"
	"time"
)

// DefaultInterval approximates a 60Hz display refresh
const DefaultInterval = 16 * time.Millisecond

// TickFunc receives the wall-clock time of the frame and the delta since the
// previous one. Returning false ends the loop.
type TickFunc func(now time.Time, dt time.Duration) bool

// Loop calls a tick function on a fixed cadence until the tick function
// declines to continue or Stop is called. One Loop drives one animation.
type Loop struct {
	interval time.Duration
	tick     TickFunc
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	done      chan struct{}
}

// New creates a stopped loop
func New(interval time.Duration, tick TickFunc) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		tick:     tick,
		now:      time.Now,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop goroutine. The first tick runs immediately with a
// zero delta. Subsequent calls are no-ops.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

func (l *Loop) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := l.now()
	if !l.tick(last, 0) {
		return
	}

	for {
		select {
		case <-ticker.C:
			now := l.now()
			dt := now.Sub(last)
			last = now
			if !l.tick(now, dt) {
				return
			}
		case <-l.quit:
			return
		}
	}
}

// Stop ends the loop and waits for the goroutine to exit. It is safe to call
// multiple times, before Start, and from outside the tick function.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.quit)
	})
	l.startOnce.Do(func() {
		// Never started: nothing will close done
		close(l.done)
	})
	<-l.done
}

// Done is closed when the loop goroutine has exited
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
