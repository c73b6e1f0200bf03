package physics

import (
	"sync"
	"time"
)

// DefaultInterval is the frame clock cadence, roughly 60 frames/second.
const DefaultInterval = 16 * time.Millisecond

// Driver advances a Simulation on a frame clock and invokes a display
// callback after every step. Its lifecycle is Idle -> Running -> Idle:
// Start spins the clock goroutine, Stop cancels future ticks exactly
// once (an in-flight tick runs to completion), and Reheat/Cool move the
// simulation through its transient cooling phase around a drag gesture.
type Driver struct {
	sim      *Simulation
	interval time.Duration

	mu      sync.Mutex
	clock   Clock
	quit    chan struct{}
	running bool
}

// NewDriver creates a driver for sim ticking at interval. A zero
// interval means DefaultInterval.
func NewDriver(sim *Simulation, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{sim: sim, interval: interval}
}

// Start begins ticking, invoking onTick after each simulation step.
// Starting a running driver is a no-op. clock may be nil, in which case
// a ticker clock at the configured interval is used.
func (d *Driver) Start(onTick func()) {
	d.StartWithClock(nil, onTick)
}

// StartWithClock is Start with an injected frame clock, for tests.
func (d *Driver) StartWithClock(clock Clock, onTick func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	if clock == nil {
		clock = NewTickerClock(d.interval)
	}
	d.clock = clock
	d.quit = make(chan struct{})
	d.running = true

	go func(clock Clock, quit chan struct{}) {
		for {
			select {
			case <-quit:
				return
			case <-clock.C():
				d.sim.Step()
				if onTick != nil {
					onTick()
				}
			}
		}
	}(clock, d.quit)
}

// Reheat raises the simulation's energy target; called on drag start and
// while a node is being dragged.
func (d *Driver) Reheat(target float64) {
	d.sim.Reheat(target)
}

// Cool lets the simulation settle toward rest; called on drag end.
func (d *Driver) Cool() {
	d.sim.Cool()
}

// Stop halts ticking. Idempotent; only future scheduling is cancelled.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.running = false
	close(d.quit)
	d.clock.Stop()
}

// Running reports whether the driver is ticking.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
