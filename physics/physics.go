// Package physics implements the force simulation that assigns positions
// to graph nodes, and the driver that advances it on a frame clock.
//
// The force model combines per-link springs, pairwise repulsion, a
// centering pull toward the middle of the viewport, fixed-radius
// collision avoidance, and an optional simplex-noise drift. Simulation
// energy is tracked as alpha: it decays toward alphaTarget each step,
// and a step taken at negligible alpha moves nothing but is not an error.
package physics

import (
	"math"
	"sync"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/calderviz/calder/models"
)

// Config holds the simulation parameters. Zero values are replaced by
// the defaults below.
type Config struct {
	Width  float64
	Height float64

	AlphaMin      float64 // energy below which the layout counts as settled
	AlphaDecay    float64 // per-step interpolation factor toward AlphaTarget
	VelocityDecay float64 // per-step velocity damping (0..1)

	Repulsion    float64 // pairwise charge strength
	SpringLength float64 // rest length of link springs
	CollideRadius float64 // extra clearance added to node radii

	DriftAmplitude float64 // simplex drift displacement, 0 disables
	DriftScale     float64 // noise field frequency
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 600
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.001
	}
	if c.AlphaDecay == 0 {
		// Reaches AlphaMin in roughly 300 steps from a cold start.
		c.AlphaDecay = 1 - math.Pow(0.001, 1.0/300)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = 0.4
	}
	if c.Repulsion == 0 {
		c.Repulsion = 30
	}
	if c.SpringLength == 0 {
		c.SpringLength = 60
	}
	if c.DriftScale == 0 {
		c.DriftScale = 0.03
	}
	return c
}

// Simulation is the physics stepper. It is deterministic given its
// accumulated internal state and does not fail: numerical blow-up near
// zero distances is damped, not reported.
type Simulation struct {
	mu    sync.Mutex
	cfg   Config
	nodes []*models.Node
	links []*models.Link

	alpha       float64
	alphaTarget float64

	noise opensimplex.Noise
	t     float64
}

// NewSimulation creates a stepper with the given parameters.
func NewSimulation(cfg Config) *Simulation {
	cfg = cfg.withDefaults()
	s := &Simulation{cfg: cfg, alpha: 1}
	if cfg.DriftAmplitude > 0 {
		s.noise = opensimplex.New(1)
	}
	return s
}

// Seed installs the node collection and binds each link's endpoint
// identities to live node references. Empty collections are fine: the
// stepper runs with no visible effect. A link naming a missing node
// returns a *models.MalformedGraphError.
func (s *Simulation) Seed(nodes []*models.Node, links []*models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]*models.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, l := range links {
		from, ok := byID[l.Source]
		if !ok {
			return &models.MalformedGraphError{Source: l.Source, Target: l.Target, Missing: l.Source}
		}
		to, ok := byID[l.Target]
		if !ok {
			return &models.MalformedGraphError{Source: l.Source, Target: l.Target, Missing: l.Target}
		}
		l.From, l.To = from, to
	}

	s.nodes = nodes
	s.links = links
	s.alpha = 1
	s.placeInitial()
	return nil
}

// placeInitial spreads unpositioned nodes on a phyllotaxis spiral around
// the viewport center so the first steps start from distinct positions.
func (s *Simulation) placeInitial() {
	const initialRadius = 10.0
	angleStep := math.Pi * (3 - math.Sqrt(5))
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for i, n := range s.nodes {
		if n.X != 0 || n.Y != 0 {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * angleStep
		n.X = cx + r*math.Cos(a)
		n.Y = cy + r*math.Sin(a)
	}
}

// Alpha returns the current simulation energy.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Reheat raises the energy floor so the layout keeps animating while the
// user manipulates a node.
func (s *Simulation) Reheat(target float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaTarget = target
	if s.alpha < target {
		s.alpha = target
	}
}

// Cool lets the layout settle back toward rest.
func (s *Simulation) Cool() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaTarget = 0
}

// Step advances the simulation by one tick and reports whether the
// layout has settled (alpha decayed to the floor with no reheat target).
func (s *Simulation) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay
	settled := s.alpha < s.cfg.AlphaMin && s.alphaTarget == 0
	if settled || len(s.nodes) == 0 {
		return settled
	}

	s.applySprings()
	s.applyRepulsion()
	s.applyCentering()
	s.applyCollision()
	if s.noise != nil {
		s.applyDrift()
	}
	s.integrate()
	return false
}

func (s *Simulation) applySprings() {
	for _, l := range s.links {
		if l.From == nil || l.To == nil {
			continue
		}
		dx := l.To.X - l.From.X
		dy := l.To.Y - l.From.Y
		d := math.Hypot(dx, dy)
		if d < 1e-6 {
			// Coincident endpoints: nudge apart instead of dividing by zero.
			dx, dy, d = 1e-6, 0, 1e-6
		}
		strength := l.Strength
		if strength == 0 {
			strength = 0.5
		}
		f := (d - s.cfg.SpringLength) / d * strength * s.alpha
		fx, fy := dx*f, dy*f
		l.From.VX += fx / 2
		l.From.VY += fy / 2
		l.To.VX -= fx / 2
		l.To.VY -= fy / 2
	}
}

func (s *Simulation) applyRepulsion() {
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx = 1e-6
				d2 = 1e-12
			}
			// Clamp the minimum distance so near-coincident pairs get a
			// bounded push instead of a numerical blow-up.
			if d2 < 1 {
				d2 = 1
			}
			d := math.Sqrt(d2)
			f := s.cfg.Repulsion / d2 * s.alpha
			fx := dx / d * f
			fy := dy / d * f
			a.VX += fx
			a.VY += fy
			b.VX -= fx
			b.VY -= fy
		}
	}
}

func (s *Simulation) applyCentering() {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	const gravity = 0.05
	for _, n := range s.nodes {
		n.VX += (cx - n.X) * gravity * s.alpha
		n.VY += (cy - n.Y) * gravity * s.alpha
	}
}

// applyCollision separates overlapping nodes by their rendered radii plus
// the configured clearance.
func (s *Simulation) applyCollision() {
	for i := 0; i < len(s.nodes); i++ {
		a := s.nodes[i]
		ra := a.Style.Radius + s.cfg.CollideRadius
		for j := i + 1; j < len(s.nodes); j++ {
			b := s.nodes[j]
			rb := b.Style.Radius + s.cfg.CollideRadius
			minDist := ra + rb
			dx := a.X - b.X
			dy := a.Y - b.Y
			d := math.Hypot(dx, dy)
			if d >= minDist {
				continue
			}
			if d < 1e-6 {
				dx, dy, d = 1e-6, 0, 1e-6
			}
			overlap := (minDist - d) / d * 0.5 * s.alpha
			a.VX += dx * overlap
			a.VY += dy * overlap
			b.VX -= dx * overlap
			b.VY -= dy * overlap
		}
	}
}

func (s *Simulation) applyDrift() {
	s.t += 0.01
	amp := s.cfg.DriftAmplitude * s.alpha
	for _, n := range s.nodes {
		n.VX += s.noise.Eval3(n.X*s.cfg.DriftScale, n.Y*s.cfg.DriftScale, s.t) * amp
		n.VY += s.noise.Eval3(n.X*s.cfg.DriftScale+100, n.Y*s.cfg.DriftScale+100, s.t) * amp
	}
}

func (s *Simulation) integrate() {
	damp := 1 - s.cfg.VelocityDecay
	for _, n := range s.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= damp
		n.VY *= damp
		n.X += n.VX
		n.Y += n.VY
	}
}

// Settle steps the simulation synchronously until it settles or maxSteps
// is reached, returning the number of steps taken. Used by the one-shot
// exporters; the interactive path drives steps from the frame clock.
func (s *Simulation) Settle(maxSteps int) int {
	if maxSteps <= 0 {
		maxSteps = 300
	}
	for i := 0; i < maxSteps; i++ {
		if s.Step() {
			return i
		}
	}
	return maxSteps
}

// Clock abstracts the frame timer so tests can drive ticks manually.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

type tickerClock struct {
	t *time.Ticker
}

func (c *tickerClock) C() <-chan time.Time { return c.t.C }
func (c *tickerClock) Stop()               { c.t.Stop() }

// NewTickerClock returns a Clock backed by a time.Ticker.
func NewTickerClock(interval time.Duration) Clock {
	return &tickerClock{t: time.NewTicker(interval)}
}
