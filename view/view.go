// Package view implements the interactive graph component: it owns the
// graph aggregate, the display surface, the simulation driver, and the
// interaction and viewport state, and keeps them synchronized on every
// simulation tick.
package view

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calderviz/calder/geom"
	"github.com/calderviz/calder/models"
	"github.com/calderviz/calder/physics"
	"github.com/calderviz/calder/style"
	"github.com/calderviz/calder/svg"
)

// PointerEvent carries the pointer coordinates handlers need. It is
// passed explicitly into every handler invocation; there is no ambient
// event state.
type PointerEvent struct {
	X, Y float64
}

// Option is the construction input for a view. All callbacks are
// optional, fire-and-forget, and invoked synchronously from the
// pointer-event entry points; a nil callback is silently skipped.
type Option struct {
	Nodes []models.Node
	Links []models.Link

	Width  float64
	Height float64

	// Initial viewport transform. Zero Scale means identity.
	Scale      float64
	TranslateX float64
	TranslateY float64

	// FadeOpacity is applied to non-neighbors during selection.
	FadeOpacity float64

	Physics      physics.Config
	TickInterval time.Duration

	Logger *log.Logger

	OnNodeClick           func(*View, *models.Node)
	OnNodeMouseOver       func(*View, *models.Node)
	OnNodeMouseOut        func(*View, *models.Node)
	OnBackgroundMouseOver func(*View, PointerEvent)
}

func (o Option) withDefaults() Option {
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
	if o.FadeOpacity == 0 {
		o.FadeOpacity = 0.2
	}
	if o.TickInterval == 0 {
		o.TickInterval = physics.DefaultInterval
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// View is a mounted graph component. It is constructed once per mount,
// mutated continuously while mounted, and explicitly torn down with
// Destroy. One mutex serializes every mutating entry point: simulation
// ticks, pointer events, zoom, and lifecycle calls never interleave.
type View struct {
	mu sync.Mutex

	opt    Option
	graph  *models.Graph
	doc    *svg.Document
	sim    *physics.Simulation
	driver *physics.Driver
	logger *log.Logger

	nodeEls  map[string]*svg.Element
	labelEls map[string]*svg.Element
	linkEls  []*svg.Element
	edgeLbls []*svg.Element

	transform transform
	selected  string
	dragging  string
	destroyed bool
}

// New validates the input, resolves styles, deep-copies the base and
// working collections, and builds the display surface. The simulation
// does not start until UpdateSimulation is called.
func New(opt Option) (*View, error) {
	opt = opt.withDefaults()

	nodes := make([]models.Node, len(opt.Nodes))
	for i, n := range opt.Nodes {
		n.Style = style.ResolveItem(n.Style)
		n.LabelStyle = style.ResolveText(n.LabelStyle)
		nodes[i] = n
	}
	links := make([]models.Link, len(opt.Links))
	for i, l := range opt.Links {
		l.Style = style.ResolveLine(l.Style)
		l.LabelStyle = style.ResolveText(l.LabelStyle)
		links[i] = l
	}

	g, err := models.NewGraph(nodes, links)
	if err != nil {
		return nil, fmt.Errorf("constructing graph: %w", err)
	}

	cfg := opt.Physics
	cfg.Width = opt.Width
	cfg.Height = opt.Height

	v := &View{
		opt:    opt,
		graph:  g,
		doc:    svg.NewDocument(opt.Width, opt.Height),
		sim:    physics.NewSimulation(cfg),
		logger: opt.Logger,
	}
	if opt.Scale != 0 {
		v.transform = transform{Scale: opt.Scale, TX: opt.TranslateX, TY: opt.TranslateY}
	}
	v.bindLayers()
	v.logger.Debug("view constructed", "graph", g.ID, "nodes", len(nodes), "links", len(links))
	return v, nil
}

// Graph exposes the aggregate for host callbacks that want to mutate
// working styles and trigger a re-render.
func (v *View) Graph() *models.Graph {
	return v.graph
}

// Document exposes the display surface.
func (v *View) Document() *svg.Document {
	return v.doc
}

// UpdateGraph re-binds the current working data to the render layers.
// Existing rendered children are replaced wholesale; interaction state
// (selection, drag pins) carries over because it lives on the working
// copies, not on the elements.
func (v *View) UpdateGraph() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bindLayers()
}

func (v *View) bindLayers() {
	if v.destroyed {
		return
	}
	v.doc.Clear()
	v.nodeEls = make(map[string]*svg.Element, len(v.graph.Nodes))
	v.labelEls = make(map[string]*svg.Element, len(v.graph.Nodes))
	v.linkEls = make([]*svg.Element, len(v.graph.Links))
	v.edgeLbls = make([]*svg.Element, len(v.graph.Links))

	for i, l := range v.graph.Links {
		line := svg.NewElement("line")
		line.SetAttr("stroke", l.Style.Stroke)
		line.SetFloat("stroke-width", l.Style.Width)
		if l.Style.Dash != "" {
			line.SetAttr("stroke-dasharray", l.Style.Dash)
		}
		line.SetFloat("opacity", l.Style.Opacity)
		line.SetAttr("marker-end", "url(#"+svg.ArrowMarkerID+")")
		v.doc.Links.Append(line)
		v.linkEls[i] = line

		if l.Label != "" {
			text := svg.NewElement("text")
			text.Text = l.Label
			text.SetAttr("fill", l.LabelStyle.Fill)
			text.SetFloat("font-size", l.LabelStyle.Size)
			text.SetAttr("text-anchor", l.LabelStyle.Anchor)
			text.SetFloat("opacity", l.LabelStyle.Opacity)
			v.doc.Labels.Append(text)
			v.edgeLbls[i] = text
		}
	}

	for _, n := range v.graph.Nodes {
		circle := svg.NewElement("circle")
		circle.SetFloat("r", n.Style.Radius)
		circle.SetAttr("fill", n.Style.Fill)
		circle.SetAttr("stroke", n.Style.Stroke)
		circle.SetFloat("stroke-width", n.Style.StrokeWidth)
		circle.SetFloat("opacity", n.Style.Opacity)
		v.doc.Nodes.Append(circle)
		v.nodeEls[n.ID] = circle

		label := svg.NewElement("text")
		label.Text = n.Name
		label.SetAttr("fill", n.LabelStyle.Fill)
		label.SetFloat("font-size", n.LabelStyle.Size)
		label.SetAttr("text-anchor", n.LabelStyle.Anchor)
		label.SetFloat("opacity", n.LabelStyle.Opacity)
		v.doc.Labels.Append(label)
		v.labelEls[n.ID] = label
	}

	v.syncGeometry()
	v.applyTransform()
}

// UpdateSimulation re-binds the render layers, seeds the stepper with
// the working collections, and (re)starts the frame-driven tick loop.
func (v *View) UpdateSimulation() error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.bindLayers()
	if err := v.sim.Seed(v.graph.Nodes, v.graph.Links); err != nil {
		v.mu.Unlock()
		return fmt.Errorf("seeding simulation: %w", err)
	}
	old := v.driver
	v.driver = physics.NewDriver(v.sim, v.opt.TickInterval)
	driver := v.driver
	v.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	driver.Start(v.handleTick)
	return nil
}

// Settle re-binds the layers, seeds the stepper, and runs it to rest
// synchronously without starting the frame driver. Static renderers use
// this to produce a final layout in one call.
func (v *View) Settle(maxSteps int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return nil
	}
	v.bindLayers()
	if err := v.sim.Seed(v.graph.Nodes, v.graph.Links); err != nil {
		return fmt.Errorf("seeding simulation: %w", err)
	}
	steps := v.sim.Settle(maxSteps)
	v.syncGeometry()
	v.logger.Debug("layout settled", "graph", v.graph.ID, "steps", steps)
	return nil
}

func (v *View) handleTick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.syncGeometry()
}

// syncGeometry recomputes every rendered position from the simulation
// state: circle centers, label offsets, and link endpoints trimmed to
// each endpoint's rendered radius. Callers hold v.mu.
func (v *View) syncGeometry() {
	for _, n := range v.graph.Nodes {
		if el, ok := v.nodeEls[n.ID]; ok {
			el.SetFloat("cx", n.X)
			el.SetFloat("cy", n.Y)
		}
		if el, ok := v.labelEls[n.ID]; ok {
			el.SetFloat("x", n.X)
			el.SetFloat("y", n.Y+n.Style.Radius+n.LabelStyle.Size+2)
		}
	}
	for i, l := range v.graph.Links {
		from := v.graph.Node(l.Source)
		to := v.graph.Node(l.Target)
		if from == nil || to == nil {
			continue
		}
		src := geom.Point{X: from.X, Y: from.Y}
		dst := geom.Point{X: to.X, Y: to.Y}
		p1 := geom.TrimFromBoundary(src, dst, from.Style.Radius)
		p2 := geom.TrimToBoundary(src, dst, to.Style.Radius)

		line := v.linkEls[i]
		line.SetFloat("x1", p1.X)
		line.SetFloat("y1", p1.Y)
		line.SetFloat("x2", p2.X)
		line.SetFloat("y2", p2.Y)

		if lbl := v.edgeLbls[i]; lbl != nil {
			mid := geom.Midpoint(p1, p2)
			lbl.SetFloat("x", mid.X)
			lbl.SetFloat("y", mid.Y)
		}
	}
}

// Frame synchronizes geometry and serializes the current surface.
func (v *View) Frame() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.destroyed {
		v.syncGeometry()
	}
	return v.doc.Bytes()
}

// Destroy stops the stepper, removes all rendered children, and makes
// every further tick or pointer event a no-op. Idempotent.
func (v *View) Destroy() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.destroyed = true
	driver := v.driver
	v.driver = nil
	v.doc.Clear()
	v.mu.Unlock()

	if driver != nil {
		driver.Stop()
	}
	v.logger.Debug("view destroyed", "graph", v.graph.ID)
}

// Destroyed reports whether the view has been torn down.
func (v *View) Destroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}
