package models

import (
	"github.com/google/uuid"
)

// Graph is the top-level aggregate. It owns two copies of the input:
// a base copy that never changes after construction (neighbor lookups
// read it so highlighting is never contaminated by style mutation) and
// a working copy that the renderer and highlight logic mutate freely.
// Records are deep-copied at construction and never aliased across the
// base/working boundary.
type Graph struct {
	ID string

	// Working copies, mutated continuously while the view is mounted.
	Nodes []*Node
	Links []*Link

	// Base copies, immutable by convention after construction.
	BaseNodes []Node
	BaseLinks []Link
}

// NewGraph validates the input and builds the base/working copies.
// Every link endpoint must name an existing node; a dangling reference
// returns a *MalformedGraphError.
func NewGraph(nodes []Node, links []Link) (*Graph, error) {
	if err := ValidateLinks(nodes, links); err != nil {
		return nil, err
	}

	g := &Graph{
		ID:        uuid.New().String(),
		Nodes:     make([]*Node, len(nodes)),
		Links:     make([]*Link, len(links)),
		BaseNodes: make([]Node, len(nodes)),
		BaseLinks: make([]Link, len(links)),
	}

	for i, n := range nodes {
		base := cloneNode(n)
		work := cloneNode(n)
		g.BaseNodes[i] = base
		g.Nodes[i] = &work
	}
	for i, l := range links {
		base := cloneLink(l)
		work := cloneLink(l)
		g.BaseLinks[i] = base
		g.Links[i] = &work
	}
	return g, nil
}

// ValidateLinks checks that every link endpoint names an existing node.
func ValidateLinks(nodes []Node, links []Link) error {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	for _, l := range links {
		if !ids[l.Source] {
			return &MalformedGraphError{Source: l.Source, Target: l.Target, Missing: l.Source}
		}
		if !ids[l.Target] {
			return &MalformedGraphError{Source: l.Source, Target: l.Target, Missing: l.Target}
		}
	}
	return nil
}

// NeighborsOf returns the identities directly connected to id, including
// id itself. It scans the base link list so the answer reflects the
// original topology regardless of working-copy mutation. O(E) per call.
func (g *Graph) NeighborsOf(id string) map[string]bool {
	neighbors := map[string]bool{id: true}
	for i := range g.BaseLinks {
		l := &g.BaseLinks[i]
		if l.Source == id {
			neighbors[l.Target] = true
		}
		if l.Target == id {
			neighbors[l.Source] = true
		}
	}
	return neighbors
}

// Node returns the working-copy node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func cloneNode(n Node) Node {
	// Value copy covers everything except the pin pointers.
	if n.FX != nil {
		fx := *n.FX
		n.FX = &fx
	}
	if n.FY != nil {
		fy := *n.FY
		n.FY = &fy
	}
	return n
}

func cloneLink(l Link) Link {
	// Live endpoint references are bound by the simulation, never copied in.
	l.From = nil
	l.To = nil
	return l
}
