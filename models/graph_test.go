package models

import (
	"errors"
	"testing"
)

func pathGraph() ([]Node, []Link) {
	nodes := []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	links := []Link{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	}
	return nodes, links
}

func TestNewGraphValidates(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []Node
		links   []Link
		missing string
	}{
		{"dangling source", []Node{{ID: "a"}}, []Link{{Source: "x", Target: "a"}}, "x"},
		{"dangling target", []Node{{ID: "a"}}, []Link{{Source: "a", Target: "y"}}, "y"},
		{"no nodes at all", nil, []Link{{Source: "a", Target: "b"}}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.nodes, tt.links)
			var mg *MalformedGraphError
			if !errors.As(err, &mg) {
				t.Fatalf("NewGraph error = %v, want *MalformedGraphError", err)
			}
			if mg.Missing != tt.missing {
				t.Errorf("Missing = %q, want %q", mg.Missing, tt.missing)
			}
		})
	}
}

func TestNewGraphEmptyIsValid(t *testing.T) {
	g, err := NewGraph(nil, nil)
	if err != nil {
		t.Fatalf("NewGraph(nil, nil) error = %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Errorf("empty graph has %d nodes, %d links", len(g.Nodes), len(g.Links))
	}
	if g.ID == "" {
		t.Error("graph ID is empty")
	}
}

func TestNeighborsOf(t *testing.T) {
	nodes, links := pathGraph()
	g, err := NewGraph(nodes, links)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"a", "b"}},
		{"b", []string{"a", "b", "c"}},
		{"c", []string{"b", "c"}},
		{"d", []string{"d"}}, // isolated node is its own neighborhood
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := g.NeighborsOf(tt.id)
			if len(got) != len(tt.want) {
				t.Fatalf("NeighborsOf(%q) = %v, want %v", tt.id, got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("NeighborsOf(%q) missing %q", tt.id, id)
				}
			}
		})
	}
}

func TestNeighborsIgnoreWorkingMutation(t *testing.T) {
	nodes, links := pathGraph()
	g, err := NewGraph(nodes, links)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the working copy must not change the answer.
	g.Links[0].Source = "c"
	g.Links[0].Target = "d"

	got := g.NeighborsOf("a")
	if !got["b"] {
		t.Error("NeighborsOf(a) lost b after working-copy mutation")
	}
	if got["d"] {
		t.Error("NeighborsOf(a) picked up d from working-copy mutation")
	}
}

func TestWorkingCopiesDoNotAliasBase(t *testing.T) {
	nodes, links := pathGraph()
	g, err := NewGraph(nodes, links)
	if err != nil {
		t.Fatal(err)
	}

	g.Nodes[0].Style.Opacity = 0.2
	g.Nodes[0].X = 999
	if g.BaseNodes[0].Style.Opacity == 0.2 {
		t.Error("working style mutation leaked into base copy")
	}
	if g.BaseNodes[0].X == 999 {
		t.Error("working position mutation leaked into base copy")
	}
}

func TestClonePinPointers(t *testing.T) {
	n := Node{ID: "a"}
	n.Pin(10, 20)
	g, err := NewGraph([]Node{n}, nil)
	if err != nil {
		t.Fatal(err)
	}

	*g.Nodes[0].FX = 77
	if *n.FX == 77 {
		t.Error("working pin pointer aliases the input node")
	}
	if *g.BaseNodes[0].FX != 10 {
		t.Errorf("base FX = %v, want 10", *g.BaseNodes[0].FX)
	}
}

func TestPinUnpin(t *testing.T) {
	n := &Node{ID: "a", X: 1, Y: 2}
	if n.Pinned() {
		t.Error("new node reports pinned")
	}
	n.Pin(5, 6)
	if !n.Pinned() {
		t.Error("node not pinned after Pin")
	}
	if n.X != 5 || n.Y != 6 {
		t.Errorf("Pin did not move node: (%v, %v)", n.X, n.Y)
	}
	n.Unpin()
	if n.Pinned() {
		t.Error("node still pinned after Unpin")
	}
}

func TestMalformedGraphErrorMessage(t *testing.T) {
	err := &MalformedGraphError{Source: "a", Target: "b", Missing: "b"}
	want := `malformed graph: link a -> b references missing node "b"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
