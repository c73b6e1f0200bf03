// Package models defines the data types shared by the calder view,
// simulation, and rendering layers: nodes, links, style records, and the
// graph aggregate that keeps a pristine base copy of its input alongside
// the working copy the renderer mutates.
package models

import "fmt"

// ItemStyle describes the visual attributes of a rendered node.
// Every field is independently optional; zero values are filled from the
// default table by the style package before anything is rendered.
type ItemStyle struct {
	Shape       string  `json:"shape,omitempty" yaml:"shape,omitempty"`
	Radius      float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Fill        string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// LineStyle describes the visual attributes of a rendered link.
type LineStyle struct {
	Stroke  string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Width   float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Dash    string  `json:"dash,omitempty" yaml:"dash,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// TextStyle describes the visual attributes of a rendered label.
type TextStyle struct {
	Fill    string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Size    float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Anchor  string  `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Dy      float64 `json:"dy,omitempty" yaml:"dy,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Node is a graph vertex. ID must be unique within a graph instance and
// stable across re-layout. X/Y/VX/VY belong to the physics stepper; FX/FY
// pin the node to a fixed position while it is being dragged and are nil
// whenever the node moves freely.
type Node struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Group      int       `json:"group,omitempty" yaml:"group,omitempty"`
	Category   int       `json:"category,omitempty" yaml:"category,omitempty"`
	Style      ItemStyle `json:"style,omitempty" yaml:"style,omitempty"`
	LabelStyle TextStyle `json:"labelStyle,omitempty" yaml:"labelStyle,omitempty"`

	X  float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y  float64  `json:"y,omitempty" yaml:"y,omitempty"`
	VX float64  `json:"-" yaml:"-"`
	VY float64  `json:"-" yaml:"-"`
	FX *float64 `json:"-" yaml:"-"`
	FY *float64 `json:"-" yaml:"-"`
}

// Pin fixes the node at (x, y) so the stepper stops integrating it.
func (n *Node) Pin(x, y float64) {
	fx, fy := x, y
	n.FX, n.FY = &fx, &fy
	n.X, n.Y = x, y
}

// Unpin returns the node to free physics integration.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node is held at a fixed position.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Link is an edge between two node identities. Strength is the spring
// coefficient used by the simulation. From/To are live node references
// bound once when the simulation is seeded; hosts work with the identity
// strings and must not construct cycles through these pointers.
type Link struct {
	Source     string    `json:"source" yaml:"source"`
	Target     string    `json:"target" yaml:"target"`
	Strength   float64   `json:"strength,omitempty" yaml:"strength,omitempty"`
	Style      LineStyle `json:"style,omitempty" yaml:"style,omitempty"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	LabelStyle TextStyle `json:"labelStyle,omitempty" yaml:"labelStyle,omitempty"`

	From *Node `json:"-" yaml:"-"`
	To   *Node `json:"-" yaml:"-"`
}

// MalformedGraphError reports a link whose endpoint does not name an
// existing node. Construction fails fast with this error instead of
// letting a dangling reference degrade into invisible geometry.
type MalformedGraphError struct {
	Source  string
	Target  string
	Missing string
}

func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: link %s -> %s references missing node %q", e.Source, e.Target, e.Missing)
}
