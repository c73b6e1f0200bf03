// Package render exports a settled graph layout in one shot: SVG for
// display, JSON for downstream tooling, DOT for graphviz pipelines.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calderviz/calder/ingest"
	"github.com/calderviz/calder/models"
	"github.com/calderviz/calder/physics"
	"github.com/calderviz/calder/view"
)

// Options configures the one-shot exporters.
type Options struct {
	Width  float64
	Height float64

	// SettleSteps caps the synchronous layout run. Zero means the
	// simulation default.
	SettleSteps int

	Physics physics.Config
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
	return o
}

// Renderer turns a parsed document into output bytes.
type Renderer interface {
	Render(doc *ingest.Document) ([]byte, error)
	Format() string
	ContentType() string
}

// GetRenderer returns the renderer for a format name.
func GetRenderer(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{opts: opts.withDefaults()}, nil
	case "json":
		return &JSONRenderer{opts: opts.withDefaults()}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SVGRenderer settles the layout and serializes the display surface.
type SVGRenderer struct {
	opts Options
}

// Format returns the format name.
func (r *SVGRenderer) Format() string { return "svg" }

// ContentType returns the MIME type of the output.
func (r *SVGRenderer) ContentType() string { return "image/svg+xml" }

// Render lays the document out to rest and returns the SVG bytes.
func (r *SVGRenderer) Render(doc *ingest.Document) ([]byte, error) {
	v, err := view.New(view.Option{
		Nodes:   doc.Nodes,
		Links:   doc.Links,
		Width:   r.opts.Width,
		Height:  r.opts.Height,
		Physics: r.opts.Physics,
	})
	if err != nil {
		return nil, err
	}
	defer v.Destroy()
	if err := v.Settle(r.opts.SettleSteps); err != nil {
		return nil, err
	}
	return v.Frame(), nil
}

// JSONRenderer settles the layout and emits the positioned node and link
// records for downstream tooling.
type JSONRenderer struct {
	opts Options
}

type jsonOutput struct {
	Name  string        `json:"name"`
	Nodes []models.Node `json:"nodes"`
	Links []models.Link `json:"links"`
}

// Format returns the format name.
func (r *JSONRenderer) Format() string { return "json" }

// ContentType returns the MIME type of the output.
func (r *JSONRenderer) ContentType() string { return "application/json" }

// Render lays the document out to rest and returns the positioned graph
// as indented JSON.
func (r *JSONRenderer) Render(doc *ingest.Document) ([]byte, error) {
	v, err := view.New(view.Option{
		Nodes:   doc.Nodes,
		Links:   doc.Links,
		Width:   r.opts.Width,
		Height:  r.opts.Height,
		Physics: r.opts.Physics,
	})
	if err != nil {
		return nil, err
	}
	defer v.Destroy()
	if err := v.Settle(r.opts.SettleSteps); err != nil {
		return nil, err
	}

	g := v.Graph()
	out := jsonOutput{Name: doc.Name, Nodes: make([]models.Node, len(g.Nodes)), Links: make([]models.Link, len(g.Links))}
	for i, n := range g.Nodes {
		out.Nodes[i] = *n
	}
	for i, l := range g.Links {
		cp := *l
		cp.From, cp.To = nil, nil
		out.Links[i] = cp
	}
	return json.MarshalIndent(out, "", "  ")
}

// DOTRenderer emits graphviz DOT text. Layout is left to the graphviz
// toolchain, so no settle pass runs.
type DOTRenderer struct{}

// Format returns the format name.
func (r *DOTRenderer) Format() string { return "dot" }

// ContentType returns the MIME type of the output.
func (r *DOTRenderer) ContentType() string { return "text/vnd.graphviz" }

// Render emits the document as a directed DOT graph.
func (r *DOTRenderer) Render(doc *ingest.Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", doc.Name)
	buf.WriteString("  node [shape=circle];\n")
	for _, n := range doc.Nodes {
		label := n.Name
		if label == "" {
			label = n.ID
		}
		attrs := fmt.Sprintf("label=%q", label)
		if n.Style.Fill != "" {
			attrs += fmt.Sprintf(", style=filled, fillcolor=%q", n.Style.Fill)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}
	for _, l := range doc.Links {
		if l.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", l.Source, l.Target, l.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
