// Package svg implements the retained display surface: a small SVG
// element tree whose attributes are mutated on every simulation tick and
// serialized on demand.
//
// The document layers the surface in a fixed order: a full-size
// background hit-plane (which never receives the viewport transform, so
// it keeps capturing pointer events), the arrowhead marker definition,
// then the label, link, and node layers.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is a single SVG element with ordered attributes and children.
type Element struct {
	Tag      string
	Text     string
	attrs    []attribute
	index    map[string]int
	children []*Element
}

type attribute struct {
	key, value string
}

// NewElement creates an element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, index: make(map[string]int)}
}

// SetAttr sets an attribute, preserving first-set ordering.
func (e *Element) SetAttr(key, value string) *Element {
	if i, ok := e.index[key]; ok {
		e.attrs[i].value = value
		return e
	}
	e.index[key] = len(e.attrs)
	e.attrs = append(e.attrs, attribute{key: key, value: value})
	return e
}

// SetFloat sets a numeric attribute using the shortest representation.
func (e *Element) SetFloat(key string, value float64) *Element {
	return e.SetAttr(key, strconv.FormatFloat(value, 'f', 2, 64))
}

// Attr returns the attribute value and whether it is set.
func (e *Element) Attr(key string) (string, bool) {
	if i, ok := e.index[key]; ok {
		return e.attrs[i].value, true
	}
	return "", false
}

// Append adds child elements.
func (e *Element) Append(children ...*Element) *Element {
	e.children = append(e.children, children...)
	return e
}

// Children returns the current child list.
func (e *Element) Children() []*Element {
	return e.children
}

// RemoveChildren detaches all children. Used at teardown.
func (e *Element) RemoveChildren() {
	e.children = nil
}

func (e *Element) writeTo(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.key)
		buf.WriteString(`="`)
		buf.WriteString(escape(a.value))
		buf.WriteByte('"')
	}
	if len(e.children) == 0 && e.Text == "" {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')
	if e.Text != "" {
		buf.WriteString(escape(e.Text))
	}
	if len(e.children) > 0 {
		buf.WriteByte('\n')
		for _, c := range e.children {
			c.writeTo(buf, depth+1)
		}
		buf.WriteString(indent)
	}
	fmt.Fprintf(buf, "</%s>\n", e.Tag)
}

func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}

// Document is the layered surface a view renders into.
type Document struct {
	Width  float64
	Height float64

	Root     *Element
	HitPlane *Element
	Defs     *Element
	Labels   *Element
	Links    *Element
	Nodes    *Element
}

// ArrowMarkerID names the arrowhead marker installed in the defs block.
const ArrowMarkerID = "arrow"

// NewDocument builds the layered surface at the given size.
func NewDocument(width, height float64) *Document {
	root := NewElement("svg")
	root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	root.SetFloat("width", width)
	root.SetFloat("height", height)
	root.SetAttr("viewBox", fmt.Sprintf("0 0 %s %s",
		strconv.FormatFloat(width, 'f', -1, 64),
		strconv.FormatFloat(height, 'f', -1, 64)))

	hit := NewElement("rect")
	hit.SetAttr("class", "hit-plane")
	hit.SetAttr("width", "100%")
	hit.SetAttr("height", "100%")
	hit.SetAttr("fill", "#f8f8f8")

	defs := NewElement("defs")
	marker := NewElement("marker")
	marker.SetAttr("id", ArrowMarkerID)
	marker.SetAttr("viewBox", "0 0 10 10")
	marker.SetAttr("refX", "10")
	marker.SetAttr("refY", "5")
	marker.SetAttr("markerWidth", "6")
	marker.SetAttr("markerHeight", "6")
	marker.SetAttr("orient", "auto")
	head := NewElement("path")
	head.SetAttr("d", "M0,0 L10,5 L0,10 z")
	head.SetAttr("fill", "#666666")
	marker.Append(head)
	defs.Append(marker)

	labels := NewElement("g")
	labels.SetAttr("class", "labels")
	links := NewElement("g")
	links.SetAttr("class", "links")
	nodes := NewElement("g")
	nodes.SetAttr("class", "nodes")

	root.Append(hit, defs, labels, links, nodes)

	return &Document{
		Width:    width,
		Height:   height,
		Root:     root,
		HitPlane: hit,
		Defs:     defs,
		Labels:   labels,
		Links:    links,
		Nodes:    nodes,
	}
}

// Layers returns the groups the viewport transform applies to. The
// hit-plane and defs are deliberately excluded.
func (d *Document) Layers() []*Element {
	return []*Element{d.Labels, d.Links, d.Nodes}
}

// Clear removes every rendered child from the layers. The hit-plane and
// marker definition survive so a subsequent re-bind starts clean.
func (d *Document) Clear() {
	d.Labels.RemoveChildren()
	d.Links.RemoveChildren()
	d.Nodes.RemoveChildren()
}

// WriteTo serializes the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	d.Root.writeTo(&buf, 0)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Bytes serializes the document to a byte slice.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}
