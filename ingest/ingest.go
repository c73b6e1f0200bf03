// Package ingest parses graph documents into the node and link
// collections a view is constructed from, applying palette colors where
// a document carries none of its own.
package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calderviz/calder/models"
	"github.com/calderviz/calder/style"
)

// Document is a parsed, validated graph input.
type Document struct {
	Name  string
	Nodes []models.Node
	Links []models.Link
}

// DataProcessor parses raw bytes into a Document.
type DataProcessor interface {
	ProcessData(data []byte) (*Document, error)
	Name() string
}

// rawGraph is the wire shape shared by the JSON and YAML processors.
type rawGraph struct {
	Name  string        `json:"name" yaml:"name"`
	Nodes []models.Node `json:"nodes" yaml:"nodes"`
	Links []models.Link `json:"links" yaml:"links"`
}

// JSONProcessor parses JSON graph documents.
type JSONProcessor struct {
	palette *style.Palette
}

// NewJSONProcessor creates a JSON processor. A nil palette means the
// default palette.
func NewJSONProcessor(palette *style.Palette) *JSONProcessor {
	if palette == nil {
		palette = style.DefaultPalette()
	}
	return &JSONProcessor{palette: palette}
}

// Name returns the processor name.
func (p *JSONProcessor) Name() string { return "json" }

// ProcessData parses and validates a JSON graph document.
func (p *JSONProcessor) ProcessData(data []byte) (*Document, error) {
	var raw rawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing JSON graph: %w", err)
	}
	return finish(raw, p.palette)
}

// YAMLProcessor parses YAML graph documents.
type YAMLProcessor struct {
	palette *style.Palette
}

// NewYAMLProcessor creates a YAML processor. A nil palette means the
// default palette.
func NewYAMLProcessor(palette *style.Palette) *YAMLProcessor {
	if palette == nil {
		palette = style.DefaultPalette()
	}
	return &YAMLProcessor{palette: palette}
}

// Name returns the processor name.
func (p *YAMLProcessor) Name() string { return "yaml" }

// ProcessData parses and validates a YAML graph document.
func (p *YAMLProcessor) ProcessData(data []byte) (*Document, error) {
	var raw rawGraph
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML graph: %w", err)
	}
	return finish(raw, p.palette)
}

// finish validates the parsed graph and applies palette colors to
// records that carry none.
func finish(raw rawGraph, palette *style.Palette) (*Document, error) {
	if err := models.ValidateLinks(raw.Nodes, raw.Links); err != nil {
		return nil, err
	}
	for i := range raw.Nodes {
		n := &raw.Nodes[i]
		if n.Style.Fill == "" {
			n.Style.Fill = palette.NodeColor(n.Group)
		}
		if n.Name == "" {
			n.Name = n.ID
		}
	}
	for i := range raw.Links {
		l := &raw.Links[i]
		if l.Style.Stroke == "" {
			l.Style.Stroke = palette.EdgeColor(0)
		}
	}
	name := raw.Name
	if name == "" {
		name = "graph"
	}
	return &Document{Name: name, Nodes: raw.Nodes, Links: raw.Links}, nil
}

// ProcessorFor returns the processor for a file path based on its
// extension.
func ProcessorFor(path string, palette *style.Palette) (DataProcessor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONProcessor(palette), nil
	case ".yaml", ".yml":
		return NewYAMLProcessor(palette), nil
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", filepath.Ext(path))
	}
}
