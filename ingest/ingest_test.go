package ingest

import (
	"errors"
	"testing"

	"github.com/calderviz/calder/models"
	"github.com/calderviz/calder/style"
)

const jsonDoc = `{
	"name": "deps",
	"nodes": [
		{"id": "a", "name": "Alpha", "group": 0},
		{"id": "b", "group": 1},
		{"id": "c", "group": 1, "style": {"fill": "#abcdef"}}
	],
	"links": [
		{"source": "a", "target": "b", "label": "uses"},
		{"source": "b", "target": "c", "strength": 0.8}
	]
}`

const yamlDoc = `name: deps
nodes:
  - id: a
    name: Alpha
    group: 0
  - id: b
    group: 1
  - id: c
    group: 1
    style:
      fill: "#abcdef"
links:
  - source: a
    target: b
    label: uses
  - source: b
    target: c
    strength: 0.8
`

func TestJSONAndYAMLAgree(t *testing.T) {
	jd, err := NewJSONProcessor(nil).ProcessData([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	yd, err := NewYAMLProcessor(nil).ProcessData([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}

	if jd.Name != yd.Name {
		t.Errorf("names differ: %q vs %q", jd.Name, yd.Name)
	}
	if len(jd.Nodes) != len(yd.Nodes) || len(jd.Links) != len(yd.Links) {
		t.Fatalf("sizes differ: json %d/%d, yaml %d/%d",
			len(jd.Nodes), len(jd.Links), len(yd.Nodes), len(yd.Links))
	}
	for i := range jd.Nodes {
		if jd.Nodes[i] != yd.Nodes[i] {
			t.Errorf("node %d differs:\njson: %+v\nyaml: %+v", i, jd.Nodes[i], yd.Nodes[i])
		}
	}
	for i := range jd.Links {
		if jd.Links[i] != yd.Links[i] {
			t.Errorf("link %d differs:\njson: %+v\nyaml: %+v", i, jd.Links[i], yd.Links[i])
		}
	}
}

func TestPaletteAppliedByGroup(t *testing.T) {
	pal := style.DefaultPalette()
	doc, err := NewJSONProcessor(pal).ProcessData([]byte(jsonDoc))
	if err != nil {
		t.Fatal(err)
	}

	if got := doc.Nodes[0].Style.Fill; got != pal.NodeColor(0) {
		t.Errorf("group 0 fill = %q, want %q", got, pal.NodeColor(0))
	}
	if got := doc.Nodes[1].Style.Fill; got != pal.NodeColor(1) {
		t.Errorf("group 1 fill = %q, want %q", got, pal.NodeColor(1))
	}
	// An explicit fill is never overwritten.
	if got := doc.Nodes[2].Style.Fill; got != "#abcdef" {
		t.Errorf("explicit fill overwritten: %q", got)
	}
	for i, l := range doc.Links {
		if l.Style.Stroke == "" {
			t.Errorf("link %d has no stroke", i)
		}
	}
}

func TestMissingNameFallsBackToID(t *testing.T) {
	doc, err := NewJSONProcessor(nil).ProcessData([]byte(jsonDoc))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Nodes[0].Name != "Alpha" {
		t.Errorf("explicit name lost: %q", doc.Nodes[0].Name)
	}
	if doc.Nodes[1].Name != "b" {
		t.Errorf("missing name = %q, want id fallback %q", doc.Nodes[1].Name, "b")
	}
}

func TestDanglingLinkFailsFast(t *testing.T) {
	bad := `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "ghost"}]}`
	_, err := NewJSONProcessor(nil).ProcessData([]byte(bad))
	var mg *models.MalformedGraphError
	if !errors.As(err, &mg) {
		t.Fatalf("error = %v, want *MalformedGraphError", err)
	}
	if mg.Missing != "ghost" {
		t.Errorf("Missing = %q, want %q", mg.Missing, "ghost")
	}
}

func TestMalformedInputIsAnError(t *testing.T) {
	if _, err := NewJSONProcessor(nil).ProcessData([]byte("{not json")); err == nil {
		t.Error("JSON processor accepted garbage")
	}
	if _, err := NewYAMLProcessor(nil).ProcessData([]byte("\t: bad")); err == nil {
		t.Error("YAML processor accepted garbage")
	}
}

func TestProcessorFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"graph.json", "json", false},
		{"graph.yaml", "yaml", false},
		{"graph.yml", "yaml", false},
		{"GRAPH.JSON", "json", false},
		{"graph.csv", "", true},
		{"graph", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ProcessorFor(tt.path, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProcessorFor(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err == nil && p.Name() != tt.want {
				t.Errorf("ProcessorFor(%q).Name() = %q, want %q", tt.path, p.Name(), tt.want)
			}
		})
	}
}

func TestEmptyDocumentName(t *testing.T) {
	doc, err := NewJSONProcessor(nil).ProcessData([]byte(`{"nodes": [], "links": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "graph" {
		t.Errorf("Name = %q, want default %q", doc.Name, "graph")
	}
}
