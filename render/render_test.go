package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/calderviz/calder/ingest"
	"github.com/calderviz/calder/models"
)

func testDoc() *ingest.Document {
	return &ingest.Document{
		Name: "deps",
		Nodes: []models.Node{
			{ID: "a", Name: "Alpha", Style: models.ItemStyle{Fill: "#ff0000"}},
			{ID: "b", Name: "Beta"},
		},
		Links: []models.Link{
			{Source: "a", Target: "b", Label: "uses"},
		},
	}
}

func TestGetRenderer(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		wantErr     bool
	}{
		{"svg", "image/svg+xml", false},
		{"SVG", "image/svg+xml", false},
		{"json", "application/json", false},
		{"dot", "text/vnd.graphviz", false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := GetRenderer(tt.format, Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetRenderer(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err == nil && r.ContentType() != tt.contentType {
				t.Errorf("ContentType() = %q, want %q", r.ContentType(), tt.contentType)
			}
		})
	}
}

func TestSVGRenderer(t *testing.T) {
	r, err := GetRenderer("svg", Options{Width: 400, Height: 300, SettleSteps: 50})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{"<svg", "<circle", "<line", "Alpha", "Beta", "uses"} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
}

func TestJSONRendererEmitsPositions(t *testing.T) {
	r, err := GetRenderer("json", Options{SettleSteps: 50})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(testDoc())
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		Name  string        `json:"name"`
		Nodes []models.Node `json:"nodes"`
		Links []models.Link `json:"links"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Name != "deps" {
		t.Errorf("name = %q, want %q", got.Name, "deps")
	}
	if len(got.Nodes) != 2 || len(got.Links) != 1 {
		t.Fatalf("got %d nodes, %d links", len(got.Nodes), len(got.Links))
	}
	for _, n := range got.Nodes {
		if n.X == 0 && n.Y == 0 {
			t.Errorf("node %s has no layout position", n.ID)
		}
	}
}

func TestDOTRenderer(t *testing.T) {
	r, err := GetRenderer("dot", Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render(testDoc())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{`digraph "deps"`, `"a" -> "b"`, `label="uses"`, `fillcolor="#ff0000"`} {
		if !strings.Contains(s, want) {
			t.Errorf("DOT output missing %q:\n%s", want, s)
		}
	}
}

func TestRenderRejectsDanglingLink(t *testing.T) {
	doc := testDoc()
	doc.Links = append(doc.Links, models.Link{Source: "a", Target: "ghost"})
	for _, format := range []string{"svg", "json"} {
		r, err := GetRenderer(format, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Render(doc); err == nil {
			t.Errorf("%s renderer accepted a dangling link", format)
		}
	}
}
