package svg

import (
	"strings"
	"testing"
)

func TestElementAttrOrderIsStable(t *testing.T) {
	e := NewElement("circle")
	e.SetAttr("cx", "1")
	e.SetAttr("cy", "2")
	e.SetAttr("r", "3")
	e.SetAttr("cx", "9") // update must not reorder

	var buf strings.Builder
	doc := NewDocument(10, 10)
	doc.Nodes.Append(e)
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `<circle cx="9" cy="2" r="3"/>`) {
		t.Errorf("serialized element lost attribute order or update:\n%s", out)
	}
}

func TestSetFloat(t *testing.T) {
	e := NewElement("circle")
	e.SetFloat("cx", 12.5)
	got, ok := e.Attr("cx")
	if !ok || got != "12.50" {
		t.Errorf("Attr(cx) = %q, %v, want %q", got, ok, "12.50")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a & b`, "a &amp; b"},
		{`<tag>`, "&lt;tag&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := escape(tt.in); got != tt.want {
			t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextContentIsEscaped(t *testing.T) {
	doc := NewDocument(10, 10)
	label := NewElement("text")
	label.Text = `<script>&`
	doc.Labels.Append(label)

	out := string(doc.Bytes())
	if strings.Contains(out, "<script>") {
		t.Error("raw markup leaked into serialized text content")
	}
	if !strings.Contains(out, "&lt;script&gt;&amp;") {
		t.Errorf("escaped text content missing:\n%s", out)
	}
}

func TestDocumentLayerOrder(t *testing.T) {
	doc := NewDocument(800, 600)
	kids := doc.Root.Children()
	if len(kids) != 5 {
		t.Fatalf("root has %d children, want 5", len(kids))
	}
	wantTags := []string{"rect", "defs", "g", "g", "g"}
	for i, tag := range wantTags {
		if kids[i].Tag != tag {
			t.Errorf("child %d tag = %q, want %q", i, kids[i].Tag, tag)
		}
	}
	wantClasses := []string{"labels", "links", "nodes"}
	for i, class := range wantClasses {
		got, _ := kids[i+2].Attr("class")
		if got != class {
			t.Errorf("layer %d class = %q, want %q", i, got, class)
		}
	}
}

func TestDocumentHasArrowMarker(t *testing.T) {
	out := string(NewDocument(800, 600).Bytes())
	if !strings.Contains(out, `<marker id="`+ArrowMarkerID+`"`) {
		t.Errorf("serialized document missing arrow marker:\n%s", out)
	}
}

func TestClearPreservesChrome(t *testing.T) {
	doc := NewDocument(800, 600)
	doc.Nodes.Append(NewElement("circle"))
	doc.Links.Append(NewElement("line"))
	doc.Labels.Append(NewElement("text"))

	doc.Clear()

	for _, layer := range doc.Layers() {
		if len(layer.Children()) != 0 {
			t.Errorf("layer %q not empty after Clear", layer.Tag)
		}
	}
	if len(doc.Root.Children()) != 5 {
		t.Error("Clear removed structural children from the root")
	}
	if len(doc.Defs.Children()) != 1 {
		t.Error("Clear removed the marker definition")
	}
}

func TestDocumentViewBox(t *testing.T) {
	doc := NewDocument(640, 480)
	got, _ := doc.Root.Attr("viewBox")
	if got != "0 0 640 480" {
		t.Errorf("viewBox = %q, want %q", got, "0 0 640 480")
	}
}

func TestBytesStartsWithXMLDeclaration(t *testing.T) {
	out := string(NewDocument(10, 10).Bytes())
	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Errorf("serialized document missing XML declaration:\n%s", out)
	}
}
