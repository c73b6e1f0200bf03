// Package style resolves partial style records against fixed default
// tables and owns the color palettes used by the ingest layer.
//
// Resolution treats the zero value of a field as "unset". An intentional
// zero opacity therefore cannot be expressed through the resolver; hosts
// that need one set it on the working copy after construction (the
// highlight/fade APIs do exactly that).
package style

import "github.com/calderviz/calder/models"

// Default tables. All consumed fields must resolve to a concrete value
// before render.
var (
	DefaultItem = models.ItemStyle{
		Shape:       "circle",
		Radius:      12,
		Fill:        "#4285F4",
		Stroke:      "rgba(0,0,0,0.3)",
		StrokeWidth: 0.5,
		Opacity:     1,
	}

	DefaultLine = models.LineStyle{
		Stroke:  "#666666",
		Width:   1,
		Opacity: 1,
	}

	DefaultText = models.TextStyle{
		Fill:    "#333333",
		Size:    10,
		Anchor:  "middle",
		Dy:      4,
		Opacity: 1,
	}
)

// ResolveItem fills unset fields of s from the item default table.
// Resolving an already fully specified style returns it unchanged.
func ResolveItem(s models.ItemStyle) models.ItemStyle {
	if s.Shape == "" {
		s.Shape = DefaultItem.Shape
	}
	if s.Radius == 0 {
		s.Radius = DefaultItem.Radius
	}
	if s.Fill == "" {
		s.Fill = DefaultItem.Fill
	}
	if s.Stroke == "" {
		s.Stroke = DefaultItem.Stroke
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = DefaultItem.StrokeWidth
	}
	if s.Opacity == 0 {
		s.Opacity = DefaultItem.Opacity
	}
	return s
}

// ResolveLine fills unset fields of s from the line default table.
// Dash has no default: an empty dash pattern renders solid.
func ResolveLine(s models.LineStyle) models.LineStyle {
	if s.Stroke == "" {
		s.Stroke = DefaultLine.Stroke
	}
	if s.Width == 0 {
		s.Width = DefaultLine.Width
	}
	if s.Opacity == 0 {
		s.Opacity = DefaultLine.Opacity
	}
	return s
}

// ResolveText fills unset fields of s from the text default table.
func ResolveText(s models.TextStyle) models.TextStyle {
	if s.Fill == "" {
		s.Fill = DefaultText.Fill
	}
	if s.Size == 0 {
		s.Size = DefaultText.Size
	}
	if s.Anchor == "" {
		s.Anchor = DefaultText.Anchor
	}
	if s.Dy == 0 {
		s.Dy = DefaultText.Dy
	}
	if s.Opacity == 0 {
		s.Opacity = DefaultText.Opacity
	}
	return s
}

// Palette provides color schemes applied by the ingest layer when a
// document carries no explicit colors.
type Palette struct {
	NodeColors []string
	EdgeColors []string
	Background string
}

// DefaultPalette returns the standard palette.
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // blue
			"#EA4335", // red
			"#FBBC05", // yellow
			"#34A853", // green
			"#673AB7", // purple
			"#3F51B5", // indigo
			"#00BCD4", // cyan
			"#009688", // teal
			"#FF5722", // deep orange
		},
		EdgeColors: []string{"#666666", "#888888", "#AAAAAA"},
		Background: "#f8f8f8",
	}
}

// MidnightPalette returns a high-contrast palette for dark backgrounds.
func MidnightPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#FF6D00",
			"#2979FF",
			"#00E676",
			"#F50057",
			"#651FFF",
			"#C6FF00",
			"#00B0FF",
		},
		EdgeColors: []string{"#9C27B0", "#00BFA5", "#607D8B"},
		Background: "#212121",
	}
}

// NodeColor returns the palette node color for index i, cycling.
func (p *Palette) NodeColor(i int) string {
	if i < 0 {
		i = -i
	}
	return p.NodeColors[i%len(p.NodeColors)]
}

// EdgeColor returns the palette edge color for index i, cycling.
func (p *Palette) EdgeColor(i int) string {
	if i < 0 {
		i = -i
	}
	return p.EdgeColors[i%len(p.EdgeColors)]
}
