package view

import (
	"fmt"
	"strconv"
)

// transform is the shared pan/zoom state applied uniformly to the label,
// link, and node layers. The background hit-plane is never transformed
// so it keeps capturing pointer events across the whole viewport.
type transform struct {
	Scale  float64
	TX, TY float64
}

func (t transform) attr() string {
	return fmt.Sprintf("translate(%s %s) scale(%s)",
		strconv.FormatFloat(t.TX, 'f', -1, 64),
		strconv.FormatFloat(t.TY, 'f', -1, 64),
		strconv.FormatFloat(t.Scale, 'f', -1, 64))
}

// Zoom replaces the viewport transform with the given scale and
// translation and applies it to all rendered layers.
func (v *View) Zoom(scale, tx, ty float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed || scale <= 0 {
		return
	}
	v.transform = transform{Scale: scale, TX: tx, TY: ty}
	v.applyTransform()
}

// Pan shifts the viewport translation, keeping the current scale.
func (v *View) Pan(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	if v.transform.Scale == 0 {
		v.transform.Scale = 1
	}
	v.transform.TX += dx
	v.transform.TY += dy
	v.applyTransform()
}

// Transform returns the current viewport scale and translation. A zero
// scale means the identity transform has never been replaced.
func (v *View) Transform() (scale, tx, ty float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.transform.Scale == 0 {
		return 1, 0, 0
	}
	return v.transform.Scale, v.transform.TX, v.transform.TY
}

// applyTransform writes the transform attribute onto the three layers.
// Callers hold v.mu. An untouched identity transform writes nothing.
func (v *View) applyTransform() {
	if v.transform.Scale == 0 {
		return
	}
	attr := v.transform.attr()
	for _, layer := range v.doc.Layers() {
		layer.SetAttr("transform", attr)
	}
}
