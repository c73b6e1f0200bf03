package view

import "github.com/calderviz/calder/models"

// dragReheatTarget keeps the layout animating while a node is dragged.
const dragReheatTarget = 0.3

// OnDragStart pins the node's simulated position to its current
// coordinates, removing it from free physics integration.
func (v *View) OnDragStart(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	n := v.graph.Node(id)
	if n == nil {
		return
	}
	n.Pin(n.X, n.Y)
	v.dragging = id
	v.sim.Reheat(dragReheatTarget)
}

// OnDrag moves the pinned coordinates to follow the pointer and keeps
// the stepper hot so surrounding nodes react.
func (v *View) OnDrag(id string, ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	n := v.graph.Node(id)
	if n == nil {
		return
	}
	n.Pin(ev.X, ev.Y)
	v.sim.Reheat(dragReheatTarget)
}

// OnDragEnd releases the pin, unless another interaction has re-pinned a
// different node in the meantime, and signals the stepper to cool.
func (v *View) OnDragEnd(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed || v.dragging != id {
		return
	}
	if n := v.graph.Node(id); n != nil {
		n.Unpin()
	}
	v.dragging = ""
	v.sim.Cool()
}

// SelectNode fades every non-neighbor node and label to the configured
// fade opacity and raises neighbors to fully opaque. A link is raised to
// fully opaque only when directly incident to the selected node; a link
// strictly between two neighbors keeps its prior opacity, and a link
// touching any non-neighbor fades with it. Neighborhood is read from the
// base snapshot, so repeated selections never drift with working-copy
// mutation.
func (v *View) SelectNode(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed || v.graph.Node(id) == nil {
		return
	}
	neighbors := v.graph.NeighborsOf(id)

	for _, n := range v.graph.Nodes {
		opacity := v.opt.FadeOpacity
		if neighbors[n.ID] {
			opacity = 1
		}
		v.setNodeOpacity(n, opacity)
	}
	for i, l := range v.graph.Links {
		var opacity float64
		switch {
		case l.Source == id || l.Target == id:
			opacity = 1
		case neighbors[l.Source] && neighbors[l.Target]:
			continue
		default:
			opacity = v.opt.FadeOpacity
		}
		l.Style.Opacity = opacity
		v.linkEls[i].SetFloat("opacity", opacity)
		if lbl := v.edgeLbls[i]; lbl != nil {
			l.LabelStyle.Opacity = opacity
			lbl.SetFloat("opacity", opacity)
		}
	}
	v.selected = id
}

// UnselectNode resets every node, link, and label to fully opaque,
// unconditionally.
func (v *View) UnselectNode() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	for _, n := range v.graph.Nodes {
		v.setNodeOpacity(n, 1)
	}
	for i, l := range v.graph.Links {
		l.Style.Opacity = 1
		v.linkEls[i].SetFloat("opacity", 1)
		if lbl := v.edgeLbls[i]; lbl != nil {
			l.LabelStyle.Opacity = 1
			lbl.SetFloat("opacity", 1)
		}
	}
	v.selected = ""
}

// Selected returns the id of the currently selected node, or "".
func (v *View) Selected() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

func (v *View) setNodeOpacity(n *models.Node, opacity float64) {
	n.Style.Opacity = opacity
	n.LabelStyle.Opacity = opacity
	if el, ok := v.nodeEls[n.ID]; ok {
		el.SetFloat("opacity", opacity)
	}
	if el, ok := v.labelEls[n.ID]; ok {
		el.SetFloat("opacity", opacity)
	}
}

// Click dispatches the host's click callback for the node, if any.
// Callbacks run outside the view lock so the host may call back into the
// view (to mutate styles, select, or re-render).
func (v *View) Click(id string) {
	v.mu.Lock()
	n := v.graph.Node(id)
	cb := v.opt.OnNodeClick
	destroyed := v.destroyed
	v.mu.Unlock()
	if destroyed || n == nil || cb == nil {
		return
	}
	cb(v, n)
}

// MouseOver dispatches the host's hover-in callback for the node.
func (v *View) MouseOver(id string) {
	v.mu.Lock()
	n := v.graph.Node(id)
	cb := v.opt.OnNodeMouseOver
	destroyed := v.destroyed
	v.mu.Unlock()
	if destroyed || n == nil || cb == nil {
		return
	}
	cb(v, n)
}

// MouseOut dispatches the host's hover-out callback for the node.
func (v *View) MouseOut(id string) {
	v.mu.Lock()
	n := v.graph.Node(id)
	cb := v.opt.OnNodeMouseOut
	destroyed := v.destroyed
	v.mu.Unlock()
	if destroyed || n == nil || cb == nil {
		return
	}
	cb(v, n)
}

// BackgroundMouseOver dispatches the host's background hover callback
// with an explicit event context.
func (v *View) BackgroundMouseOver(ev PointerEvent) {
	v.mu.Lock()
	cb := v.opt.OnBackgroundMouseOver
	destroyed := v.destroyed
	v.mu.Unlock()
	if destroyed || cb == nil {
		return
	}
	cb(v, ev)
}
