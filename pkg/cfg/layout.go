package cfg

// Layout is the geometric output the layout engine hands to a renderer
// every layout node grouped by layer, in left-to-right order, plus
// the per-layer measurements later stages fill in.
type Layout struct {
	NodesByLayer [][]LayoutNode
	LayerHeights []float64
	TrackHeights []float64
	Width        float64
	Height       float64
}

// AddNode appends n to the given layer, extending NodesByLayer if needed.
func (l *Layout) AddNode(layer int, n LayoutNode) {
	for len(l.NodesByLayer) <= layer {
		l.NodesByLayer = append(l.NodesByLayer, nil)
	}
	l.NodesByLayer[layer] = append(l.NodesByLayer[layer], n)
}

// RemoveNode removes n from the given layer's node list, if present.
func (l *Layout) RemoveNode(layer int, n LayoutNode) {
	if layer < 0 || layer >= len(l.NodesByLayer) {
		return
	}
	nodes := l.NodesByLayer[layer]
	for i, other := range nodes {
		if other == n {
			l.NodesByLayer[layer] = append(nodes[:i], nodes[i+1:]...)
			return
		}
	}
}

// NumLayers returns the number of layers in NodesByLayer, up to the highest
// layer that holds a node; a layer in between may be empty.
func (l *Layout) NumLayers() int {
	return len(l.NodesByLayer)
}
