package transform

import "github.com/iongraph/iongraph/pkg/cfg"

// Verticalize walks layers top-down,
// stacking each on top of the previous layer's bottom plus room for that
// layer's routed joints, and records the overall bounding box including
// CONTENT_PADDING.
func Verticalize(layout *cfg.Layout, p Params) {
	layout.LayerHeights = make([]float64, len(layout.NodesByLayer))
	for i, nodes := range layout.NodesByLayer {
		layout.LayerHeights[i] = maxNodeHeight(nodes)
	}

	y := p.ContentPadding
	bottom := y
	maxWidth := 0.0
	for i, nodes := range layout.NodesByLayer {
		for _, n := range nodes {
			pos := n.Position()
			pos.Y = y
			n.SetPosition(pos)
			if right := pos.X + n.Dimensions().Width; right > maxWidth {
				maxWidth = right
			}
		}
		bottom = y + layout.LayerHeights[i]
		if i < len(layout.NodesByLayer)-1 {
			y = bottom + 2*p.TrackPadding + layout.TrackHeights[i]
		}
	}

	layout.Width = maxWidth + p.ContentPadding
	layout.Height = bottom + p.ContentPadding
}

func maxNodeHeight(nodes []cfg.LayoutNode) float64 {
	max := 0.0
	for _, n := range nodes {
		if h := n.Dimensions().Height; h > max {
			max = h
		}
	}
	return max
}

