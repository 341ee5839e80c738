package transform

import "testing"

func TestVerticalize_StackedLayersDoNotOverlap(t *testing.T) {
	g := diamondGraph(t)
	layout := Materialize(g)
	p := DefaultParams()
	Straighten(g, layout, p)
	RouteJoints(layout, p)
	Verticalize(layout, p)

	for i := 1; i < len(layout.NodesByLayer); i++ {
		prevBottom := layout.NodesByLayer[i-1][0].Position().Y + layout.LayerHeights[i-1]
		cur := layout.NodesByLayer[i][0].Position().Y
		if cur < prevBottom {
			t.Errorf("layer %d starts at y=%v, above previous layer's bottom %v", i, cur, prevBottom)
		}
	}
	if layout.Width <= 0 || layout.Height <= 0 {
		t.Errorf("expected positive bounding box, got %vx%v", layout.Width, layout.Height)
	}
}

func TestVerticalize_ContentPaddingAtOrigin(t *testing.T) {
	g := diamondGraph(t)
	layout := Materialize(g)
	p := DefaultParams()
	Straighten(g, layout, p)
	RouteJoints(layout, p)
	Verticalize(layout, p)

	if got := layout.NodesByLayer[0][0].Position().Y; got != p.ContentPadding {
		t.Errorf("first layer y = %v, want ContentPadding %v", got, p.ContentPadding)
	}
}
