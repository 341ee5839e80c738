// Package svg is the reference renderer for the layout engine's output: it
// implements the external renderer contract directly, drawing every
// edge as a two-bend right-angled path and falling back to a bezier when the
// bend radius wouldn't fit.
package svg

import (
	"bytes"
	"fmt"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/layout"
)

// Option configures the renderer.
type Option func(*renderer)

type renderer struct {
	params     transform.Params
	showLabels bool
}

// WithParams supplies the tunable parameters the layout was computed with,
// so port positions and the arrow radius match the geometry exactly.
func WithParams(p transform.Params) Option {
	return func(r *renderer) { r.params = p }
}

// WithLabels draws each block's id as text inside its box.
func WithLabels() Option {
	return func(r *renderer) { r.showLabels = true }
}

// Render draws a computed Document as a standalone SVG document.
func Render(doc *layout.Document, opts ...Option) []byte {
	r := renderer{params: transform.DefaultParams()}
	for _, opt := range opts {
		opt(&r)
	}

	index := make(map[string]layout.Node)
	for _, layerNodes := range doc.NodesByLayer {
		for _, n := range layerNodes {
			index[n.ID] = n
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	buf.WriteString(defs)

	for _, layerNodes := range doc.NodesByLayer {
		for _, n := range layerNodes {
			r.renderEdges(&buf, n, index)
		}
	}
	for _, layerNodes := range doc.NodesByLayer {
		for _, n := range layerNodes {
			r.renderNode(&buf, n)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

const defs = `  <defs>
    <marker id="arrowhead" markerWidth="8" markerHeight="8" refX="6" refY="4" orient="auto">
      <path d="M0,0 L8,4 L0,8 Z" fill="#333"/>
    </marker>
  </defs>
`

func (r renderer) renderNode(buf *bytes.Buffer, n layout.Node) {
	if n.Dummy {
		return
	}
	fmt.Fprintf(buf, `  <rect id=%q x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="#fff" stroke="#333" stroke-width="1.5"/>`+"\n",
		"block-"+n.ID, n.Pos.X, n.Pos.Y, n.Size.Width, n.Size.Height)
	if r.showLabels {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="12" text-anchor="middle">%s</text>`+"\n",
			n.Pos.X+n.Size.Width/2, n.Pos.Y+16, escapeText(n.ID))
	}
}

// renderEdges draws every edge originating from n as a two-bend path routed
// through its assigned joint track, or a bezier when the horizontal span is
// too tight for the bend radius to fit.
func (r renderer) renderEdges(buf *bytes.Buffer, n layout.Node, index map[string]layout.Node) {
	for _, e := range n.Edges {
		dst, ok := index[e.DstID]
		if !ok {
			continue
		}
		x1 := n.Pos.X + r.params.PortStart + float64(e.Port)*r.params.PortSpacing
		y1 := n.Pos.Y + n.Size.Height
		x2 := dst.Pos.X + r.params.PortStart
		y2 := dst.Pos.Y

		trackY := y1 + r.params.TrackPadding + e.JointOffset

		if abs(x2-x1) < 2*r.params.ArrowRadius {
			fmt.Fprintf(buf, `  <path d="M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="none" stroke=%q stroke-width="1.5" marker-end="url(#arrowhead)"/>`+"\n",
				x1, y1, x1, (y1+y2)/2, x2, (y1+y2)/2, x2, y2, colorFor(e.Kind))
			continue
		}

		radius := r.params.ArrowRadius
		path := twoBendPath(x1, y1, x2, y2, trackY, radius)
		fmt.Fprintf(buf, `  <path d=%q fill="none" stroke=%q stroke-width="1.5" marker-end="url(#arrowhead)"/>`+"\n",
			path, colorFor(e.Kind))
	}
}

func twoBendPath(x1, y1, x2, y2, midY, r float64) string {
	dir := 1.0
	if x2 < x1 {
		dir = -1.0
	}
	return fmt.Sprintf(
		"M%.1f,%.1f L%.1f,%.1f Q%.1f,%.1f %.1f,%.1f L%.1f,%.1f Q%.1f,%.1f %.1f,%.1f L%.1f,%.1f",
		x1, y1,
		x1, midY-r,
		x1, midY, x1+dir*r, midY,
		x2-dir*r, midY,
		x2, midY, x2, midY+r,
		x2, y2,
	)
}

func colorFor(kind cfg.EdgeKind) string {
	switch kind {
	case cfg.EdgeLoopHeaderReturn, cfg.EdgeToBackedgeDummy, cfg.EdgeToBackedgeFinal:
		return "#a33"
	default:
		return "#333"
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func escapeText(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '<':
			out = append(out, []rune("&lt;")...)
		case '>':
			out = append(out, []rune("&gt;")...)
		case '&':
			out = append(out, []rune("&amp;")...)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
