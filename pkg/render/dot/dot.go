// Package dot renders a computed layout as Graphviz DOT, mainly as a
// debugging aid: comparing the core's own straightened geometry against an
// independently-computed Graphviz layout of the same edges quickly shows
// whether a straightening pass has gone wrong.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/layout"
)

// Options configures DOT rendering.
type Options struct {
	// Detailed labels each node with its layer and position in addition to
	// its id. When false, only the node id is shown.
	Detailed bool
}

// ToDOT converts a computed Document to Graphviz DOT. Dummy nodes render
// with dashed outlines and grey fill to distinguish them from real blocks.
func ToDOT(doc *layout.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	for layer, nodes := range doc.NodesByLayer {
		for _, n := range nodes {
			label := fmtLabel(n, layer, opts.Detailed)
			attrs := fmtAttrs(n, label)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("\n")
	for _, nodes := range doc.NodesByLayer {
		for _, n := range nodes {
			for _, e := range n.Edges {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.ID, e.DstID, edgeLabel(e.Kind))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layout.Node, layer int, detailed bool) string {
	if !detailed {
		return n.ID
	}
	return fmt.Sprintf("%s\nlayer %d\n(%.0f, %.0f)", n.ID, layer, n.Pos.X, n.Pos.Y)
}

func fmtAttrs(n layout.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Dummy {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func edgeLabel(kind cfg.EdgeKind) string {
	switch kind {
	case cfg.EdgeForwardDownward:
		return "down"
	case cfg.EdgeForwardUpwardBetweenDummies:
		return "up"
	case cfg.EdgeToBackedgeDummy:
		return "to-dummy"
	case cfg.EdgeToBackedgeFinal:
		return "to-header"
	case cfg.EdgeLoopHeaderReturn:
		return "return"
	default:
		return ""
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
