// Package layout composes the six core transforms — loop classification,
// layering, materialization, straightening, joint routing, verticalizing —
// into the single entry point external callers use to lay out one pass.
//
// # Usage
//
// Build a sized Graph from a decoded pass with FromPass, run it through
// Compute, and serialize the result for a renderer:
//
//	g, err := layout.FromPass(pass, ir.KindMIR, sizer)
//	doc, err := layout.Compute(g, transform.DefaultParams())
//	data, err := layout.Marshal(doc)
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/errors"
	"github.com/iongraph/iongraph/pkg/ir"
)

// SizeFunc measures a block's rendered footprint. The core never computes
// sizes itself: callers may supply one, typically by rendering the block's
// instruction text and reporting the resulting bounding box; when FromPass
// is given nil it uses a default estimate from the block's instructions.
type SizeFunc func(b *cfg.Block) cfg.Size

// FromPass decodes a pass's requested block set into a Graph, assigning
// each block's size via sizer before any layer or position is computed.
func FromPass(pass ir.Pass, kind ir.BlockKind, sizer SizeFunc) (*cfg.Graph, error) {
	blocks, err := pass.Blocks(kind)
	if err != nil {
		return nil, err
	}
	g, err := cfg.NewGraph(blocks)
	if err != nil {
		return nil, err
	}
	if sizer == nil {
		sizer = defaultSizer(blocks)
	}
	for _, b := range g.SortedBlocks() {
		b.Size = sizer(b)
	}
	return g, nil
}

// Compute runs the full pipeline over a prepared Graph: loop classification,
// layering, materialization, straightening, joint routing, and
// verticalizing, in that order. The Graph is mutated in place; the returned
// Document is the geometry a renderer needs.
func Compute(g *cfg.Graph, p transform.Params) (*Document, error) {
	if err := transform.ClassifyLoops(g); err != nil {
		return nil, err
	}
	transform.AssignLayers(g)

	layout := transform.Materialize(g)
	transform.Straighten(g, layout, p)
	transform.RouteJoints(layout, p)
	transform.Verticalize(layout, p)

	return newDocument(layout), nil
}

// Layout is a convenience wrapper combining FromPass and Compute.
func Layout(pass ir.Pass, kind ir.BlockKind, sizer SizeFunc, p transform.Params) (*cfg.Graph, *Document, error) {
	g, err := FromPass(pass, kind, sizer)
	if err != nil {
		return nil, nil, err
	}
	doc, err := Compute(g, p)
	if err != nil {
		return nil, nil, err
	}
	return g, doc, nil
}

// =============================================================================
// Document - Serialization Format
// =============================================================================

// Document is the JSON-serializable form of a computed Layout, matching the
// output shape a renderer consumes: nodes grouped by layer in
// left-to-right order, per-layer measurements, and the overall bounding box.
type Document struct {
	NodesByLayer [][]Node  `json:"nodesByLayer"`
	LayerHeights []float64 `json:"layerHeights"`
	TrackHeights []float64 `json:"trackHeights"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
}

// Node is one BlockNode or DummyNode positioned within a layer.
type Node struct {
	ID    string    `json:"id"`
	Dummy bool      `json:"dummy"`
	Pos   cfg.Pos   `json:"pos"`
	Size  cfg.Size  `json:"size,omitempty"`

	// BlockID is the source block id for a BlockNode, or the destination
	// block id this dummy ultimately feeds for a DummyNode.
	BlockID string `json:"blockId"`

	Edges []Edge `json:"edges,omitempty"`
}

// Edge describes one outgoing connection from a Node to another Node,
// carrying enough information for the renderer to draw a routed path.
type Edge struct {
	DstID       string      `json:"dstId"`
	Port        int         `json:"port"`
	JointOffset float64     `json:"jointOffset"`
	Kind        cfg.EdgeKind `json:"kind"`
}

func newDocument(layout *cfg.Layout) *Document {
	doc := &Document{
		LayerHeights: layout.LayerHeights,
		TrackHeights: layout.TrackHeights,
		Width:        layout.Width,
		Height:       layout.Height,
	}
	doc.NodesByLayer = make([][]Node, len(layout.NodesByLayer))
	for i, layerNodes := range layout.NodesByLayer {
		out := make([]Node, len(layerNodes))
		for j, n := range layerNodes {
			out[j] = nodeFrom(n)
		}
		doc.NodesByLayer[i] = out
	}
	return doc
}

func nodeFrom(n cfg.LayoutNode) Node {
	node := Node{
		ID:    n.NodeID(),
		Dummy: n.IsDummy(),
		Pos:   n.Position(),
		Size:  n.Dimensions(),
	}

	switch t := n.(type) {
	case *cfg.BlockNode:
		node.BlockID = t.Block.ID
	case *cfg.DummyNode:
		node.BlockID = t.DstBlock.ID
	}

	for i, dst := range n.DstNodes() {
		if dst == nil {
			continue
		}
		node.Edges = append(node.Edges, Edge{
			DstID:       dst.NodeID(),
			Port:        i,
			JointOffset: n.JointOffsets()[i],
			Kind:        classifyEdge(n, dst),
		})
	}
	return node
}

// classifyEdge labels an edge for the renderer contract. It is a
// coarse classification from structural shape alone; the core never decides
// how an edge is drawn.
func classifyEdge(src, dst cfg.LayoutNode) cfg.EdgeKind {
	switch {
	case dst.HasFlag(cfg.FlagImminentBackedgeDummy) && dst.IsDummy():
		return cfg.EdgeToBackedgeDummy
	case src.IsDummy() && !dst.IsDummy() && isBackedgeBlock(dst):
		return cfg.EdgeToBackedgeFinal
	case isBackedgeBlock(src) && !dst.IsDummy():
		return cfg.EdgeLoopHeaderReturn
	case src.Layer() > dst.Layer():
		return cfg.EdgeLoopHeaderReturn
	case src.IsDummy() && dst.IsDummy() && dst.Layer() < src.Layer():
		return cfg.EdgeForwardUpwardBetweenDummies
	default:
		return cfg.EdgeForwardDownward
	}
}

// isBackedgeBlock reports whether n is a BlockNode for a block flagged as
// the backedge predecessor of some loop header.
func isBackedgeBlock(n cfg.LayoutNode) bool {
	bn, ok := n.(*cfg.BlockNode)
	return ok && bn.Block.IsBackedge()
}

// =============================================================================
// Document Serialization
// =============================================================================

// Marshal serializes a Document to pretty-printed JSON.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Document.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout document")
	}
	return &doc, nil
}

// WriteFile writes a Document to a JSON file.
func WriteFile(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Document from a JSON file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
