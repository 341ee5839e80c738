// Package cfg builds the layout engine's internal graph representation from
// a decoded pass (pkg/ir) and prepares it for layering, materialization, and
// straightening (pkg/cfg/transform).
//
// The types here mirror the layout engine's data model: Block and LoopHeader are the two
// node kinds the engine reasons about before any layout coordinates exist;
// LayoutNode (node.go) is what the engine produces once layering has run.
package cfg

// Attribute is a well-known block attribute copied over from the IR.
type Attribute string

const (
	AttrLoopHeader Attribute = "loopheader"
	AttrBackedge   Attribute = "backedge"
	AttrSplitEdge  Attribute = "splitedge"
)

// Size is a node's rendered footprint in layout units.
type Size struct {
	Width  float64
	Height float64
}

// Block is one basic block of the graph being laid out. Its Predecessors and
// Successors are resolved pointers, not IDs, once graph preparation
// has run.
type Block struct {
	ID         string
	Number     int
	Attributes map[Attribute]bool

	Predecessors []*Block
	Successors   []*Block

	// LoopDepth is copied straight from the IR and checked against the loop
	// tree derived by the loop classifier; a mismatch is a malformed-IR error.
	LoopDepth int

	// LoopID is the ID of the innermost loop header this block belongs to,
	// real or synthetic: a block outside every real loop gets the ID of its
	// root's synthetic header. It is "" only until the Loop Classifier has
	// run. Note a true loop header's own LoopID is its own ID: the header
	// belongs to the loop it heads.
	LoopID string

	// Layer is the block's rank, assigned by the layerer. Negative
	// until layering runs.
	Layer int

	Size Size

	// Node is the LayoutNode this block materializes to once the layout-node
	// materializer has run. Nil before then.
	Node *BlockNode
}

// HasAttribute reports whether the block carries the named attribute.
func (b *Block) HasAttribute(a Attribute) bool {
	return b.Attributes[a]
}

// IsLoopHeader reports whether this block carries the loopheader attribute.
// NewGraph rejects such a block unless it has exactly one backedge
// predecessor, so in a Graph built by NewGraph every block for which this
// returns true has a real LoopHeader entry.
func (b *Block) IsLoopHeader() bool {
	return b.HasAttribute(AttrLoopHeader)
}

// IsBackedge reports whether this block is the single backedge predecessor
// of some loop header.
func (b *Block) IsBackedge() bool {
	return b.HasAttribute(AttrBackedge)
}

// LoopHeader describes one loop discovered during Graph Preparation. Header
// is always a real Block; Synthetic marks the placeholder header NewGraph
// creates for each CFG root, which heads no real loop and has no backedge.
// Backedge panics if called on one of these.
type LoopHeader struct {
	Header    *Block
	backedge  *Block
	Synthetic bool

	// Depth is the loop's nesting depth: 1 for a top-level loop, 2 for a
	// loop nested one level deep, and so on.
	Depth int

	// Parent is the LoopHeader of the loop immediately enclosing this one.
	// It is nil only for a root's synthetic header; a top-level real loop's
	// Parent is the synthetic header of its root.
	Parent *LoopHeader

	// LoopHeight is the number of layers spanned by the loop body, measured
	// from Header.Layer. It is computed by transform.AssignLayers.
	LoopHeight int
}

// Backedge returns the loop's single backedge block. It panics if called on
// a synthetic header: callers that reach this on a synthetic header have a
// bug, since a synthetic header by definition has no real backedge block to
// return.
func (h *LoopHeader) Backedge() *Block {
	if h.Synthetic {
		panic("cfg: Backedge() called on synthetic loop header " + h.Header.ID)
	}
	return h.backedge
}
