package cfg

import (
	"github.com/iongraph/iongraph/pkg/errors"
	"github.com/iongraph/iongraph/pkg/ir"
)

// Graph is one pass's blocks with adjacency resolved and loop headers
// identified. It is the output of graph preparation and the input to
// every downstream transform in pkg/cfg/transform.
type Graph struct {
	Blocks  map[string]*Block
	Order   []string // block IDs in IR declaration order, for deterministic iteration
	Headers map[string]*LoopHeader
	Roots   []*Block
}

// Block looks up a block by ID, or nil if it does not exist.
func (g *Graph) Block(id string) *Block {
	return g.Blocks[id]
}

// SortedBlocks returns every block in declaration order.
func (g *Graph) SortedBlocks() []*Block {
	out := make([]*Block, len(g.Order))
	for i, id := range g.Order {
		out[i] = g.Blocks[id]
	}
	return out
}

// NewGraph builds predecessor and
// successor lists from the id lists in blocks, finds each true loop header's
// unique backedge predecessor, and identifies CFG roots (blocks with no
// predecessors), each of which becomes a synthetic loop header so downstream
// code can assume every block sits inside some loop context.
//
// NewGraph returns a malformed-IR error if a true loop header does not
// have exactly one backedge-attributed predecessor.
func NewGraph(blocks []ir.Block) (*Graph, error) {
	g := &Graph{
		Blocks:  make(map[string]*Block, len(blocks)),
		Order:   make([]string, 0, len(blocks)),
		Headers: make(map[string]*LoopHeader),
	}

	for _, b := range blocks {
		attrs := make(map[Attribute]bool, len(b.Attributes))
		for _, a := range b.Attributes {
			attrs[Attribute(a)] = true
		}
		g.Blocks[b.ID] = &Block{
			ID:         b.ID,
			Number:     b.Number,
			Attributes: attrs,
			LoopDepth:  b.LoopDepth,
			LoopID:     "",
			Layer:      -1,
		}
		g.Order = append(g.Order, b.ID)
	}

	for _, b := range blocks {
		block := g.Blocks[b.ID]
		for _, pid := range b.Predecessors {
			p := g.Blocks[pid]
			if p == nil {
				return nil, errors.New(errors.ErrCodeInvalidIR, "block %s: unknown predecessor %s", b.ID, pid)
			}
			block.Predecessors = append(block.Predecessors, p)
		}
		for _, sid := range b.Successors {
			s := g.Blocks[sid]
			if s == nil {
				return nil, errors.New(errors.ErrCodeInvalidIR, "block %s: unknown successor %s", b.ID, sid)
			}
			block.Successors = append(block.Successors, s)
		}
	}

	for _, id := range g.Order {
		block := g.Blocks[id]
		if block.IsBackedge() && len(block.Successors) != 1 {
			return nil, errors.New(errors.ErrCodeBadBackedgeBlock,
				"block %s: backedge block must have exactly one successor, has %d", id, len(block.Successors))
		}
	}

	for _, id := range g.Order {
		block := g.Blocks[id]
		if !block.IsLoopHeader() {
			continue
		}
		var backedges []*Block
		for _, p := range block.Predecessors {
			if p.IsBackedge() {
				backedges = append(backedges, p)
			}
		}
		switch {
		case len(backedges) == 0:
			return nil, errors.New(errors.ErrCodeMissingBackedge,
				"loop header %s has no backedge predecessor", id)
		case len(backedges) > 1:
			return nil, errors.New(errors.ErrCodeMultipleBackedges,
				"loop header %s has %d backedge predecessors, want 1", id, len(backedges))
		}
		g.Headers[id] = &LoopHeader{
			Header:   block,
			backedge: backedges[0],
		}
	}

	for _, id := range g.Order {
		block := g.Blocks[id]
		if len(block.Predecessors) != 0 {
			continue
		}
		g.Roots = append(g.Roots, block)
		// A root has no predecessors, so the pass above never gives it a
		// real header entry (a root carrying the loopheader attribute fails
		// there with a missing backedge). The check only guards against
		// overwriting an existing entry.
		if _, exists := g.Headers[id]; !exists {
			g.Headers[id] = &LoopHeader{
				Header:    block,
				Synthetic: true,
			}
		}
	}

	return g, nil
}
