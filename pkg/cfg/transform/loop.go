package transform

import (
	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/errors"
)

// ClassifyLoops assigns every block a loopID (the id of the innermost loop
// header containing it, real or synthetic) and builds the loop tree's parent
// links and depths.
//
// # Algorithm
//
// A depth-first traversal runs from each root, carrying a stack of enclosing
// header ids indexed by loop depth. Each root's own synthetic header is
// pushed before the walk begins, so index 0 of the stack always holds the
// root — every block, even one outside any real loop, ends up with a
// non-empty loopID. On entering a true loop header h, the header's own
// loopDepth must equal the stack's current length; h's Parent is set to the
// header on top of the stack, then h's id is pushed. On every visited block
// the stack is truncated to block.LoopDepth+1 if the block's depth dropped
// (the walk left one or more loops). A block's loopID is then stack's last
// element. Edges out of a backedge block are not followed: the walk never
// revisits a loop header from inside its own loop.
//
// A true loop header's own loopID ends up equal to its own id: pushing
// happens before the id is read back off the stack, so the header sees
// itself on top at its own depth. This is intentional — the header belongs
// to the loop it heads — not a bug to be special-cased away.
//
// ClassifyLoops returns a malformed-IR error if a block's loopDepth
// disagrees with its actual position in the loop tree.
func ClassifyLoops(g *cfg.Graph) error {
	visited := make(map[string]bool, len(g.Blocks))
	for _, root := range g.Roots {
		// A root can never carry the loopheader attribute: Graph
		// Preparation requires any true header to have a backedge
		// predecessor, which a root (zero predecessors) cannot have. So
		// every root's header entry is synthetic, and always starts the
		// loop tree at depth 0.
		header := g.Headers[root.ID]
		header.Depth = 0
		header.Parent = nil
		if err := classify(g, root, []string{root.ID}, visited); err != nil {
			return err
		}
	}
	return nil
}

func classify(g *cfg.Graph, b *cfg.Block, stack []string, visited map[string]bool) error {
	if visited[b.ID] {
		return nil
	}
	visited[b.ID] = true

	if b.LoopDepth+1 < len(stack) {
		stack = stack[:b.LoopDepth+1]
	}

	entering := b.IsLoopHeader() && !g.Headers[b.ID].Synthetic
	switch {
	case entering:
		if b.LoopDepth != len(stack) {
			return loopDepthMismatch(b.ID, b.LoopDepth, len(stack))
		}
		header := g.Headers[b.ID]
		header.Parent = g.Headers[stack[len(stack)-1]]
		header.Depth = len(stack)
		stack = append(stack, b.ID)
	default:
		if b.LoopDepth != len(stack)-1 {
			return loopDepthMismatch(b.ID, b.LoopDepth, len(stack))
		}
	}

	b.LoopID = stack[b.LoopDepth]

	if b.IsBackedge() {
		return nil
	}

	for _, s := range b.Successors {
		if err := classify(g, s, stack, visited); err != nil {
			return err
		}
	}
	return nil
}

func loopDepthMismatch(id string, depth, stackLen int) error {
	return errors.New(errors.ErrCodeLoopDepthMismatch,
		"block %s: loopDepth %d disagrees with loop tree position (stack length %d)", id, depth, stackLen)
}
