package transform

import "github.com/iongraph/iongraph/pkg/cfg"

// AssignLayers assigns every block an integer layer (y-rank) that respects
// loop containment and preserves forward flow, and computes each loop
// header's loopHeight.
//
// # Algorithm
//
// A recursive forward walk starts from each root at layer 0. Visiting a
// block b at candidate layer L:
//   - If b is a backedge block, its layer becomes its (sole) successor's
//     layer — the loop header's — and the walk does not recurse past it.
//   - Otherwise b.Layer is raised to max(b.Layer, L), and every loop header
//     enclosing b has its loopHeight raised to cover b's layer.
//   - Each successor s is either recursed into immediately at L+1, or, if s
//     exits b's loop (s.LoopDepth < b.LoopDepth), deferred onto the
//     enclosing header's outgoing-edge list (keyed by b.LoopID, not b.ID,
//     so an exit from a loop-body block is deferred the same as one from
//     the header itself).
//   - After b's ordinary successors are walked, if b is a true loop header,
//     its deferred outgoing edges are finally walked, at layer
//     header.Layer + header.LoopHeight. Because the walk is depth-first and
//     the loop body is reached entirely through b's ordinary successors,
//     the whole loop has already been visited — and its LoopHeight is
//     final — by the time this call returns to process them. This forces
//     anything the loop exits to land strictly below the whole loop body,
//     even along an early-exit path.
//
// AssignLayers does not guard against revisiting a block already on the
// walk: the max() update is monotone, so revisits along reconverging paths
// only ever raise a layer, and the walk terminates because layers are
// bounded above by the block count.
func AssignLayers(g *cfg.Graph) {
	outgoing := make(map[string][]*cfg.Block)
	for _, root := range g.Roots {
		walk(g, root, 0, outgoing)
	}
}

func walk(g *cfg.Graph, b *cfg.Block, layer int, outgoing map[string][]*cfg.Block) {
	if b.IsBackedge() {
		b.Layer = b.Successors[0].Layer
		return
	}

	if layer > b.Layer {
		b.Layer = layer
	}
	raiseLoopHeights(g, b)

	for _, s := range b.Successors {
		if s.LoopDepth < b.LoopDepth {
			outgoing[b.LoopID] = append(outgoing[b.LoopID], s)
			continue
		}
		walk(g, s, b.Layer+1, outgoing)
	}

	if !b.IsLoopHeader() {
		return
	}
	header := g.Headers[b.ID]
	if header.Synthetic {
		return
	}
	for _, t := range outgoing[b.ID] {
		walk(g, t, header.Header.Layer+header.LoopHeight, outgoing)
	}
}

// raiseLoopHeights walks up the loop tree from b's enclosing header, raising
// each ancestor header's loopHeight to cover b's layer.
func raiseLoopHeights(g *cfg.Graph, b *cfg.Block) {
	header := g.Headers[b.LoopID]
	for header != nil {
		if h := b.Layer - header.Header.Layer + 1; h > header.LoopHeight {
			header.LoopHeight = h
		}
		header = header.Parent
	}
}
