package transform

import "github.com/iongraph/iongraph/pkg/cfg"

// orderKeys assigns every block a stable left-to-right ordering key, derived
// from a depth-first traversal that follows successor order and never
// crosses a backedge. Materialize uses these keys — never block id — to
// decide horizontal placement within a layer, so that renumbering block ids
// never changes relative positions.
func orderKeys(g *cfg.Graph) map[string]float64 {
	keys := make(map[string]float64, len(g.Blocks))
	next := 0.0
	visited := make(map[string]bool, len(g.Blocks))

	var visit func(b *cfg.Block)
	visit = func(b *cfg.Block) {
		if visited[b.ID] {
			return
		}
		visited[b.ID] = true
		keys[b.ID] = next
		next++
		if b.IsBackedge() {
			return
		}
		for _, s := range b.Successors {
			visit(s)
		}
	}

	for _, root := range g.Roots {
		visit(root)
	}
	// Any block unreachable from a root (should not occur in a well-formed
	// graph, but keeps the key map total) still gets a key.
	for _, b := range g.SortedBlocks() {
		visit(b)
	}
	return keys
}
