package transform

import (
	"fmt"
	"sort"

	"github.com/iongraph/iongraph/pkg/cfg"
)

// activeEdge is an in-flight forward edge threaded across layers while
// Materialize walks the graph top-down: it carries the LayoutNode most
// recently standing in for its source, the port it must wire to, the
// Block it is ultimately headed for, and the ordering key of its true
// origin (used to keep the dummy chain aligned with where the edge started
// rather than where it currently is).
type activeEdge struct {
	src  cfg.LayoutNode
	port int
	dst  *cfg.Block
	key  float64
}

type positioned struct {
	node cfg.LayoutNode
	key  float64
}

// Materialize groups
// blocks by layer, creates one BlockNode per block, inserts dummy nodes for
// edges that span more than one layer and for backedge return columns, and
// prunes columns that ran further than the loops they serve actually
// needed.
//
// Horizontal order within a layer — which block or dummy sits left of which
// — is never derived from block id. Blocks are ordered by a structural
// traversal key (orderKeys); a forward dummy inherits the key of the edge's
// true origin so its whole chain stays aligned with the source; a backedge
// dummy sits just right of the loop's rightmost block on that layer.
func Materialize(g *cfg.Graph) *cfg.Layout {
	keys := orderKeys(g)
	blocksByLayer := groupByLayer(g, keys)

	layout := &cfg.Layout{}
	var activeEdges []activeEdge
	latestBackedgeDummy := make(map[string]*cfg.DummyNode) // header id -> latest dummy in its column
	columns := make(map[string][]*cfg.DummyNode)           // header id -> column, oldest first, for orphan pruning
	nextDummyID := 0

	for layer, blocks := range blocksByLayer {
		var terminating, surviving []activeEdge
		for _, e := range activeEdges {
			if e.dst.Layer == layer {
				terminating = append(terminating, e)
			} else {
				surviving = append(surviving, e)
			}
		}

		type dummyEntry struct {
			node *cfg.DummyNode
			dst  *cfg.Block
			key  float64
		}
		entries := make(map[string]*dummyEntry)
		for _, e := range surviving {
			ent, ok := entries[e.dst.ID]
			if !ok {
				nextDummyID++
				d := cfg.NewDummyNode(fmt.Sprintf("fwd~%s~%d", e.dst.ID, nextDummyID), layer, e.dst)
				ent = &dummyEntry{node: d, dst: e.dst, key: e.key}
				entries[e.dst.ID] = ent
			} else if e.key < ent.key {
				ent.key = e.key
			}
			e.src.SetDst(e.port, ent.node)
			ent.node.AddSrc(e.src)
		}
		var ordered []*dummyEntry
		for _, ent := range entries {
			ordered = append(ordered, ent)
		}
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].key != ordered[j].key {
				return ordered[i].key < ordered[j].key
			}
			return ordered[i].dst.ID < ordered[j].dst.ID
		})
		var layerNodes []positioned
		activeEdges = activeEdges[:0]
		for _, ent := range ordered {
			layerNodes = append(layerNodes, positioned{node: ent.node, key: ent.key})
			activeEdges = append(activeEdges, activeEdge{src: ent.node, port: 0, dst: ent.dst, key: ent.key})
		}

		pendingRightmost := make(map[string]*cfg.Block)
		for _, b := range blocks {
			for h := g.Headers[b.LoopID]; h != nil && !h.Synthetic; h = h.Parent {
				pendingRightmost[h.Header.ID] = b
			}
		}

		blockNodes := make(map[string]*cfg.BlockNode, len(blocks))
		for _, b := range blocks {
			n := cfg.NewBlockNode(b.ID, b)
			b.Node = n
			blockNodes[b.ID] = n
			layerNodes = append(layerNodes, positioned{node: n, key: keys[b.ID]})
		}
		for _, e := range terminating {
			n := blockNodes[e.dst.ID]
			e.src.SetDst(e.port, n)
			n.AddSrc(e.src)
		}

		var headerIDs []string
		for id := range pendingRightmost {
			headerIDs = append(headerIDs, id)
		}
		sort.Slice(headerIDs, func(i, j int) bool {
			hi, hj := g.Headers[headerIDs[i]], g.Headers[headerIDs[j]]
			if hi.Depth != hj.Depth {
				return hi.Depth < hj.Depth
			}
			return headerIDs[i] < headerIDs[j]
		})

		currentBackedgeDummy := make(map[string]*cfg.DummyNode) // backedge block id -> this layer's dummy
		for depthIdx, hID := range headerIDs {
			header := g.Headers[hID]
			backedgeBlock := header.Backedge()
			anchor := pendingRightmost[hID]
			nextDummyID++
			d := cfg.NewDummyNode(fmt.Sprintf("bwd~%s~%d", hID, nextDummyID), layer, backedgeBlock)

			if prev := latestBackedgeDummy[hID]; prev != nil {
				d.SetDst(0, prev)
				prev.AddSrc(d)
			} else {
				anchorNode := backedgeBlock.Node
				d.SetDst(0, anchorNode)
				anchorNode.AddSrc(d)
				d.SetFlag(cfg.FlagImminentBackedgeDummy)
			}
			latestBackedgeDummy[hID] = d
			columns[hID] = append(columns[hID], d)
			currentBackedgeDummy[backedgeBlock.ID] = d

			key := keys[anchor.ID] + 0.5 + float64(depthIdx)*0.01
			layerNodes = append(layerNodes, positioned{node: d, key: key})
		}

		for _, b := range blocks {
			n := blockNodes[b.ID]
			if b.IsBackedge() {
				header := b.Successors[0]
				headerNode := header.Node
				n.SetDst(0, headerNode)
				headerNode.AddSrc(n)
				continue
			}
			for idx, s := range b.Successors {
				if s.IsBackedge() {
					d := currentBackedgeDummy[s.ID]
					n.SetDst(idx, d)
					d.AddSrc(n)
					continue
				}
				activeEdges = append(activeEdges, activeEdge{src: n, port: idx, dst: s, key: keys[b.ID]})
			}
		}

		sort.SliceStable(layerNodes, func(i, j int) bool { return layerNodes[i].key < layerNodes[j].key })
		for _, p := range layerNodes {
			layout.AddNode(layer, p.node)
		}
	}

	pruneOrphanBackedgeColumns(layout, columns)
	flagLeftmostRightmostDummies(layout)

	return layout
}

// groupByLayer buckets every block into its assigned layer, ordered
// left-to-right by orderKeys.
func groupByLayer(g *cfg.Graph, keys map[string]float64) [][]*cfg.Block {
	maxLayer := 0
	for _, b := range g.Blocks {
		if b.Layer > maxLayer {
			maxLayer = b.Layer
		}
	}
	out := make([][]*cfg.Block, maxLayer+1)
	for _, b := range g.SortedBlocks() {
		out[b.Layer] = append(out[b.Layer], b)
	}
	for _, layer := range out {
		sort.Slice(layer, func(i, j int) bool { return keys[layer[i].ID] < keys[layer[j].ID] })
	}
	return out
}

// pruneOrphanBackedgeColumns removes trailing dummies from each backedge
// return column that reached further than the
// loop actually needed: a column is built from the anchor outward, so an
// unused tail always sits at the end of the recorded column slice.
func pruneOrphanBackedgeColumns(layout *cfg.Layout, columns map[string][]*cfg.DummyNode) {
	for _, col := range columns {
		for len(col) > 0 {
			last := col[len(col)-1]
			if len(last.SrcNodes()) > 0 {
				break
			}
			if dst := last.DstNodes()[0]; dst != nil {
				dst.RemoveSrc(last)
			}
			layout.RemoveNode(last.Layer(), last)
			col = col[:len(col)-1]
		}
	}
}

// flagLeftmostRightmostDummies scans each layer from the outside in,
// flagging contiguous runs of dummy nodes at either end.
func flagLeftmostRightmostDummies(layout *cfg.Layout) {
	for _, nodes := range layout.NodesByLayer {
		for i := 0; i < len(nodes) && nodes[i].IsDummy(); i++ {
			nodes[i].SetFlag(cfg.FlagLeftmostDummy)
		}
		for i := len(nodes) - 1; i >= 0 && nodes[i].IsDummy(); i-- {
			nodes[i].SetFlag(cfg.FlagRightmostDummy)
		}
	}
}
