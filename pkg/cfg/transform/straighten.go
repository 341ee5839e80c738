package transform

import (
	"sort"

	"github.com/iongraph/iongraph/pkg/cfg"
)

// Straighten runs a fixed pipeline of idempotent
// local passes that only ever move pos.x. The order is deliberate — this
// package never globally minimizes crossings, only stabilizes the geometry
// a deterministic pipeline can guarantee is reproducible across runs.
func Straighten(g *cfg.Graph, layout *cfg.Layout, p Params) {
	for i := 0; i < p.LayoutIterations; i++ {
		straightenChildren(layout, p)
		pushIntoLoops(g, layout)
		straightenDummyRuns(layout, p)
	}
	straightenDummyRuns(layout, p)

	for i := 0; i < p.NearlyStraightIterations; i++ {
		straightenNearlyStraight(layout, p, i%2 == 0)
	}

	straightenConservative(layout, p)
	straightenDummyRuns(layout, p)
	suckInLeftmostDummies(layout, p)
}

func pushNeighbors(nodes []cfg.LayoutNode, p Params) {
	for i := 1; i < len(nodes); i++ {
		prev, cur := nodes[i-1], nodes[i]
		gap := p.BlockGap
		if prev.IsDummy() && !cur.IsDummy() {
			gap += p.PortStart
		}
		if bn, ok := prev.(*cfg.BlockNode); ok && bn.Block.IsBackedge() {
			gap += p.BackedgeArrowPushout + p.BlockGap + p.PortStart
		}
		minX := prev.Position().X + prev.Dimensions().Width + gap
		if cur.Position().X < minX {
			pos := cur.Position()
			pos.X = minX
			cur.SetPosition(pos)
		}
	}
}

func portIndex(src, dst cfg.LayoutNode) int {
	for i, d := range src.DstNodes() {
		if d == dst {
			return i
		}
	}
	return -1
}

func isFirstSource(dst, src cfg.LayoutNode) bool {
	srcs := dst.SrcNodes()
	return len(srcs) > 0 && srcs[0] == src
}

func layerIndexOf(layout *cfg.Layout, layer int, n cfg.LayoutNode) int {
	for i, other := range layout.NodesByLayer[layer] {
		if other == n {
			return i
		}
	}
	return -1
}

// straightenChildren pulls a first-linked child right so its incoming port
// aligns with its parent's outgoing port, top-down, never crossing an
// already-shifted sibling.
func straightenChildren(layout *cfg.Layout, p Params) {
	for layer := 0; layer < len(layout.NodesByLayer)-1; layer++ {
		nodes := layout.NodesByLayer[layer]
		pushNeighbors(nodes, p)
		nextLayer := layer + 1

		highestShifted := -1
		for _, n := range nodes {
			for port, dst := range n.DstNodes() {
				if dst == nil || dst.Layer() != nextLayer {
					continue
				}
				if !isFirstSource(dst, n) {
					continue
				}
				idx := layerIndexOf(layout, nextLayer, dst)
				if idx < 0 || idx <= highestShifted {
					continue
				}
				srcPortX := n.Position().X + p.PortStart + float64(port)*p.PortSpacing
				dstPortX := dst.Position().X + p.PortStart
				if delta := srcPortX - dstPortX; delta > 0 {
					pos := dst.Position()
					pos.X += delta
					dst.SetPosition(pos)
				}
				highestShifted = idx
			}
		}
	}
}

// pushIntoLoops enforces that no BlockNode inside a real loop sits left of
// its loop header.
func pushIntoLoops(g *cfg.Graph, layout *cfg.Layout) {
	for _, nodes := range layout.NodesByLayer {
		for _, n := range nodes {
			bn, ok := n.(*cfg.BlockNode)
			if !ok {
				continue
			}
			header := g.Headers[bn.Block.LoopID]
			if header == nil || header.Synthetic || header.Header.Node == nil {
				continue
			}
			headerX := header.Header.Node.Position().X
			if bn.Position().X < headerX {
				pos := bn.Position()
				pos.X = headerX
				bn.SetPosition(pos)
			}
		}
	}
}

func dummyColumns(layout *cfg.Layout) map[string][]*cfg.DummyNode {
	columns := make(map[string][]*cfg.DummyNode)
	for _, nodes := range layout.NodesByLayer {
		for _, n := range nodes {
			d, ok := n.(*cfg.DummyNode)
			if !ok {
				continue
			}
			columns[d.DstBlock.ID] = append(columns[d.DstBlock.ID], d)
		}
	}
	return columns
}

// straightenDummyRuns aligns every dummy in a column to a single x: either
// the position that seats it beside its backedge block's return arrow, or
// the column's own current rightmost x.
func straightenDummyRuns(layout *cfg.Layout, p Params) {
	for _, col := range dummyColumns(layout) {
		if len(col) == 0 {
			continue
		}
		dst := col[0].DstBlock
		var desiredX float64
		if dst.IsBackedge() && dst.Node != nil {
			desiredX = dst.Node.Position().X + dst.Node.Dimensions().Width + p.BackedgeArrowPushout
		} else {
			for _, d := range col {
				if x := d.Position().X; x > desiredX {
					desiredX = x
				}
			}
		}
		for _, d := range col {
			if pos := d.Position(); desiredX > pos.X {
				pos.X = desiredX
				d.SetPosition(pos)
			}
		}
	}
	for _, nodes := range layout.NodesByLayer {
		pushNeighbors(nodes, p)
	}
}

// straightenNearlyStraight aligns near-vertical dummy edges to the
// rightmost of the two endpoints, alternating traversal direction each call
// so corrections from one side can settle before the next pass runs the
// other way.
func straightenNearlyStraight(layout *cfg.Layout, p Params, topDown bool) {
	n := len(layout.NodesByLayer)
	for i := 0; i < n; i++ {
		layer := i
		if !topDown {
			layer = n - 1 - i
		}
		for _, node := range layout.NodesByLayer[layer] {
			d, ok := node.(*cfg.DummyNode)
			if !ok {
				continue
			}
			dst := d.DstNodes()[0]
			if dst == nil {
				continue
			}
			offset := dst.Position().X - d.Position().X
			if offset < 0 {
				offset = -offset
			}
			if offset > p.NearlyStraight {
				continue
			}
			maxX := d.Position().X
			if dst.Position().X > maxX {
				maxX = dst.Position().X
			}
			pos := d.Position()
			pos.X = maxX
			d.SetPosition(pos)
			pos = dst.Position()
			pos.X = maxX
			dst.SetPosition(pos)
		}
	}
}

// straightenConservative walks each layer right-to-left, shifting a block
// node right by the smallest positive delta that would align one of its
// ports with a neighbor's, as long as doing so doesn't collide with a
// non-rightmost-dummy node to its right.
func straightenConservative(layout *cfg.Layout, p Params) {
	for _, nodes := range layout.NodesByLayer {
		for i := len(nodes) - 1; i >= 0; i-- {
			bn, ok := nodes[i].(*cfg.BlockNode)
			if !ok || bn.Block.IsBackedge() {
				continue
			}

			var candidates []float64
			for _, src := range bn.SrcNodes() {
				port := portIndex(src, bn)
				if port < 0 {
					continue
				}
				srcPortX := src.Position().X + p.PortStart + float64(port)*p.PortSpacing
				dstPortX := bn.Position().X + p.PortStart
				if delta := srcPortX - dstPortX; delta > 0 {
					candidates = append(candidates, delta)
				}
			}
			for port, dst := range bn.DstNodes() {
				if dst == nil {
					continue
				}
				srcPortX := bn.Position().X + p.PortStart + float64(port)*p.PortSpacing
				dstPortX := dst.Position().X + p.PortStart
				if delta := dstPortX - srcPortX; delta > 0 {
					candidates = append(candidates, delta)
				}
			}
			sort.Float64s(candidates)

			for _, delta := range candidates {
				newX := bn.Position().X + delta
				if !blockedToRight(nodes, i, newX, bn.Dimensions().Width, p) {
					pos := bn.Position()
					pos.X = newX
					bn.SetPosition(pos)
					break
				}
			}
		}
	}
}

func blockedToRight(nodes []cfg.LayoutNode, i int, newX, width float64, p Params) bool {
	rightEdge := newX + width
	for j := i + 1; j < len(nodes); j++ {
		n := nodes[j]
		if n.IsDummy() && n.HasFlag(cfg.FlagRightmostDummy) {
			continue
		}
		if n.Position().X < rightEdge+p.BlockGap {
			return true
		}
	}
	return false
}

// suckInLeftmostDummies walks each layer's leftmost-dummy run right to
// left, computing how far left each dummy could safely move, then aligns
// every dummy in a column to the tightest (smallest) safe position found
// across all layers it touches, so the column stays a straight line
// each other.
func suckInLeftmostDummies(layout *cfg.Layout, p Params) {
	safe := make(map[*cfg.DummyNode]float64)

	for _, nodes := range layout.NodesByLayer {
		runEnd := 0
		for runEnd < len(nodes) && nodes[runEnd].IsDummy() && nodes[runEnd].HasFlag(cfg.FlagLeftmostDummy) {
			runEnd++
		}
		for i := runEnd - 1; i >= 0; i-- {
			d := nodes[i].(*cfg.DummyNode)
			bound := d.Position().X
			if i+1 < len(nodes) {
				if b := nodes[i+1].Position().X - p.BlockGap - d.Dimensions().Width; b < bound {
					bound = b
				}
			}
			for _, src := range d.SrcNodes() {
				port := portIndex(src, d)
				if port < 0 {
					continue
				}
				if b := src.Position().X + p.PortStart + float64(port)*p.PortSpacing; b < bound {
					bound = b
				}
			}
			if dst := d.DstNodes()[0]; dst != nil {
				if b := dst.Position().X + p.PortStart; b < bound {
					bound = b
				}
			}
			safe[d] = bound
		}
	}

	for _, col := range dummyColumns(layout) {
		min, any := 0.0, false
		for _, d := range col {
			b, ok := safe[d]
			if !ok {
				continue
			}
			if !any || b < min {
				min = b
				any = true
			}
		}
		if !any {
			continue
		}
		for _, d := range col {
			if _, ok := safe[d]; !ok {
				continue
			}
			pos := d.Position()
			pos.X = min
			d.SetPosition(pos)
		}
	}
}
