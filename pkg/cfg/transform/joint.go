package transform

import (
	"sort"

	"github.com/iongraph/iongraph/pkg/cfg"
)

// joint is a candidate two-bend edge's middle horizontal segment: it spans
// [lo, hi] at some x1 (source port) and x2 (destination port), on the layer
// between src and dst.
type joint struct {
	src, dst cfg.LayoutNode
	port     int
	x1, x2   float64
}

func (j joint) lo() float64 {
	if j.x1 < j.x2 {
		return j.x1
	}
	return j.x2
}

func (j joint) hi() float64 {
	if j.x1 > j.x2 {
		return j.x1
	}
	return j.x2
}

func (j joint) rightward() bool { return j.x2 >= j.x1 }

// overlaps reports whether two joints' closed x-intervals overlap, treating
// joints that share a destination node as non-overlapping since their
// arrows are meant to visually fuse.
func (j joint) overlaps(other joint) bool {
	if j.dst == other.dst {
		return false
	}
	return j.lo() <= other.hi() && other.lo() <= j.hi()
}

// RouteJoints collects every two-bend
// edge's middle segment per layer, and assigns each to the innermost
// non-overlapping horizontal track, recording each source port's y-offset
// and each layer's total track height for the Verticalizer to consume.
func RouteJoints(layout *cfg.Layout, p Params) {
	layout.TrackHeights = make([]float64, len(layout.NodesByLayer))

	for layer, nodes := range layout.NodesByLayer {
		joints := collectJoints(nodes, p)
		if len(joints) == 0 {
			continue
		}
		sort.SliceStable(joints, func(i, j int) bool { return joints[i].x1 < joints[j].x1 })

		var rightward, leftward []joint
		var rightTracks, leftTracks [][]joint
		for _, j := range joints {
			if j.rightward() {
				rightward = append(rightward, j)
				rightTracks = assignTrack(rightTracks, j)
			} else {
				leftward = append(leftward, j)
				leftTracks = assignTrack(leftTracks, j)
			}
		}

		r, l := len(rightTracks), len(leftTracks)
		height := 0.0
		if total := r + l - 1; total > 0 {
			height = float64(total) * p.JointSpacing
		}
		layout.TrackHeights[layer] = height

		offsets := trackOffsets(r, l, p.JointSpacing)
		for i, track := range rightTracks {
			for _, j := range track {
				j.src.SetJointOffset(j.port, offsets[i])
			}
		}
		for i, track := range leftTracks {
			for _, j := range track {
				j.src.SetJointOffset(j.port, offsets[r+i])
			}
		}
	}
}

func collectJoints(nodes []cfg.LayoutNode, p Params) []joint {
	var joints []joint
	for _, n := range nodes {
		if bn, ok := n.(*cfg.BlockNode); ok && bn.Block.IsBackedge() {
			continue
		}
		for port, dst := range n.DstNodes() {
			if dst == nil {
				continue
			}
			x1 := n.Position().X + p.PortStart + float64(port)*p.PortSpacing
			x2 := dst.Position().X + p.PortStart
			if abs(x2-x1) < 2*p.ArrowRadius {
				continue
			}
			joints = append(joints, joint{src: n, dst: dst, port: port, x1: x1, x2: x2})
		}
	}
	return joints
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// assignTrack places j in the innermost (most recently added) track with no
// overlap, scanning outward, or opens a new outermost track if none fits
// joint.overlaps already treats a shared destination as
// non-overlapping, so a track holding a same-destination joint is always a
// valid — and preferred, being scanned first — fit.
func assignTrack(tracks [][]joint, j joint) [][]joint {
	for i := len(tracks) - 1; i >= 0; i-- {
		fits := true
		for _, other := range tracks[i] {
			if j.overlaps(other) {
				fits = false
				break
			}
		}
		if fits {
			tracks[i] = append(tracks[i], j)
			return tracks
		}
	}
	return append(tracks, []joint{j})
}

// trackOffsets distributes r rightward and l leftward track y-offsets
// symmetrically around 0, stepping by spacing. The result is indexed like
// the tracks (rightward first, then leftward); the rightward tracks take
// their offsets in reverse order, so the most recently opened rightward
// track gets the most negative offset, and the leftward tracks follow in
// order.
func trackOffsets(r, l int, spacing float64) []float64 {
	total := r + l
	offsets := make([]float64, total)
	start := -float64(total-1) / 2 * spacing
	for i := 0; i < r; i++ {
		offsets[r-1-i] = start + float64(i)*spacing
	}
	for i := 0; i < l; i++ {
		offsets[r+i] = start + float64(r+i)*spacing
	}
	return offsets
}
