package transform

import (
	"testing"

	"github.com/iongraph/iongraph/pkg/cfg/perm"
	"github.com/iongraph/iongraph/pkg/ir"
)

// TestStability_RelabelingIDsPreservesRelativeOrder builds the same diamond
// shape under every permutation of a 4-letter id alphabet and checks that
// the structural left-to-right order within each layer never depends on
// which label landed on which role.
func TestStability_RelabelingIDsPreservesRelativeOrder(t *testing.T) {
	alphabet := [4]string{"W", "X", "Y", "Z"}
	roleName := []string{"root", "left", "right", "exit"}

	for _, p := range perm.Generate(4, 0) {
		var labels [4]string
		for role, idx := range p {
			labels[role] = alphabet[idx]
		}
		root, left, right, exit := labels[0], labels[1], labels[2], labels[3]

		g := mustGraph(t, []ir.Block{
			{ID: root, Successors: []string{left, right}},
			{ID: left, Predecessors: []string{root}, Successors: []string{exit}},
			{ID: right, Predecessors: []string{root}, Successors: []string{exit}},
			{ID: exit, Predecessors: []string{left, right}},
		})
		mustClassify(t, g)
		AssignLayers(g)
		sizeAllBlocks(g, 100, 50)
		layout := Materialize(g)
		Straighten(g, layout, DefaultParams())

		mid := layout.NodesByLayer[1]
		if len(mid) != 2 {
			t.Fatalf("labels %v: expected 2 nodes on the middle layer, got %d", labels, len(mid))
		}
		if mid[0].NodeID() != left || mid[1].NodeID() != right {
			t.Errorf("labels %v (%s): middle layer order = [%s, %s], want [%s(%s), %s(%s)]",
				labels, roleName, mid[0].NodeID(), mid[1].NodeID(), left, roleName[1], right, roleName[2])
		}
	}
}
