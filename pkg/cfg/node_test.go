package cfg

import "testing"

func TestBlockNode_DstNodesSizedToSuccessors(t *testing.T) {
	b := &Block{ID: "0", Successors: []*Block{{ID: "1"}, {ID: "2"}}}
	n := NewBlockNode("0", b)

	if len(n.DstNodes()) != 2 {
		t.Fatalf("DstNodes() len = %d, want 2", len(n.DstNodes()))
	}
	if n.IsDummy() {
		t.Errorf("BlockNode.IsDummy() = true, want false")
	}
}

func TestDummyNode_SingleDestination(t *testing.T) {
	dst := &Block{ID: "3"}
	n := NewDummyNode("dummy-1", 2, dst)

	if len(n.DstNodes()) != 1 {
		t.Fatalf("DstNodes() len = %d, want 1", len(n.DstNodes()))
	}
	if !n.IsDummy() {
		t.Errorf("DummyNode.IsDummy() = false, want true")
	}
	if n.DstBlock != dst {
		t.Errorf("DstBlock = %v, want %v", n.DstBlock, dst)
	}
}

func TestLayoutNode_Flags(t *testing.T) {
	n := NewDummyNode("d", 0, &Block{ID: "x"})

	if n.HasFlag(FlagLeftmostDummy) {
		t.Errorf("fresh node should not have FlagLeftmostDummy set")
	}
	n.SetFlag(FlagLeftmostDummy)
	if !n.HasFlag(FlagLeftmostDummy) {
		t.Errorf("FlagLeftmostDummy not set after SetFlag")
	}
	if n.HasFlag(FlagRightmostDummy) {
		t.Errorf("unrelated flag should remain unset")
	}
}

func TestLayoutNode_JointOffsets(t *testing.T) {
	n := NewBlockNode("0", &Block{ID: "0", Successors: []*Block{{ID: "1"}}})
	n.SetJointOffset(0, 12.5)

	if got := n.JointOffsets()[0]; got != 12.5 {
		t.Errorf("JointOffsets()[0] = %v, want 12.5", got)
	}
}
