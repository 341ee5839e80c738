package transform

import (
	"testing"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/errors"
	"github.com/iongraph/iongraph/pkg/ir"
)

func mustGraph(t *testing.T, blocks []ir.Block) *cfg.Graph {
	t.Helper()
	g, err := cfg.NewGraph(blocks)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func TestClassifyLoops_NoLoops(t *testing.T) {
	g := mustGraph(t, []ir.Block{
		{ID: "0", Successors: []string{"1"}},
		{ID: "1", Predecessors: []string{"0"}, Successors: []string{"2"}},
		{ID: "2", Predecessors: []string{"1"}},
	})

	if err := ClassifyLoops(g); err != nil {
		t.Fatalf("ClassifyLoops() error = %v", err)
	}
	for _, id := range []string{"0", "1", "2"} {
		if g.Block(id).LoopID != "0" {
			t.Errorf("block %s LoopID = %q, want root synthetic header 0", id, g.Block(id).LoopID)
		}
	}
}

func TestClassifyLoops_SimpleLoop(t *testing.T) {
	// S3, wrapped in a trivial entry block E: E -> 0[loopheader, LD=1] -> 2[LD=0],
	// 0 -> 1[backedge, LD=1] -> 0.
	g := mustGraph(t, []ir.Block{
		{ID: "E", Successors: []string{"0"}},
		{ID: "0", LoopDepth: 1, Predecessors: []string{"E", "1"}, Successors: []string{"2", "1"}, Attributes: []string{ir.AttrLoopHeader}},
		{ID: "1", LoopDepth: 1, Predecessors: []string{"0"}, Successors: []string{"0"}, Attributes: []string{ir.AttrBackedge}},
		{ID: "2", LoopDepth: 0, Predecessors: []string{"0"}},
	})

	if err := ClassifyLoops(g); err != nil {
		t.Fatalf("ClassifyLoops() error = %v", err)
	}

	if got := g.Block("E").LoopID; got != "E" {
		t.Errorf("entry block E LoopID = %q, want its own synthetic root id E", got)
	}
	if got := g.Block("0").LoopID; got != "0" {
		t.Errorf("header block 0 LoopID = %q, want its own id", got)
	}
	if got := g.Block("1").LoopID; got != "0" {
		t.Errorf("backedge block 1 LoopID = %q, want 0", got)
	}
	if got := g.Block("2").LoopID; got != "E" {
		t.Errorf("block 2 LoopID = %q, want root synthetic header E", got)
	}

	header := g.Headers["0"]
	if header.Parent == nil || header.Parent.Header.ID != "E" {
		t.Errorf("header 0 Parent should be root synthetic header E")
	}
}

func TestClassifyLoops_NestedLoops(t *testing.T) {
	// entry E -> outer O[LD=1,header] -> I[LD=2,header] -> BI[backedge,LD=2] -> I
	//                                  -> BO[backedge,LD=1] -> O
	g := mustGraph(t, []ir.Block{
		{ID: "E", Successors: []string{"O"}},
		{ID: "O", LoopDepth: 1, Predecessors: []string{"E", "BO"}, Successors: []string{"I", "BO"}, Attributes: []string{ir.AttrLoopHeader}},
		{ID: "I", LoopDepth: 2, Predecessors: []string{"O", "BI"}, Successors: []string{"BI", "BO"}, Attributes: []string{ir.AttrLoopHeader}},
		{ID: "BI", LoopDepth: 2, Predecessors: []string{"I"}, Successors: []string{"I"}, Attributes: []string{ir.AttrBackedge}},
		{ID: "BO", LoopDepth: 1, Predecessors: []string{"O", "I"}, Successors: []string{"O"}, Attributes: []string{ir.AttrBackedge}},
	})

	if err := ClassifyLoops(g); err != nil {
		t.Fatalf("ClassifyLoops() error = %v", err)
	}

	if got := g.Block("I").LoopID; got != "I" {
		t.Errorf("inner header I LoopID = %q, want I", got)
	}
	if got := g.Block("BI").LoopID; got != "I" {
		t.Errorf("BI LoopID = %q, want I", got)
	}
	if got := g.Block("O").LoopID; got != "O" {
		t.Errorf("outer header O LoopID = %q, want O", got)
	}

	inner := g.Headers["I"]
	outer := g.Headers["O"]
	if inner.Parent != outer {
		t.Errorf("inner header's Parent should be outer header")
	}
	if outer.Depth != 1 || inner.Depth != 2 {
		t.Errorf("Depth: outer=%d inner=%d, want 1,2", outer.Depth, inner.Depth)
	}
}

func TestClassifyLoops_DepthMismatch(t *testing.T) {
	g := mustGraph(t, []ir.Block{
		{ID: "0", LoopDepth: 5, Successors: nil},
	})

	err := ClassifyLoops(g)
	if !errors.Is(err, errors.ErrCodeLoopDepthMismatch) {
		t.Fatalf("ClassifyLoops() error = %v, want ErrCodeLoopDepthMismatch", err)
	}
}
