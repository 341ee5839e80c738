package layout

import (
	"encoding/json"
	"testing"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/ir"
)

func rawInstr(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal instruction: %v", err)
	}
	return data
}

func TestDefaultSizer_GrowsWithInstructionCount(t *testing.T) {
	short := ir.Block{ID: "0", Instructions: []json.RawMessage{rawInstr(t, "goto")}}
	long := ir.Block{ID: "1", Instructions: []json.RawMessage{
		rawInstr(t, "goto"),
		rawInstr(t, "add v1 v2"),
		rawInstr(t, "return v3"),
	}}

	sizer := defaultSizer([]ir.Block{short, long})

	shortSize := sizer(&cfg.Block{ID: short.ID})
	longSize := sizer(&cfg.Block{ID: long.ID})

	if longSize.Height <= shortSize.Height {
		t.Errorf("expected block with more instructions to be taller: short=%v long=%v", shortSize.Height, longSize.Height)
	}
}

func TestDefaultSizer_UnknownBlockGetsMinimumSize(t *testing.T) {
	sizer := defaultSizer([]ir.Block{{ID: "0"}})
	size := sizer(&cfg.Block{ID: "missing"})
	if size.Width != minWidth || size.Height != minHeight {
		t.Errorf("size = %+v, want minimum %vx%v", size, minWidth, minHeight)
	}
}

func TestDefaultSizer_NeverBelowMinimum(t *testing.T) {
	empty := ir.Block{ID: "0"}
	sizer := defaultSizer([]ir.Block{empty})
	size := sizer(&cfg.Block{ID: empty.ID})
	if size.Width < minWidth || size.Height < minHeight {
		t.Errorf("size = %+v, below minimum %vx%v", size, minWidth, minHeight)
	}
}

func TestInstructionChars_HandlesStringsAndObjects(t *testing.T) {
	if got := instructionChars(rawInstr(t, "hello")); got != 5 {
		t.Errorf("string instruction chars = %d, want 5", got)
	}
	if got := instructionChars(rawInstr(t, map[string]string{"op": "add"})); got == 0 {
		t.Errorf("object instruction chars = %d, want > 0", got)
	}
	if got := instructionChars(json.RawMessage("123")); got != 3 {
		t.Errorf("fallback instruction chars = %d, want 3", got)
	}
}
