package ir

import (
	"encoding/json"
	"testing"

	"github.com/iongraph/iongraph/pkg/errors"
)

func diamondJSON() []byte {
	return []byte(`{
		"name": "test",
		"mir": {"blocks": [
			{"id": "0", "successors": ["1", "2"]},
			{"id": "1", "predecessors": ["0"], "successors": ["3"]},
			{"id": "2", "predecessors": ["0"], "successors": ["3"]},
			{"id": "3", "predecessors": ["1", "2"]}
		]}
	}`)
}

func TestDecode_ValidPassRoundTrips(t *testing.T) {
	p, err := Decode(diamondJSON())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %q, want %q", p.Name, "test")
	}
	if p.MIR == nil || len(p.MIR.Blocks) != 4 {
		t.Fatalf("expected 4 mir blocks, got %v", p.MIR)
	}
	if p.LIR != nil {
		t.Errorf("expected nil LIR, got %v", p.LIR)
	}
}

func TestDecode_MalformedJSONErrors(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected error decoding malformed JSON")
	} else if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestDecode_MissingBothBlockSetsErrors(t *testing.T) {
	_, err := Decode([]byte(`{"name": "empty"}`))
	if err == nil {
		t.Fatal("expected error for pass with neither mir nor lir")
	}
	if !errors.Is(err, errors.ErrCodeInvalidIR) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidIR)
	}
}

func TestDecode_EmptyBlockIDErrors(t *testing.T) {
	_, err := Decode([]byte(`{"name": "t", "mir": {"blocks": [{"id": ""}]}}`))
	if err == nil {
		t.Fatal("expected error for block with empty id")
	}
	if !errors.Is(err, errors.ErrCodeInvalidIR) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidIR)
	}
}

func TestDecode_DuplicateBlockIDErrors(t *testing.T) {
	_, err := Decode([]byte(`{"name": "t", "mir": {"blocks": [{"id": "0"}, {"id": "0"}]}}`))
	if err == nil {
		t.Fatal("expected error for duplicate block id")
	}
	if !errors.Is(err, errors.ErrCodeInvalidIR) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidIR)
	}
}

func TestDecodeFunc_ValidatesEveryPass(t *testing.T) {
	data := []byte(`{
		"name": "f",
		"passes": [
			{"name": "p1", "mir": {"blocks": [{"id": "0"}]}},
			{"name": "p2", "mir": {"blocks": [{"id": ""}]}}
		]
	}`)
	if _, err := DecodeFunc(data); err == nil {
		t.Fatal("expected error from second pass's invalid block")
	}
}

func TestPass_Blocks_ReturnsRequestedKind(t *testing.T) {
	p, err := Decode(diamondJSON())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	blocks, err := p.Blocks(KindMIR)
	if err != nil {
		t.Fatalf("Blocks(mir) error = %v", err)
	}
	if len(blocks) != 4 {
		t.Errorf("len(blocks) = %d, want 4", len(blocks))
	}

	if _, err := p.Blocks(KindLIR); err == nil {
		t.Error("expected error requesting lir blocks from a mir-only pass")
	}

	if _, err := p.Blocks(BlockKind("bogus")); err == nil {
		t.Error("expected error for unknown block kind")
	} else if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestBlock_HasAttribute(t *testing.T) {
	b := Block{Attributes: []string{AttrLoopHeader}}
	if !b.HasAttribute(AttrLoopHeader) {
		t.Error("expected HasAttribute(loopheader) to be true")
	}
	if b.HasAttribute(AttrBackedge) {
		t.Error("expected HasAttribute(backedge) to be false")
	}
}

func TestBlock_InstructionsPreservedAsRawJSON(t *testing.T) {
	data := []byte(`{"id": "0", "instructions": [{"op": "goto"}, "raw-op"]}`)
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal block: %v", err)
	}
	if len(b.Instructions) != 2 {
		t.Fatalf("len(Instructions) = %d, want 2", len(b.Instructions))
	}
}
