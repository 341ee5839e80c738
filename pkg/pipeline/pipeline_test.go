package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/ir"
)

func diamondPassJSON(t *testing.T) []byte {
	t.Helper()
	pass := ir.Pass{
		Name: "test",
		MIR: &ir.BlockSet{Blocks: []ir.Block{
			{ID: "0", Successors: []string{"1", "2"}},
			{ID: "1", Predecessors: []string{"0"}, Successors: []string{"3"}},
			{ID: "2", Predecessors: []string{"0"}, Successors: []string{"3"}},
			{ID: "3", Predecessors: []string{"1", "2"}},
		}},
	}
	data, err := json.Marshal(pass)
	if err != nil {
		t.Fatalf("marshal pass: %v", err)
	}
	return data
}

func fixedSizer(b *cfg.Block) cfg.Size { return cfg.Size{Width: 100, Height: 50} }

func TestValidateAndSetDefaults_AppliesDefaults(t *testing.T) {
	opts := Options{Input: []byte(`{}`)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Kind != DefaultKind {
		t.Errorf("Kind = %q, want %q", opts.Kind, DefaultKind)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestValidateForParse_RequiresInput(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForParse(); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestValidateFormats_RejectsUnknown(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "bogus"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDecode_BuildsGraphFromPassJSON(t *testing.T) {
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer}
	g, err := Decode(opts)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(g.Blocks) != 4 {
		t.Errorf("blocks = %d, want 4", len(g.Blocks))
	}
}

func TestGenerateLayout_ProducesDocument(t *testing.T) {
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer}
	opts.SetLayoutDefaults()
	g, err := Decode(opts)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	doc, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	if len(doc.NodesByLayer) != 3 {
		t.Errorf("layers = %d, want 3", len(doc.NodesByLayer))
	}
}

func TestRender_ProducesRequestedFormats(t *testing.T) {
	opts := Options{Input: diamondPassJSON(t), Sizer: fixedSizer, Formats: []string{FormatSVG, FormatDOT, FormatJSON}}
	opts.SetLayoutDefaults()
	g, err := Decode(opts)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	doc, err := GenerateLayout(g, opts)
	if err != nil {
		t.Fatalf("GenerateLayout() error = %v", err)
	}
	artifacts, err := Render(doc, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, format := range opts.Formats {
		if len(artifacts[format]) == 0 {
			t.Errorf("missing artifact for format %s", format)
		}
	}
}
