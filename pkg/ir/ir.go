// Package ir defines the JSON schema iongraph reads from SpiderMonkey's Ion
// backend: one document per compiled function, containing one Pass per
// optimization pass, each pass describing its MIR and/or LIR basic blocks.
//
// This package only decodes and structurally validates the document. It
// never inspects instructions and never enforces the CFG invariants that
// pkg/cfg checks (backedge counts, loop depth consistency); those belong to
// the layout engine, which is the only component allowed to reject a pass as
// malformed IR.
package ir

import (
	"encoding/json"

	"github.com/iongraph/iongraph/pkg/errors"
)

// Well-known block attributes. The core recognizes these three; any other
// string in a block's Attributes list is passed through untouched.
const (
	AttrLoopHeader = "loopheader"
	AttrBackedge   = "backedge"
	AttrSplitEdge  = "splitedge" // informational only, never inspected by pkg/cfg
)

// Block is one basic block within a Pass's block set.
type Block struct {
	ID           string            `json:"id"`
	Number       int               `json:"number"`
	LoopDepth    int               `json:"loopDepth"`
	Attributes   []string          `json:"attributes,omitempty"`
	Predecessors []string          `json:"predecessors,omitempty"`
	Successors   []string          `json:"successors,omitempty"`
	Instructions []json.RawMessage `json:"instructions,omitempty"`
}

// HasAttribute reports whether the block carries the named attribute.
func (b Block) HasAttribute(name string) bool {
	for _, a := range b.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// BlockSet is one of a Pass's two block collections (mir or lir).
type BlockSet struct {
	Blocks []Block `json:"blocks"`
}

// Pass is one optimization pass of one compiled function, as emitted by
// Ion's JSON spew. A pass carries MIR blocks, LIR blocks, or both; the layout
// engine is asked to lay out exactly one of these at a time.
type Pass struct {
	Name string    `json:"name"`
	MIR  *BlockSet `json:"mir,omitempty"`
	LIR  *BlockSet `json:"lir,omitempty"`
}

// Func is a compiled function: a name plus the ordered list of passes Ion
// ran over it. This is the top-level shape of an iongraph input document
// when it describes a single function; a dump of a whole script is a
// []Func.
type Func struct {
	Name  string `json:"name"`
	Passes []Pass `json:"passes"`
}

// BlockKind selects which of a Pass's two block sets to lay out.
type BlockKind string

const (
	KindMIR BlockKind = "mir"
	KindLIR BlockKind = "lir"
)

// Blocks returns the requested block set's blocks, or an error if the pass
// does not carry that block set.
func (p Pass) Blocks(kind BlockKind) ([]Block, error) {
	var set *BlockSet
	switch kind {
	case KindMIR:
		set = p.MIR
	case KindLIR:
		set = p.LIR
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown block kind %q", kind)
	}
	if set == nil {
		return nil, errors.New(errors.ErrCodeInvalidIR, "pass %q has no %s blocks", p.Name, kind)
	}
	return set.Blocks, nil
}

// Decode parses a single Pass from JSON bytes.
func Decode(data []byte) (Pass, error) {
	var p Pass
	if err := json.Unmarshal(data, &p); err != nil {
		return Pass{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode pass")
	}
	if err := validateShape(p); err != nil {
		return Pass{}, err
	}
	return p, nil
}

// DecodeFunc parses a Func (name plus a list of passes) from JSON bytes.
func DecodeFunc(data []byte) (Func, error) {
	var f Func
	if err := json.Unmarshal(data, &f); err != nil {
		return Func{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode function")
	}
	for _, p := range f.Passes {
		if err := validateShape(p); err != nil {
			return Func{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "function %s", f.Name)
		}
	}
	return f, nil
}

// validateShape checks the document is well-formed enough to build a graph
// from: every block has an id, and no id is duplicated within a block set.
// It does not check CFG invariants (predecessor/successor consistency,
// backedge counts) — those belong to pkg/cfg.
func validateShape(p Pass) error {
	if p.MIR == nil && p.LIR == nil {
		return errors.New(errors.ErrCodeInvalidIR, "pass %q has neither mir nor lir blocks", p.Name)
	}
	for _, set := range []*BlockSet{p.MIR, p.LIR} {
		if set == nil {
			continue
		}
		seen := make(map[string]bool, len(set.Blocks))
		for _, b := range set.Blocks {
			if b.ID == "" {
				return errors.New(errors.ErrCodeInvalidIR, "pass %q: block with empty id", p.Name)
			}
			if seen[b.ID] {
				return errors.New(errors.ErrCodeInvalidIR, "pass %q: duplicate block id %q", p.Name, b.ID)
			}
			seen[b.ID] = true
		}
	}
	return nil
}
