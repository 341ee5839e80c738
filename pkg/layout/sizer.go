package layout

import (
	"encoding/json"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/ir"
)

// Constants approximating a monospace rendering of a block's instruction
// text, used by defaultSizer when the caller supplies no SizeFunc.
const (
	charWidth  = 7.2
	lineHeight = 16.0
	minWidth   = 90.0
	minHeight  = lineHeight + 8 // header line only, no instructions
	titleChars = 14             // "block42" plus loop/backedge markers
)

// defaultSizer measures each block by the widest of its instruction lines
// and the number of instructions, mirroring how a text-based renderer would
// size the box after laying out the block's disassembly. It exists so
// FromPass always produces a usable Graph even when the caller has no
// interest in supplying a real text-measuring collaborator (the dot debug
// command, tests).
func defaultSizer(blocks []ir.Block) SizeFunc {
	byID := make(map[string]ir.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	return func(b *cfg.Block) cfg.Size {
		src, ok := byID[b.ID]
		if !ok {
			return cfg.Size{Width: minWidth, Height: minHeight}
		}

		maxChars := titleChars
		for _, instr := range src.Instructions {
			if n := instructionChars(instr); n > maxChars {
				maxChars = n
			}
		}

		width := float64(maxChars) * charWidth
		if width < minWidth {
			width = minWidth
		}

		height := lineHeight + float64(len(src.Instructions))*lineHeight
		if height < minHeight {
			height = minHeight
		}

		return cfg.Size{Width: width, Height: height}
	}
}

// instructionChars estimates the rendered width of one instruction by
// measuring its JSON representation's printable length. The instruction
// schema beyond decode is opcode-specific and out of scope for pkg/ir
// (see its package doc), so this deliberately doesn't unmarshal into a
// typed instruction - it just needs a stable proxy for line length.
func instructionChars(raw json.RawMessage) int {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return len(s)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err == nil {
		total := 0
		for k, v := range m {
			total += len(k) + len(v) + 3
		}
		return total
	}
	return len(raw)
}
