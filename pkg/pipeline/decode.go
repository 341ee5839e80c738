package pipeline

import (
	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/ir"
	"github.com/iongraph/iongraph/pkg/layout"
)

// Decode parses the pass JSON in opts.Input and builds the Graph for the
// requested block set, running each block's size through opts.Sizer.
func Decode(opts Options) (*cfg.Graph, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	pass, err := ir.Decode(opts.Input)
	if err != nil {
		return nil, err
	}

	return layout.FromPass(pass, opts.Kind, opts.Sizer)
}
