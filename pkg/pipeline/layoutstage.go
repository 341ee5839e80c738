package pipeline

import (
	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/layout"
)

// GenerateLayout runs the layout engine over a decoded Graph, mutating it in
// place and returning the resulting Document.
func GenerateLayout(g *cfg.Graph, opts Options) (*layout.Document, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return layout.Compute(g, opts.Params)
}
