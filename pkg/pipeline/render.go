package pipeline

import (
	"fmt"

	"github.com/iongraph/iongraph/pkg/layout"
	"github.com/iongraph/iongraph/pkg/render"
	renderdot "github.com/iongraph/iongraph/pkg/render/dot"
	rendersvg "github.com/iongraph/iongraph/pkg/render/svg"
)

// Render generates output artifacts in the requested formats from a
// computed Document.
func Render(doc *layout.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderOne(doc, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(doc *layout.Document, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return renderSVG(doc, opts), nil
	case FormatDOT:
		dot := renderdot.ToDOT(doc, renderdot.Options{Detailed: opts.Labels})
		return []byte(dot), nil
	case FormatJSON:
		return layout.Marshal(doc)
	case FormatPNG:
		return render.ToPNG(renderSVG(doc, opts), 1.0)
	case FormatPDF:
		return render.ToPDF(renderSVG(doc, opts))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func renderSVG(doc *layout.Document, opts Options) []byte {
	var svgOpts []rendersvg.Option
	svgOpts = append(svgOpts, rendersvg.WithParams(opts.Params))
	if opts.Labels {
		svgOpts = append(svgOpts, rendersvg.WithLabels())
	}
	return rendersvg.Render(doc, svgOpts...)
}
