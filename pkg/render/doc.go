// Package render provides format conversion shared by iongraph's output
// renderers.
//
// # Overview
//
// The core layout engine (pkg/layout) never draws anything; it produces a
// Document of positioned nodes and classified edges. This package and its
// subpackages turn that Document into pixels:
//
//   - [ToPDF] and [ToPNG] convert any SVG to other formats via the external
//     rsvg-convert tool (from librsvg).
//   - [svg] renders a Document as the reference SVG diagram.
//   - [dot] dumps a Document as Graphviz DOT, mainly for debugging the
//     layout engine itself against an independent layout.
//
//	svg := svg.Render(doc)
//	pdf, err := render.ToPDF(svg)
//
// [svg]: github.com/iongraph/iongraph/pkg/render/svg
// [dot]: github.com/iongraph/iongraph/pkg/render/dot
package render
