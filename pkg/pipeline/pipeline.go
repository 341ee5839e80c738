// Package pipeline provides the core decode → layout → render pipeline for
// iongraph.
//
// This package implements the complete pipeline that can be used by the CLI
// and the HTTP API alike. By centralizing this logic we ensure consistent
// behavior across both entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: parse a SpiderMonkey Ion pass from its JSON IR.
//  2. Layout: run the pass's chosen block set through the layout engine.
//  3. Render: generate output artifacts (SVG, DOT, JSON) from the layout.
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   passJSON,
//	    Kind:    ir.KindMIR,
//	    Formats: []string{pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iongraph/iongraph/pkg/cache"
	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/ir"
	"github.com/iongraph/iongraph/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// DefaultKind is the block set laid out when Options.Kind is unset.
const DefaultKind = ir.KindMIR

// Options contains all configuration for the decode → layout → render
// pipeline. This struct supports JSON serialization for API requests.
type Options struct {
	// Decode options
	Input   []byte      `json:"-"` // raw pass JSON; never serialized back out
	Kind    ir.BlockKind `json:"kind,omitempty"`
	Refresh bool        `json:"refresh,omitempty"`

	// Layout options
	Params transform.Params `json:"params,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Sizer  layout.SizeFunc `json:"-"`

	// TraceID correlates one pipeline run's logs and observability hook
	// calls. It is never used as a node or block id (those must stay
	// stable across runs); generated with uuid if the caller leaves it
	// empty.
	TraceID string `json:"traceId,omitempty"`

	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the decoded, laid-out block graph.
	Graph *cfg.Graph

	// GraphHash is the content hash of the decoded pass input.
	GraphHash string

	// TraceID correlates this result's logs and hook calls back to the
	// Options that produced it.
	TraceID string

	// Layout is the computed layout document.
	Layout *layout.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LayerCount int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for the decode stage.
func (o *Options) ValidateForParse() error {
	if len(o.Input) == 0 {
		return fmt.Errorf("input is required")
	}
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.TraceID == "" {
		o.TraceID = uuid.NewString()
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	var zero transform.Params
	if o.Params == zero {
		o.Params = transform.DefaultParams()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	data, _ := json.Marshal(o.Params)
	return cache.LayoutKeyOpts{ParamsHash: cache.Hash(data)}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := "plain"
	if o.Labels {
		style = "labels"
	}
	return cache.ArtifactKeyOpts{Format: format, Style: style}
}
