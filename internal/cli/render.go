package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/config"
	"github.com/iongraph/iongraph/pkg/ir"
	"github.com/iongraph/iongraph/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output   string // output file (or base path for multiple formats)
	kind     string // "mir" or "lir"
	formats  string // comma-separated output formats
	labels   bool   // draw instruction/opcode labels on nodes
	refresh  bool   // bypass the layout/artifact cache
	noCache  bool   // disable caching entirely
	blockGap float64
}

// renderCommand creates the render command for decoding a pass, laying it
// out, and rendering the requested output formats.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Decode a pass and render its control-flow graph layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&flags.kind, "kind", string(pipeline.DefaultKind), "block set to lay out: mir or lir")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), dot, json, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&flags.labels, "labels", false, "draw instruction opcodes on nodes")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass cached layout/artifacts and recompute")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the on-disk cache entirely")
	cmd.Flags().Float64Var(&flags.blockGap, "block-gap", 0, "override the minimum horizontal gap between neighbouring nodes on a layer (0 keeps config/default)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, flags *renderFlags) error {
	logger := c.Logger
	logger.Infof("Rendering %s", input)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	params := cfg.ApplyLayout(transform.DefaultParams())
	if flags.blockGap != 0 {
		params.BlockGap = flags.blockGap
	}

	opts := pipeline.Options{
		Input:   data,
		Kind:    ir.BlockKind(flags.kind),
		Refresh: flags.refresh,
		Params:  params,
		Formats: parseFormats(flags.formats),
		Labels:  flags.labels,
		Logger:  logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		return err
	}

	logger.Infof("Laid out %d blocks across %d layers", result.Stats.NodeCount, result.Stats.LayerCount)
	printStats(result.Stats.NodeCount, 0, result.CacheInfo.LayoutHit)

	return writeArtifacts(result.Artifacts, flags.output, input)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// writeArtifacts writes each rendered artifact to disk. A single artifact
// goes to output as given, or to the input's path with its extension
// replaced by the format when output is empty. Several artifacts go to
// output's (or, when it is empty, input's) path with its extension
// stripped, plus each format's own extension.
func writeArtifacts(artifacts map[string][]byte, output, input string) error {
	if len(artifacts) == 1 {
		for format, data := range artifacts {
			path := output
			if path == "" {
				path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
			}
			if err := writeFile(path, data); err != nil {
				return err
			}
			printFile(path)
		}
		return nil
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, format := range []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatJSON, pipeline.FormatPNG, pipeline.FormatPDF} {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeFile(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
