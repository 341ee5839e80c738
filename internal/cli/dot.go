package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iongraph/iongraph/pkg/cfg/transform"
	"github.com/iongraph/iongraph/pkg/ir"
	"github.com/iongraph/iongraph/pkg/layout"
	renderdot "github.com/iongraph/iongraph/pkg/render/dot"
)

// dotCommand creates the debug command that dumps a computed layout as
// Graphviz DOT and optionally rasterizes it to SVG, for cross-checking the
// layout engine's edge classification against an independent renderer.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		kind     string
		detailed bool
		svg      bool
	)

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Dump a computed layout as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			pass, err := ir.Decode(data)
			if err != nil {
				return fmt.Errorf("decode pass: %w", err)
			}
			g, err := layout.FromPass(pass, ir.BlockKind(kind), nil)
			if err != nil {
				return err
			}
			doc, err := layout.Compute(g, transform.DefaultParams())
			if err != nil {
				return err
			}

			dot := renderdot.ToDOT(doc, renderdot.Options{Detailed: detailed})

			var out []byte
			if svg {
				out, err = renderdot.RenderSVG(dot)
				if err != nil {
					return fmt.Errorf("render dot svg: %w", err)
				}
			} else {
				out = []byte(dot)
			}

			if output == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&kind, "kind", "mir", "block set to lay out: mir or lir")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include layer and position in node labels")
	cmd.Flags().BoolVar(&svg, "svg", false, "rasterize the DOT graph to SVG via Graphviz instead of printing DOT source")

	return cmd
}
