package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iongraph/iongraph/pkg/cfg"
	"github.com/iongraph/iongraph/pkg/ir"
)

// inspectCommand creates the command that decodes a pass and prints its
// structural shape - block counts, loop headers, backedges - without
// running layout or rendering. Useful as a quick sanity check on a pass
// dump before feeding it through render.
func (c *CLI) inspectCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print a pass's block/loop structure without laying it out",
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

			blocks, err := pass.Blocks(ir.BlockKind(kind))
			if err != nil {
				return err
			}

			g, err := cfg.NewGraph(blocks)
			if err != nil {
				return err
			}

			printKeyValue("pass", pass.Name)
			printKeyValue("kind", kind)
			printKeyValue("blocks", strconv.Itoa(len(g.Blocks)))
			printKeyValue("roots", strconv.Itoa(len(g.Roots)))

			realLoops, backedges := 0, 0
			for _, h := range g.Headers {
				if h.Synthetic {
					continue
				}
				realLoops++
				if h.Backedge() != nil {
					backedges++
				}
			}
			printKeyValue("loops", strconv.Itoa(realLoops))
			printKeyValue("backedges", strconv.Itoa(backedges))

			printNewline()
			printNextStep("render this pass", fmt.Sprintf("iongraph render %s", args[0]))

			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "mir", "block set to inspect: mir or lir")

	return cmd
}
