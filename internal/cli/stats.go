package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diaflow/diaflow/pkg/diagram"
)

// newStatsCmd creates the stats command: print counts for a diagram file.
func newStatsCmd() *cobra.Command {
	var fromFormat string

	cmd := &cobra.Command{
		Use:   "stats <input>",
		Short: "Print node, arrow and person counts for a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, warnings, src, err := readDiagram(args[0], fromFormat)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				printWarning("%s", w)
			}

			name := args[0]
			if d.Meta != nil && d.Meta.Name != "" {
				name = d.Meta.Name
			}
			fmt.Println(StyleTitle.Render(name) + StyleDim.Render(" ("+src.Name()+")"))
			fmt.Printf("  nodes:    %s\n", StyleNumber.Render(fmt.Sprintf("%d", len(d.Nodes))))
			for _, kind := range diagram.Kinds() {
				n := 0
				for _, node := range d.Nodes {
					if node.Kind == kind {
						n++
					}
				}
				if n > 0 {
					fmt.Printf("    %-12s %s\n", string(kind)+":", StyleValue.Render(fmt.Sprintf("%d", n)))
				}
			}
			fmt.Printf("  arrows:   %s\n", StyleNumber.Render(fmt.Sprintf("%d", len(d.Arrows))))
			fmt.Printf("  handles:  %s\n", StyleNumber.Render(fmt.Sprintf("%d", len(d.Handles))))
			fmt.Printf("  persons:  %s\n", StyleNumber.Render(fmt.Sprintf("%d", len(d.Persons))))
			fmt.Printf("  api keys: %s\n", StyleNumber.Render(fmt.Sprintf("%d", len(d.APIKeys))))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFormat, "from", "", "input format: native, light, flow")
	return cmd
}
