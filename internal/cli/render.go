package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diaflow/diaflow/pkg/render"
)

// newRenderCmd creates the render command: write a DOT or SVG preview of a
// diagram. The output format follows the output file extension unless
// --format overrides it.
func newRenderCmd() *cobra.Command {
	var fromFormat, outFormat, output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a diagram preview as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			d, warnings, _, err := readDiagram(args[0], fromFormat)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				printWarning("%s", w)
			}

			format := outFormat
			if format == "" {
				format = "svg"
				if strings.HasSuffix(output, ".dot") {
					format = "dot"
				}
			}
			if output == "" {
				output = "-"
			}

			dot := render.ToDOT(d, render.Options{Detailed: detailed})
			switch format {
			case "dot":
				if err := writeOutput(output, dot); err != nil {
					return err
				}
			case "svg":
				svg, err := render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				if err := writeOutput(output, string(svg)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}

			if output != "-" {
				printSuccess("wrote %s", output)
			}
			prog.done("Rendered diagram")
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFormat, "from", "", "input format: native, light, flow")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: svg (default), dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include kind and data summaries in node labels")
	return cmd
}
