package cli

import (
	"github.com/spf13/cobra"

	"github.com/diaflow/diaflow/pkg/convert"
)

// newConvertCmd creates the convert command: read a diagram in one format,
// write it in another. Formats are inferred from file extensions unless
// overridden with --from / --to.
func newConvertCmd() *cobra.Command {
	var fromFormat, toFormat string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a diagram between formats",
		Long: `Convert a diagram between the native (.json), light (.light.yaml) and
flow (.flow.yaml) formats. Use "-" for stdin or stdout; the format is then
taken from --from/--to, the configuration default, or content sniffing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			in, out := args[0], args[1]

			d, warnings, src, err := readDiagram(in, fromFormat)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				printWarning("%s", w)
			}
			logger.Debug("parsed diagram",
				"format", src.Name(), "nodes", len(d.Nodes), "arrows", len(d.Arrows))

			outName := toFormat
			if outName == "" && out != "-" {
				if c, err := convert.ByExtension(out); err == nil {
					outName = c.Name()
				}
			}
			if outName == "" {
				outName = configFromContext(cmd.Context()).DefaultFormat
			}
			dst, err := convert.ByName(outName)
			if err != nil {
				return err
			}

			text, err := dst.Serialize(d)
			if err != nil {
				return err
			}
			if err := writeOutput(out, text); err != nil {
				return err
			}

			if out != "-" {
				printSuccess("wrote %s (%s)", out, dst.Name())
			}
			prog.done("Converted diagram")
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFormat, "from", "", "input format: native, light, flow")
	cmd.Flags().StringVar(&toFormat, "to", "", "output format: native, light, flow")
	return cmd
}
