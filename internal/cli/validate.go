package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dferr "github.com/diaflow/diaflow/pkg/errors"
)

// newValidateCmd creates the validate command: structural validation of a
// diagram file. Conversion warnings are reported but only validation errors
// make the command fail.
func newValidateCmd() *cobra.Command {
	var fromFormat string

	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Check the structural invariants of a diagram",
		Long: `Validate checks node ID uniqueness, handle ownership, arrow endpoint
resolution, connection direction and data-type rules, and person/api-key
references. Recoverable parse warnings are printed; invariant violations
fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, warnings, src, err := readDiagram(args[0], fromFormat)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				printWarning("%s", w)
			}

			errs := d.Validate()
			if len(errs) == 0 {
				printSuccess("%s is a valid %s diagram (%d nodes, %d arrows)",
					args[0], src.Name(), len(d.Nodes), len(d.Arrows))
				return nil
			}
			for _, e := range errs {
				printError("%s: %s", dferr.GetCode(e), dferr.UserMessage(e))
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		},
	}

	cmd.Flags().StringVar(&fromFormat, "from", "", "input format: native, light, flow")
	return cmd
}
