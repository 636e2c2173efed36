package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tradecheck/pkg/tradecheck"
)

const modulePath = "github.com/mesh-intelligence/tradecheck"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tradecheck version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tradecheck v%s\nmodule: %s\n", tradecheck.Version, modulePath)
			return nil
		},
	}
}
