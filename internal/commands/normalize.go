package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boddenberg/financeiro-bfa-go/internal/format"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <value>",
		Short: "Print a currency input the way the entry form rewrites it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := format.NormalizeCurrencyInput(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
