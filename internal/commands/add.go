package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
)

func newAddCommand(a *app) *cobra.Command {
	var form domain.EntryForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction and print the refreshed ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Date == "" {
				form.Date = time.Now().Format("2006-01-02")
			}
			if v, changed := format.NormalizeCurrencyInput(form.Value); changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "valor: %s\n", v)
				form.Value = v
			}

			ledger, term, err := a.terminalLedger(cmd)
			if err != nil {
				return err
			}
			if err := ledger.Submit(cmd.Context(), form); err != nil || term.Alerted() {
				return errAlerted
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Type, "type", string(domain.TypeExpense), "receita or despesa")
	cmd.Flags().StringVar(&form.Description, "description", "", "description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&form.Value, "value", "", "amount, e.g. 150.5 (required)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().StringVar(&form.Date, "date", "", "date as YYYY-MM-DD (default today)")

	return cmd
}
