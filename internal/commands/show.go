package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/service"
	"github.com/boddenberg/financeiro-bfa-go/internal/view"
)

// errAlerted is returned when the ledger already reported the failure to the user.
var errAlerted = errors.New("ledger reported errors")

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the transaction table and summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, term, err := a.terminalLedger(cmd)
			if err != nil {
				return err
			}
			if err := ledger.Initialize(cmd.Context()); err != nil || term.Alerted() {
				return errAlerted
			}
			return nil
		},
	}
}

// terminalLedger builds a ledger client rendering to the command's output streams.
func (a *app) terminalLedger(cmd *cobra.Command) (*service.Ledger, *view.Terminal, error) {
	formatter, err := a.formatter()
	if err != nil {
		return nil, nil, err
	}

	logger := a.cliLogger()
	term := view.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
	api := a.ledgerClient(logger)

	return service.NewLedger(api, api, term, formatter, observability.NewMetrics(), logger), term, nil
}
