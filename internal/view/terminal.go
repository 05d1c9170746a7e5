package view

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
)

// Terminal renders the ledger as plain text: the table and summary on out,
// alerts on errOut.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	alerted bool
}

// NewTerminal creates a terminal view.
func NewTerminal(out, errOut io.Writer) *Terminal {
	return &Terminal{out: out, errOut: errOut}
}

func (t *Terminal) ShowTransactions(rows []domain.TransactionRow) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATA\tDESCRIÇÃO\tTIPO\tVALOR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Date, r.Description, r.TypeLabel, r.Value)
	}
	tw.Flush()
}

func (t *Terminal) ShowSummary(s domain.SummaryDisplay) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Receitas\t%s\n", s.Income)
	fmt.Fprintf(tw, "Despesas\t%s\n", s.Expense)
	fmt.Fprintf(tw, "Saldo\t%s\n", s.Balance)
	tw.Flush()
}

// ResetForm has nothing to clear in a one-shot command.
func (t *Terminal) ResetForm() {}

func (t *Terminal) Alert(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alerted = true
	fmt.Fprintln(t.errOut, msg)
}

// Alerted reports whether any alert was shown.
func (t *Terminal) Alerted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alerted
}
