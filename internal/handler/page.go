package handler

import (
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/port"
	"github.com/boddenberg/financeiro-bfa-go/internal/service"
	"github.com/boddenberg/financeiro-bfa-go/internal/view"

	"go.uber.org/zap"
)

// Page is the per-session ledger page: its state and the client rendering into it.
type Page struct {
	State  *view.State
	Ledger *service.Ledger
}

// NewPageFactory returns a constructor for fresh session pages sharing the
// given API client, formatter and metrics.
func NewPageFactory(
	store port.TransactionStore,
	summaries port.SummaryFetcher,
	formatter format.Formatter,
	breakpoint int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) func() *Page {
	return func() *Page {
		st := view.NewState(breakpoint)
		return &Page{
			State:  st,
			Ledger: service.NewLedger(store, summaries, st, formatter, metrics, logger),
		}
	}
}
