package service

import (
	"context"
	"errors"
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/ledger")

// Alert texts shown to the user.
const (
	MsgLoadTransactionsFailed = "Erro ao carregar transações"
	MsgAddTransactionFailed   = "Erro ao adicionar transação"
	MsgSummaryFailed          = "Erro ao atualizar resumo"
)

// Render regions, also used as metric labels.
const (
	regionTransactions = "transactions"
	regionSummary      = "summary"
	regionSubmit       = "submit"
)

// Ledger is the transaction client behind one ledger page: it loads and
// renders the transaction table and summary, and submits new entries.
type Ledger struct {
	store     port.TransactionStore
	summaries port.SummaryFetcher
	view      port.View
	formatter format.Formatter
	metrics   *observability.Metrics
	logger    *zap.Logger

	listSeq    sequencer
	summarySeq sequencer
}

// NewLedger creates the ledger client with all dependencies injected.
func NewLedger(
	store port.TransactionStore,
	summaries port.SummaryFetcher,
	view port.View,
	formatter format.Formatter,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Ledger {
	return &Ledger{
		store:     store,
		summaries: summaries,
		view:      view,
		formatter: formatter,
		metrics:   metrics,
		logger:    logger,
	}
}

// Initialize loads the transaction list and the summary concurrently and
// renders each one as it succeeds. A failed region raises its alert and keeps
// whatever it was showing before. The returned error joins both failures.
func (l *Ledger) Initialize(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Ledger.Initialize")
	defer span.End()

	var g errgroup.Group
	var listErr, summaryErr error

	g.Go(func() error {
		listErr = l.loadTransactions(ctx)
		return nil
	})
	g.Go(func() error {
		summaryErr = l.updateSummary(ctx)
		return nil
	})
	g.Wait()

	return errors.Join(listErr, summaryErr)
}

// Refresh re-fetches the list and the summary after a mutation.
func (l *Ledger) Refresh(ctx context.Context) error {
	return l.Initialize(ctx)
}

// Submit posts the form as a new transaction. On success the list and summary
// are refreshed and the form is reset; on any failure an alert is raised and
// the form is left as typed. A non-nil error always means the transaction was
// not created; refresh failures after a create only raise their alerts.
func (l *Ledger) Submit(ctx context.Context, form domain.EntryForm) error {
	ctx, span := tracer.Start(ctx, "Ledger.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.type", form.Type))

	tx := domain.NewTransactionFromForm(form)

	start := time.Now()
	err := l.store.CreateTransaction(ctx, tx)
	l.metrics.RecordRequestDuration("create", time.Since(start))

	if err != nil {
		var rejected *domain.ErrRejected
		if errors.As(err, &rejected) {
			l.logger.Warn("transaction rejected by server",
				zap.String("type", form.Type),
				zap.String("error", rejected.Message),
			)
			l.metrics.IncrSubmit("rejected")
			l.alert(regionSubmit, MsgAddTransactionFailed+": "+rejected.Message)
			return err
		}

		l.logger.Error("failed to create transaction", zap.Error(err))
		l.metrics.IncrSubmit("error")
		l.metrics.IncrExternalError("create")
		l.alert(regionSubmit, MsgAddTransactionFailed)
		return err
	}

	l.metrics.IncrSubmit("ok")
	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn("refresh after create failed", zap.Error(err))
	}
	l.view.ResetForm()
	return nil
}

// RenderTransactions sorts the list most recent first and rebuilds the table.
func (l *Ledger) RenderTransactions(txs []domain.Transaction) {
	l.view.ShowTransactions(l.rows(txs))
}

// RenderSummary formats each total on its own and replaces the three regions.
func (l *Ledger) RenderSummary(s *domain.Summary) {
	l.view.ShowSummary(l.summaryDisplay(s))
}

func (l *Ledger) loadTransactions(ctx context.Context) error {
	seq := l.listSeq.next()

	start := time.Now()
	txs, err := l.store.ListTransactions(ctx)
	l.metrics.RecordRequestDuration("list", time.Since(start))

	if err != nil {
		l.logger.Error("failed to fetch transactions", zap.Error(err))
		l.metrics.IncrExternalError("transactions")
		l.alert(regionTransactions, MsgLoadTransactionsFailed)
		return err
	}

	rows := l.rows(txs)
	if !l.listSeq.apply(seq, func() { l.view.ShowTransactions(rows) }) {
		l.logger.Debug("discarding stale transactions response", zap.Uint64("seq", seq))
		l.metrics.IncrStaleDiscarded(regionTransactions)
	}
	return nil
}

func (l *Ledger) updateSummary(ctx context.Context) error {
	seq := l.summarySeq.next()

	start := time.Now()
	s, err := l.summaries.GetSummary(ctx)
	l.metrics.RecordRequestDuration("summary", time.Since(start))

	if err != nil {
		l.logger.Error("failed to fetch summary", zap.Error(err))
		l.metrics.IncrExternalError("summary")
		l.alert(regionSummary, MsgSummaryFailed)
		return err
	}

	display := l.summaryDisplay(s)
	if !l.summarySeq.apply(seq, func() { l.view.ShowSummary(display) }) {
		l.logger.Debug("discarding stale summary response", zap.Uint64("seq", seq))
		l.metrics.IncrStaleDiscarded(regionSummary)
	}
	return nil
}

func (l *Ledger) rows(txs []domain.Transaction) []domain.TransactionRow {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	domain.SortByDateDesc(sorted)

	rows := make([]domain.TransactionRow, 0, len(sorted))
	for _, tx := range sorted {
		rows = append(rows, domain.TransactionRow{
			Date:        l.formatter.Date(tx.Date),
			Description: tx.Description,
			TypeLabel:   l.formatter.TypeLabel(tx.Type),
			Value:       l.formatter.Currency(tx.Value),
			Class:       "transaction-" + string(tx.Type),
		})
	}
	return rows
}

func (l *Ledger) summaryDisplay(s *domain.Summary) domain.SummaryDisplay {
	return domain.SummaryDisplay{
		Income:  l.formatter.Currency(s.TotalIncome),
		Expense: l.formatter.Currency(s.TotalExpense),
		Balance: l.formatter.Currency(s.Balance),
	}
}

func (l *Ledger) alert(region, msg string) {
	l.metrics.IncrAlert(region)
	l.view.Alert(msg)
}
