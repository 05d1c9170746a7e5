package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/boddenberg/financeiro-bfa-go/internal/format"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/observability"
	"github.com/boddenberg/financeiro-bfa-go/internal/service"
	"github.com/boddenberg/financeiro-bfa-go/internal/view"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const nbsp = "\u00a0"

// --- Mocks ---

type mockStore struct {
	mu           sync.Mutex
	transactions []domain.Transaction
	listErr      error
	createErr    error
	listCalls    int
	created      []*domain.NewTransaction
}

func (m *mockStore) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.transactions, m.listErr
}

func (m *mockStore) CreateTransaction(_ context.Context, tx *domain.NewTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, tx)
	return m.createErr
}

type mockSummary struct {
	mu      sync.Mutex
	summary *domain.Summary
	err     error
	calls   int
}

func (m *mockSummary) GetSummary(_ context.Context) (*domain.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.summary, m.err
}

// gatedStore answers each ListTransactions call only when its gate is released.
type gatedStore struct {
	mockStore
	gates   []chan struct{}
	answers [][]domain.Transaction
	calls   chan int
}

func (g *gatedStore) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	g.mu.Lock()
	i := g.listCalls
	g.listCalls++
	g.mu.Unlock()

	g.calls <- i
	<-g.gates[i]
	return g.answers[i], nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newLedger(store *mockStore, summary *mockSummary, st *view.State) *service.Ledger {
	return service.NewLedger(store, summary, st, format.New(format.PtBR), observability.NewMetrics(), zap.NewNop())
}

func sampleSummary() *domain.Summary {
	return &domain.Summary{TotalIncome: dec("1500.5"), TotalExpense: dec("300.25"), Balance: dec("1200.25")}
}

// --- Tests ---

func TestInitialize_RendersListAndSummary(t *testing.T) {
	store := &mockStore{transactions: []domain.Transaction{
		{Type: domain.TypeExpense, Description: "Aluguel", Value: dec("300.25"), Date: domain.ParseDate("2024-01-02")},
		{Type: domain.TypeIncome, Description: "Salário", Value: dec("1500.5"), Date: domain.ParseDate("2024-01-05")},
	}}
	st := view.NewState(view.DefaultBreakpoint)

	err := newLedger(store, &mockSummary{summary: sampleSummary()}, st).Initialize(context.Background())
	require.NoError(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, domain.TransactionRow{
		Date:        "05/01/2024",
		Description: "Salário",
		TypeLabel:   "Receita",
		Value:       "R$" + nbsp + "1.500,50",
		Class:       "transaction-receita",
	}, snap.Rows[0])
	assert.Equal(t, "Despesa", snap.Rows[1].TypeLabel)

	require.NotNil(t, snap.Summary)
	assert.Equal(t, "R$"+nbsp+"1.500,50", snap.Summary.Income)
	assert.Equal(t, "R$"+nbsp+"300,25", snap.Summary.Expense)
	assert.Equal(t, "R$"+nbsp+"1.200,25", snap.Summary.Balance)
	assert.Empty(t, snap.Alerts)
}

func TestInitialize_ListFailureKeepsPriorTable(t *testing.T) {
	st := view.NewState(view.DefaultBreakpoint)
	st.ShowTransactions([]domain.TransactionRow{{Description: "anterior"}})

	store := &mockStore{listErr: errors.New("connection refused")}
	err := newLedger(store, &mockSummary{summary: sampleSummary()}, st).Initialize(context.Background())
	require.Error(t, err)

	snap := st.Snapshot()
	assert.Equal(t, []string{service.MsgLoadTransactionsFailed}, snap.Alerts)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "anterior", snap.Rows[0].Description)
	assert.NotNil(t, snap.Summary, "summary region renders on its own")
}

func TestInitialize_SummaryFailure(t *testing.T) {
	st := view.NewState(view.DefaultBreakpoint)

	err := newLedger(&mockStore{}, &mockSummary{err: errors.New("timeout")}, st).Initialize(context.Background())
	require.Error(t, err)

	snap := st.Snapshot()
	assert.Equal(t, []string{service.MsgSummaryFailed}, snap.Alerts)
	assert.Nil(t, snap.Summary)
}

func TestSubmit_SuccessRefreshesAndResetsForm(t *testing.T) {
	store := &mockStore{}
	summary := &mockSummary{summary: sampleSummary()}
	st := view.NewState(view.DefaultBreakpoint)

	form := domain.EntryForm{Type: "receita", Description: "Salário", Value: "1000", Date: "2024-01-05"}
	st.SetForm(form)

	err := newLedger(store, summary, st).Submit(context.Background(), form)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, domain.TypeIncome, created.Type)
	assert.Equal(t, "Salário", created.Description)
	assert.True(t, created.Value.Valid)
	assert.True(t, created.Value.Decimal.Equal(dec("1000")))
	assert.Equal(t, "2024-01-05", created.Date)

	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, summary.calls)

	snap := st.Snapshot()
	assert.Equal(t, domain.EntryForm{}, snap.Form)
	assert.Empty(t, snap.Alerts)
}

func TestSubmit_RejectedKeepsForm(t *testing.T) {
	store := &mockStore{createErr: &domain.ErrRejected{Message: "valor inválido"}}
	summary := &mockSummary{summary: sampleSummary()}
	st := view.NewState(view.DefaultBreakpoint)

	form := domain.EntryForm{Type: "despesa", Description: "Mercado", Value: "-1", Date: "2024-01-05"}
	st.SetForm(form)

	err := newLedger(store, summary, st).Submit(context.Background(), form)
	require.Error(t, err)

	snap := st.Snapshot()
	require.Len(t, snap.Alerts, 1)
	assert.Contains(t, snap.Alerts[0], "valor inválido")
	assert.Equal(t, "Erro ao adicionar transação: valor inválido", snap.Alerts[0])
	assert.Equal(t, form, snap.Form)
	assert.Zero(t, store.listCalls)
	assert.Zero(t, summary.calls)
}

func TestSubmit_NetworkFailureKeepsForm(t *testing.T) {
	store := &mockStore{createErr: &domain.ErrExternalService{Service: "create", Err: errors.New("dial tcp: refused")}}
	summary := &mockSummary{summary: sampleSummary()}
	st := view.NewState(view.DefaultBreakpoint)

	form := domain.EntryForm{Type: "despesa", Description: "Mercado", Value: "10", Date: "2024-01-05"}
	st.SetForm(form)

	err := newLedger(store, summary, st).Submit(context.Background(), form)
	require.Error(t, err)

	snap := st.Snapshot()
	assert.Equal(t, []string{service.MsgAddTransactionFailed}, snap.Alerts)
	assert.Equal(t, form, snap.Form)
	assert.Zero(t, store.listCalls)
	assert.Zero(t, summary.calls)
}

func TestRenderTransactions_IsAFullRebuild(t *testing.T) {
	st := view.NewState(view.DefaultBreakpoint)
	l := newLedger(&mockStore{}, &mockSummary{}, st)

	l.RenderTransactions([]domain.Transaction{
		{Description: "a", Date: domain.ParseDate("2024-01-01")},
		{Description: "b", Date: domain.ParseDate("2024-01-01")},
		{Description: "c", Date: domain.ParseDate("2024-02-01")},
	})
	l.RenderTransactions([]domain.Transaction{
		{Description: "x", Date: domain.ParseDate("2024-01-01")},
		{Description: "y", Date: domain.ParseDate("2024-01-01")},
	})

	snap := st.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "x", snap.Rows[0].Description)
	assert.Equal(t, "y", snap.Rows[1].Description)
}

func TestRenderSummary_NegativeBalance(t *testing.T) {
	st := view.NewState(view.DefaultBreakpoint)
	newLedger(&mockStore{}, &mockSummary{}, st).RenderSummary(&domain.Summary{
		TotalIncome: dec("100"), TotalExpense: dec("250.5"), Balance: dec("-150.5"),
	})

	snap := st.Snapshot()
	require.NotNil(t, snap.Summary)
	assert.Equal(t, "-R$"+nbsp+"150,50", snap.Summary.Balance)
}

func TestInitialize_DiscardsStaleListResponse(t *testing.T) {
	store := &gatedStore{
		gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		answers: [][]domain.Transaction{{{Description: "antiga"}}, {{Description: "nova"}}},
		calls:   make(chan int, 2),
	}
	st := view.NewState(view.DefaultBreakpoint)
	l := service.NewLedger(store, &mockSummary{summary: sampleSummary()}, st,
		format.New(format.PtBR), observability.NewMetrics(), zap.NewNop())

	first := make(chan error, 1)
	go func() { first <- l.Initialize(context.Background()) }()
	waitCall(t, store.calls, 0)

	second := make(chan error, 1)
	go func() { second <- l.Initialize(context.Background()) }()
	waitCall(t, store.calls, 1)

	// The newer request answers first, then the older one.
	close(store.gates[1])
	require.NoError(t, <-second)
	close(store.gates[0])
	require.NoError(t, <-first)

	snap := st.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "nova", snap.Rows[0].Description)
}

func waitCall(t *testing.T, calls <-chan int, want int) {
	t.Helper()
	select {
	case got := <-calls:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("list call %d never started", want)
	}
}

func TestSubmit_RefreshFailureStillResetsForm(t *testing.T) {
	store := &mockStore{listErr: errors.New("connection reset")}
	summary := &mockSummary{summary: sampleSummary()}
	st := view.NewState(view.DefaultBreakpoint)

	form := domain.EntryForm{Type: "receita", Description: "Bônus", Value: "50", Date: "2024-02-01"}
	st.SetForm(form)

	err := newLedger(store, summary, st).Submit(context.Background(), form)
	require.NoError(t, err, "the transaction was created")

	snap := st.Snapshot()
	assert.Equal(t, domain.EntryForm{}, snap.Form)
	assert.Equal(t, []string{service.MsgLoadTransactionsFailed}, snap.Alerts)
}
