// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
)

// TransactionStore lists and creates transactions on the ledger API.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, tx *domain.NewTransaction) error
}

// SummaryFetcher retrieves the aggregate totals.
type SummaryFetcher interface {
	GetSummary(ctx context.Context) (*domain.Summary, error)
}

// View receives everything the ledger renders. Implementations must be safe
// for concurrent use: list and summary responses arrive on different goroutines.
type View interface {
	ShowTransactions(rows []domain.TransactionRow)
	ShowSummary(s domain.SummaryDisplay)
	ResetForm()
	Alert(msg string)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	GetOrCreate(key string, create func() T) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
