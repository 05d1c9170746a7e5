package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"
	"github.com/boddenberg/financeiro-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("client")

const maxBodyBytes = 1 << 20

// Service names used in errors, spans and metrics.
const (
	ServiceTransactions = "transactions"
	ServiceCreate       = "create"
	ServiceSummary      = "summary"
)

// LedgerClient talks to the ledger REST API: the transaction store and the summary endpoint.
type LedgerClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
}

// NewLedgerClient creates a new LedgerClient.
func NewLedgerClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, bulkhead *resilience.Bulkhead) *LedgerClient {
	return &LedgerClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		bulkhead:   bulkhead,
	}
}

// ListTransactions fetches every transaction: GET /api/transactions.
func (c *LedgerClient) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListTransactions", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var transactions []domain.Transaction
	if err := c.getJSON(ctx, ServiceTransactions, "/api/transactions", &transactions); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("transactions.count", len(transactions)))
	return transactions, nil
}

// GetSummary fetches the aggregate totals: GET /api/summary.
func (c *LedgerClient) GetSummary(ctx context.Context) (*domain.Summary, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.GetSummary", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var summary domain.Summary
	if err := c.getJSON(ctx, ServiceSummary, "/api/summary", &summary); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &summary, nil
}

// createResponse is whatever the server answers to a create. Only a truthy
// "error" field matters; the status code is not consulted.
type createResponse struct {
	Error any `json:"error"`
}

// CreateTransaction posts a new transaction: POST /api/transactions.
// A server-reported error comes back as *domain.ErrRejected and does not count
// as a failure for the circuit breaker.
func (c *LedgerClient) CreateTransaction(ctx context.Context, tx *domain.NewTransaction) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.CreateTransaction", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("transaction.type", string(tx.Type)))

	body, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}

	result, err := c.execute(ctx, ServiceCreate, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transactions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var out createResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
			return nil, &domain.ErrMalformedResponse{Service: ServiceCreate, Err: err}
		}
		return &out, nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if msg, rejected := errorMessage(result.(*createResponse).Error); rejected {
		span.SetAttributes(attribute.Bool("transaction.rejected", true))
		return &domain.ErrRejected{Message: msg}
	}
	return nil
}

func (c *LedgerClient) getJSON(ctx context.Context, service, path string, out any) error {
	_, err := c.execute(ctx, service, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s API returned status %d", service, resp.StatusCode)
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
			return nil, &domain.ErrMalformedResponse{Service: service, Err: err}
		}
		return nil, nil
	})
	return err
}

// execute runs fn inside the bulkhead and the circuit breaker and maps the
// outcome onto the domain error types.
func (c *LedgerClient) execute(ctx context.Context, service string, fn func() (any, error)) (any, error) {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: service, Err: err}
	}
	defer c.bulkhead.Release()

	result, err := c.cb.Execute(fn)
	if err == nil {
		return result, nil
	}

	var malformed *domain.ErrMalformedResponse
	switch {
	case resilience.IsOpen(err):
		return nil, &domain.ErrCircuitOpen{Service: service}
	case errors.As(err, &malformed):
		return nil, malformed
	default:
		return nil, &domain.ErrExternalService{Service: service, Err: err}
	}
}

// errorMessage applies JavaScript truthiness to the "error" field.
func errorMessage(v any) (string, bool) {
	switch e := v.(type) {
	case nil:
		return "", false
	case string:
		return e, e != ""
	case bool:
		return "true", e
	case float64:
		return fmt.Sprint(e), e != 0
	default:
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Sprint(e), true
		}
		return string(b), true
	}
}
