package domain

import "fmt"

// Error types for consistent error handling across the ledger client.

// ErrExternalService indicates a transport or status failure calling the ledger API.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrMalformedResponse indicates the ledger API answered with a body that is not the expected JSON.
type ErrMalformedResponse struct {
	Service string
	Err     error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed response [%s]: %v", e.Service, e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error {
	return e.Err
}

// ErrRejected carries the error message the server put in the response payload.
type ErrRejected struct {
	Message string
}

func (e *ErrRejected) Error() string {
	return e.Message
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}
