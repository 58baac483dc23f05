package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeEmbedding     = "EMBEDDING_ERROR"
	ErrCodeGeneration    = "GENERATION_ERROR"
	ErrCodeStore         = "STORE_ERROR"
	ErrCodeUpstreamFetch = "UPSTREAM_FETCH_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyContent       = NewDomainError(ErrCodeValidation, "content is empty")
	ErrEmptyTicketContent = NewDomainError(ErrCodeValidation, "ticket content is empty")
	ErrInvalidSourceType  = NewDomainError(ErrCodeValidation, "invalid source type")
)

// Not found errors
var (
	ErrRecordNotFound = NewDomainError(ErrCodeNotFound, "knowledge record not found")
)

// NewEmbeddingError wraps an upstream embedding-provider failure
func NewEmbeddingError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbedding, "embedding provider failed", err)
}

// NewGenerationError wraps an upstream language-model failure
func NewGenerationError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGeneration, "generation provider failed", err)
}

// NewStoreError wraps a vector-store read/write failure
func NewStoreError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeStore, "vector store operation failed", err)
}

// NewUpstreamFetchError wraps a ticketing-API failure
func NewUpstreamFetchError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUpstreamFetch, message, err)
}

// ErrorCode extracts the domain error code from an error, or INTERNAL_ERROR
// when the error is not a DomainError.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ErrCodeInternalError
}
