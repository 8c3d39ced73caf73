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
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeParseFailure     = "PARSE_FAILURE"
	ErrCodeTransaction      = "TRANSACTION_FAILURE"
	ErrCodeModuleLoad       = "MODULE_LOAD_FAILURE"
)

// Sentinel errors callers match on with errors.Is.
var (
	ErrLiteralURIMismatch    = NewDomainError(ErrCodeValidation, "triple object does not match is_literal flag")
	ErrTripleNotFound        = NewDomainError(ErrCodeNotFound, "triple not found")
	ErrOntologyNotFound      = NewDomainError(ErrCodeNotFound, "ontology not found")
	ErrOntologyAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "ontology already exists")
	ErrOntologyNotEditable   = NewDomainError(ErrCodeInvalidOperation, "ontology is not editable")
)
