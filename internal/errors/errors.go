package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound           = New(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists      = New(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation         = New(ErrCodeValidation, "validation error")
	ErrUnknownBlockType   = New(ErrCodeUnknownBlockType, "unknown block type")
	ErrUnsupportedDocType = New(ErrCodeUnsupportedDocType, "unsupported document type")
	ErrInvalidOperation   = New(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied   = New(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient         = New(ErrCodeHTTPClient, "http client error")
	ErrConfiguration      = New(ErrCodeConfiguration, "configuration error")
	ErrPersistedDataDrift = New(ErrCodePersistedDataDrift, "persisted data drift")
	ErrStorage            = New(ErrCodeStorage, "storage error")
	ErrSystem             = New(ErrCodeSystemError, "system error")
	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:         http.StatusBadGateway,
		ErrStorage:            http.StatusInternalServerError,
		ErrNotFound:           http.StatusNotFound,
		ErrAlreadyExists:      http.StatusConflict,
		ErrValidation:         http.StatusBadRequest,
		ErrUnknownBlockType:   http.StatusBadRequest,
		ErrUnsupportedDocType: http.StatusBadRequest,
		ErrInvalidOperation:   http.StatusBadRequest,
		ErrPermissionDenied:   http.StatusForbidden,
		ErrConfiguration:      http.StatusInternalServerError,
		ErrPersistedDataDrift: http.StatusInternalServerError,
		ErrSystem:             http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient         = "http_client_error"
	ErrCodeSystemError        = "system_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeValidation         = "validation_error"
	ErrCodeUnknownBlockType   = "unknown_block_type"
	ErrCodeUnsupportedDocType = "unsupported_doc_type"
	ErrCodeInvalidOperation   = "invalid_operation"
	ErrCodePermissionDenied   = "permission_denied"
	ErrCodeConfiguration      = "configuration_error"
	ErrCodePersistedDataDrift = "persisted_data_drift"
	ErrCodeStorage            = "storage_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnknownBlockType checks if an error is an unknown block type error
func IsUnknownBlockType(err error) bool {
	return errors.Is(err, ErrUnknownBlockType)
}

// IsUnsupportedDocType checks if an error is an unsupported document type error
func IsUnsupportedDocType(err error) bool {
	return errors.Is(err, ErrUnsupportedDocType)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsPersistedDataDrift checks if an error marks a stored record that no longer matches the schema
func IsPersistedDataDrift(err error) bool {
	return errors.Is(err, ErrPersistedDataDrift)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
