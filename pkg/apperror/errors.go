// Package apperror provides coded application errors with severity levels
// and details, their mapping onto gRPC status codes, and process exit codes
// derived from them.
package apperror

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Validation
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeInvalidGraph  ErrorCode = "INVALID_GRAPH"
	CodeInvalidVertex ErrorCode = "INVALID_VERTEX"
	CodeInvalidDemand ErrorCode = "INVALID_DEMAND"
	CodeNegativeCost  ErrorCode = "NEGATIVE_COST"
	CodeNilInput      ErrorCode = "NIL_INPUT"

	// Algorithms
	CodeAlgorithmError ErrorCode = "ALGORITHM_ERROR"
	CodeNegativeCycle  ErrorCode = "NEGATIVE_CYCLE"
	CodeInfeasible     ErrorCode = "INFEASIBLE"
	CodeTimeout        ErrorCode = "TIMEOUT"
	CodeCancelled      ErrorCode = "CANCELLED"

	// Flow-related
	CodeCapacityOverflow      ErrorCode = "CAPACITY_OVERFLOW"
	CodeConservationViolation ErrorCode = "CONSERVATION_VIOLATION"

	// Infrastructure
	CodeDatabase ErrorCode = "DATABASE_ERROR"
	CodeCache    ErrorCode = "CACHE_ERROR"
	CodeReport   ErrorCode = "REPORT_ERROR"
	CodeConfig   ErrorCode = "CONFIG_ERROR"

	// General
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnimplemented ErrorCode = "UNIMPLEMENTED"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical marks a broken internal invariant. It is never an
	// expected outcome of valid input.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is an application error carrying a code, a message, an optional
// input field, structured details, an underlying cause and a severity.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field: %s)", msg, e.Field)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code, so errors.Is
// matches predefined errors by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// GRPCStatus converts the application error into a gRPC status.Status.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.grpcCode(), e.Message)
}

// grpcCode maps an ErrorCode to an appropriate gRPC codes.Code.
func (e *Error) grpcCode() codes.Code {
	switch e.Code {
	case CodeInvalidInput, CodeInvalidGraph, CodeInvalidVertex, CodeInvalidDemand,
		CodeNegativeCost, CodeNilInput, CodeConfig:
		return codes.InvalidArgument

	case CodeNegativeCycle:
		return codes.FailedPrecondition

	case CodeNotFound:
		return codes.NotFound

	case CodeTimeout:
		return codes.DeadlineExceeded

	case CodeCancelled:
		return codes.Canceled

	case CodeInfeasible:
		return codes.Aborted

	case CodeCapacityOverflow, CodeConservationViolation:
		return codes.DataLoss

	case CodeDatabase, CodeCache:
		return codes.Unavailable

	case CodeUnimplemented:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}

// New creates a new application error with SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithField creates a new application error bound to an input field.
func NewWithField(code ErrorCode, message, field string) *Error {
	err := New(code, message)
	err.Field = field
	return err
}

// NewWarning creates a new application error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return New(code, message).WithSeverity(SeverityWarning)
}

// NewCritical creates a new application error with SeverityCritical.
func NewCritical(code ErrorCode, message string) *Error {
	return New(code, message).WithSeverity(SeverityCritical)
}

// Wrap creates a new application error that wraps cause.
func Wrap(cause error, code ErrorCode, message string) *Error {
	err := New(code, message)
	err.Cause = cause
	return err
}

// WithDetails adds a key-value pair to the error's details map.
func (e *Error) WithDetails(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField sets the field associated with the error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is checks if err is an application error with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from an error. Foreign errors yield CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GRPCCode returns the gRPC code of any error.
func GRPCCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.grpcCode()
	}

	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}

// IsWarning checks if err is an application error with SeverityWarning.
func IsWarning(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityWarning
	}
	return false
}

// IsCritical checks if err is an application error with SeverityCritical.
func IsCritical(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityCritical
	}
	return false
}

// Predefined errors for common scenarios. Compare with errors.Is; never
// mutate them.
var (
	ErrNilProblem    = New(CodeNilInput, "problem is nil")
	ErrNilGraph      = New(CodeNilInput, "graph is nil")
	ErrNegativeCycle = New(CodeNegativeCycle, "graph contains a negative cost cycle reachable from the source")
	ErrTimeout       = New(CodeTimeout, "operation timed out")
	ErrCancelled     = New(CodeCancelled, "operation cancelled")
	ErrNotFound      = New(CodeNotFound, "record not found")
)

// FromContext maps a context error onto CodeTimeout or CodeCancelled.
func FromContext(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, "operation timed out")
	}
	return Wrap(err, CodeCancelled, "operation cancelled")
}
