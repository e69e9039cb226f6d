// Package errors provides unified error handling for pling channels
package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Code represents an error code for categorization
type Code string

// NotifyError represents a unified error with code, message, and context
type NotifyError struct {
	Code     Code                   `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Platform string                 `json:"platform,omitempty"`
	Context  map[string]interface{} `json:"context,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *NotifyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", e.Code)
	if e.Platform != "" {
		b.WriteString(e.Platform)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause error
func (e *NotifyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a NotifyError with the same code
func (e *NotifyError) Is(target error) bool {
	if notifyErr, ok := target.(*NotifyError); ok {
		return e.Code == notifyErr.Code
	}
	return false
}

// WithContext adds context information to the error
func (e *NotifyError) WithContext(key string, value interface{}) *NotifyError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *NotifyError) WithDetails(details string) *NotifyError {
	e.Details = details
	return e
}

// WithPlatform records which channel produced the error
func (e *NotifyError) WithPlatform(platform string) *NotifyError {
	e.Platform = platform
	return e
}

// WithCause sets the underlying cause error
func (e *NotifyError) WithCause(cause error) *NotifyError {
	e.Cause = cause
	return e
}

// New creates a new NotifyError
func New(code Code, message string) *NotifyError {
	return &NotifyError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a NotifyError
func Wrap(cause error, code Code, message string) *NotifyError {
	return &NotifyError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code Code, format string, args ...interface{}) *NotifyError {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of the outermost NotifyError in err's chain.
func CodeOf(err error) (Code, bool) {
	var notifyErr *NotifyError
	if errors.As(err, &notifyErr) {
		return notifyErr.Code, true
	}
	return "", false
}

// HasCode reports whether any NotifyError in err's chain carries code.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &NotifyError{Code: code})
}

// PlatformOf returns the channel name recorded on the outermost NotifyError.
func PlatformOf(err error) string {
	var notifyErr *NotifyError
	if errors.As(err, &notifyErr) {
		return notifyErr.Platform
	}
	return ""
}

// Aggregator collects and aggregates errors from multiple channels
type Aggregator struct {
	errors []error
	mu     sync.Mutex
}

// NewAggregator creates a new error aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add adds an error to the aggregator; nil errors are ignored
func (a *Aggregator) Add(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, err)
}

// HasErrors returns true if there are any aggregated errors
func (a *Aggregator) HasErrors() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors) > 0
}

// Count returns the number of aggregated errors
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors)
}

// Errors returns a copy of all aggregated errors
func (a *Aggregator) Errors() []error {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]error, len(a.errors))
	copy(out, a.errors)
	return out
}

// ToError returns nil, the single collected error, or a joined error listing every failure.
func (a *Aggregator) ToError() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch len(a.errors) {
	case 0:
		return nil
	case 1:
		return a.errors[0]
	}

	platforms := make([]string, 0, len(a.errors))
	for _, err := range a.errors {
		if p := PlatformOf(err); p != "" {
			platforms = append(platforms, p)
		}
	}

	return New(ErrInternalError, fmt.Sprintf("multiple errors occurred (%d failures)", len(a.errors))).
		WithContext("affected_platforms", platforms).
		WithCause(errors.Join(a.errors...))
}
