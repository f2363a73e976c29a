// Package errors provides the structured error type shared by the documentation
// server. Errors carry a category, a short machine readable code and optionally the
// page and route they relate to, so the HTTP layer and the CLI can report them
// consistently.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeHighlight  ErrorType = "highlight"
	ErrorTypeRouting    ErrorType = "routing"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes used across packages.
const (
	CodeInvalidConfig      = "ERR_INVALID_CONFIG"
	CodePageNotFound       = "ERR_PAGE_NOT_FOUND"
	CodeDuplicateRoute     = "ERR_DUPLICATE_ROUTE"
	CodeInvalidRoute       = "ERR_INVALID_ROUTE"
	CodeRenderFailed       = "ERR_RENDER_FAILED"
	CodeHighlightFailed    = "ERR_HIGHLIGHT_FAILED"
	CodeSampleMissing      = "ERR_SAMPLE_MISSING"
	CodeProviderMissing    = "ERR_PROVIDER_MISSING"
	CodeCircularProvider   = "ERR_CIRCULAR_PROVIDER"
	CodeInvalidDeclaration = "ERR_INVALID_DECLARATION"
)

// DocsError is a structured error type with context.
type DocsError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Page        string
	Route       string
	Recoverable bool
}

// Error implements the error interface.
func (e *DocsError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Page != "" {
		parts = append(parts, "page:"+e.Page)
	}
	if e.Route != "" {
		parts = append(parts, "route:/"+strings.TrimPrefix(e.Route, "/"))
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DocsError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *DocsError) Is(target error) bool {
	var t *DocsError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DocsError) WithContext(key string, value interface{}) *DocsError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPage adds page context.
func (e *DocsError) WithPage(page string) *DocsError {
	e.Page = page

	return e
}

// WithRoute adds route context.
func (e *DocsError) WithRoute(route string) *DocsError {
	e.Route = route

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DocsError {
	return &DocsError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewRenderError creates a render error.
func NewRenderError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewHighlightError creates a highlighting error.
func NewHighlightError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:        ErrorTypeHighlight,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewRoutingError creates a routing error.
func NewRoutingError(code, message string) *DocsError {
	return &DocsError{
		Type:    ErrorTypeRouting,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *DocsError {
	return &DocsError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Recoverable
	}

	return false
}

// IsType reports whether err is a DocsError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Type == errType
	}

	return false
}

// HasCode reports whether err is a DocsError carrying code.
func HasCode(err error, code string) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Code == code
	}

	return false
}
