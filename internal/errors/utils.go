package errors

import (
	"errors"
	"net/http"
)

// Wrap wraps an error with additional context, creating a DocsError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *DocsError {
	if err == nil {
		return nil
	}

	// If it's already a DocsError, preserve its page and route
	var de *DocsError
	if errors.As(err, &de) {
		return &DocsError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       de,
			Context:     de.Context,
			Page:        de.Page,
			Route:       de.Route,
			Recoverable: de.Recoverable,
		}
	}

	return &DocsError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender || errType == ErrorTypeHighlight,
	}
}

// WrapRender wraps an error as a render error with page context
func WrapRender(err error, code, message, page string) *DocsError {
	de := Wrap(err, ErrorTypeRender, code, message)
	if de != nil {
		de.Page = page
	}
	return de
}

// WrapHighlight wraps an error raised by the highlighting collaborator
func WrapHighlight(err error, message, page string) *DocsError {
	de := Wrap(err, ErrorTypeHighlight, CodeHighlightFailed, message)
	if de != nil {
		de.Page = page
	}
	return de
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, message string) *DocsError {
	de := Wrap(err, ErrorTypeConfig, CodeInvalidConfig, message)
	if de != nil {
		de.Recoverable = false
	}
	return de
}

// HTTPStatus maps an error to the HTTP status the server answers with.
func HTTPStatus(err error) int {
	var de *DocsError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch {
	case de.Code == CodePageNotFound:
		return http.StatusNotFound
	case de.Type == ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
