package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is one entry of a GraphQL "errors" array.
type Error struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// AuthError means no credential was available for the request.
type AuthError struct {
	operation string
	err       error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s: %v", e.operation, e.err) }

func (e *AuthError) Unwrap() error { return e.err }

// TransportError is a non-2xx HTTP response.
type TransportError struct {
	operation  string
	statusCode int
	message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

// StatusCode returns the HTTP status code from the response.
func (e *TransportError) StatusCode() int { return e.statusCode }

// Message returns the response body, or the status text when it was empty.
func (e *TransportError) Message() string { return e.message }

// QueryError is a 2xx response whose "errors" array was not empty.
type QueryError struct {
	operation string
	errs      []Error
}

// Error reports the first server message, which is what users see.
func (e *QueryError) Error() string {
	return e.errs[0].Message
}

// Operation returns the name of the failed operation.
func (e *QueryError) Operation() string { return e.operation }

// Errors returns every error entry of the response.
func (e *QueryError) Errors() []Error { return e.errs }

// rejectsToken reports whether the server refused the credential itself.
func (e *QueryError) rejectsToken() bool {
	for _, ge := range e.errs {
		if strings.Contains(ge.Message, "JWT") {
			return true
		}
		if code, _ := ge.Extensions["code"].(string); code == "invalid-jwt" || code == "invalid-headers" {
			return true
		}
	}
	return false
}

// NewTransportError builds a TransportError, e.g. for fake executors.
func NewTransportError(operation string, statusCode int, message string) *TransportError {
	return &TransportError{operation: operation, statusCode: statusCode, message: message}
}

// NewQueryError builds a QueryError from server messages.
func NewQueryError(operation string, messages ...string) *QueryError {
	if len(messages) == 0 {
		messages = []string{"unknown error"}
	}
	errs := make([]Error, len(messages))
	for i, m := range messages {
		errs[i] = Error{Message: m}
	}
	return &QueryError{operation: operation, errs: errs}
}

// IsAuth reports whether err means the session is not (or no longer) valid:
// no token, HTTP 401/403, or a GraphQL error about the JWT.
func IsAuth(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	var te *TransportError
	if errors.As(err, &te) && (te.statusCode == http.StatusUnauthorized || te.statusCode == http.StatusForbidden) {
		return true
	}
	var qe *QueryError
	return errors.As(err, &qe) && qe.rejectsToken()
}

// IsTransport reports whether err is a non-2xx HTTP response.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsQuery reports whether err carries GraphQL response errors.
func IsQuery(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// IsData reports whether err is a data failure (transport or query) that
// does not invalidate the session.
func IsData(err error) bool {
	return (IsTransport(err) || IsQuery(err)) && !IsAuth(err)
}
