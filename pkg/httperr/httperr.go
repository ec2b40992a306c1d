// Package httperr provides the request-level error type and the
// terminal JSON error writer used by handlers and middleware.
//
// Handlers surface failures as *Error values carrying an HTTP status;
// Write maps any error to a JSON body of the form
//
//	{"message": "..."}
//
// and logs it exactly once at ERROR level. Errors without a status
// default to 500.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Error is a request-level error with an associated HTTP status code.
type Error struct {
	Status  int
	Message string
	Err     error
}

// New creates an Error with the given status and client-facing message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap creates an Error that carries an underlying cause. The cause is
// logged but never sent to the client.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// From converts an arbitrary error to an *Error. Errors that are not
// already an *Error become a 500 with a generic message; the original
// error is retained as the cause.
func From(err error) *Error {
	var herr *Error
	if errors.As(err, &herr) {
		return herr
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
		Err:     err,
	}
}

// body is the JSON error response shape.
type body struct {
	Message string `json:"message"`
}

// Write sends err to the client as a JSON error response and logs it
// once. It is the terminal error stage: nothing downstream re-reports
// the error.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	herr := From(err)

	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", herr.Status,
		"error", herr.Error(),
		"request_id", w.Header().Get("X-Request-ID"),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(herr.Status)
	_ = json.NewEncoder(w).Encode(body{Message: herr.Message})
}
