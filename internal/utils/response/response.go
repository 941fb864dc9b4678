// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-api/internal/storage"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases:
//
//	{ "status": "error", "error": "Student not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Message is the body of every successful write: {"message": "Student added"}.
type Message struct {
	Message string `json:"message"`
}

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK writes 200 {"message": msg}.
func OK(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, Message{Message: msg})
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ErrorMessage builds an error Response from a plain message.
func ErrorMessage(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "error": "field first_name is required, field age is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// StorageError maps a store error onto the HTTP status and body the API
// promises:
//
//	ErrAlreadyExists, ErrAlreadyRegistered → 400 "Student already exists"
//	ErrNotFound                            → 404 "Class not found"
//	anything else                          → 500
//
// ─────────────────────────────────────────────────────────────────────────────
func StorageError(err error) (int, Response) {
	entity := "Record"
	var entityErr *storage.EntityError
	if errors.As(err, &entityErr) {
		entity = title(entityErr.Entity)
	}

	switch {
	case errors.Is(err, storage.ErrAlreadyRegistered):
		return http.StatusBadRequest, ErrorMessage(entity + " already registered")
	case errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusBadRequest, ErrorMessage(entity + " already exists")
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorMessage(entity + " not found")
	default:
		return http.StatusInternalServerError, ErrorMessage("internal server error")
	}
}

// WriteStorageError writes the StorageError mapping. Unexpected errors are
// logged; the client only sees a generic message.
func WriteStorageError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := StorageError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "storage failure",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	WriteJSON(w, status, body)
}

// WriteDecodeError answers a body that could not be decoded or validated.
// Every such failure is a 422, so 400 always means a conflict.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationError(verrs))
	default:
		WriteJSON(w, http.StatusUnprocessableEntity, GeneralError(err))
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
