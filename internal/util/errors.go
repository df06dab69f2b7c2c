// internal/util/errors.go
// Application errors and their HTTP rendering

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string `json:"code"` // bad_input, not_found, unauthorized, internal
	Message string `json:"message"`
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Status maps the error code to an HTTP status.
func (e AppError) Status() int {
	switch e.Code {
	case "bad_input":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "unauthorized":
		return http.StatusUnauthorized
	case "unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func BadInput(msg string) AppError { return AppError{Code: "bad_input", Message: msg} }
func NotFound(msg string) AppError { return AppError{Code: "not_found", Message: msg} }
func Unauthorized(msg string) AppError { return AppError{Code: "unauthorized", Message: msg} }
func Unavailable(msg string) AppError { return AppError{Code: "unavailable", Message: msg} }
func Internal(msg string) AppError { return AppError{Code: "internal", Message: msg} }

// WriteError renders err as JSON. Errors that are not an AppError become
// internal errors.
func WriteError(w http.ResponseWriter, err error) {
	var ae AppError
	if !errors.As(err, &ae) {
		ae = Internal(err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status())
	_ = json.NewEncoder(w).Encode(ae)
}
