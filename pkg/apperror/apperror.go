package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const CodeValidation = "VALIDATION_ERROR"

// Detail is one entry of a validation error list.
type Detail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Error is an error with an HTTP status and an API error code.
type Error struct {
	Status  int
	Code    string
	Message string
	Details []Detail
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an error with the HTTP_ERROR_{status} code.
func New(status int, format string, args ...any) *Error {
	return &Error{
		Status:  status,
		Code:    fmt.Sprintf("HTTP_ERROR_%d", status),
		Message: fmt.Sprintf(format, args...),
	}
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// Validation builds a 422 VALIDATION_ERROR.
func Validation(details ...Detail) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidation,
		Message: "Validation error",
		Details: details,
	}
}

// BodyDetail is a value error located at a request body field.
func BodyDetail(field, msg, typ string) Detail {
	return Detail{Loc: []string{"body", field}, Msg: msg, Type: typ}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
