package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func Forbidden(code string, err error) *Error {
	return New(http.StatusForbidden, code, err)
}

func Unauthorized(code string, err error) *Error {
	return New(http.StatusUnauthorized, code, err)
}

func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// StatusOf returns the HTTP status carried by err, or 500 for plain errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}
