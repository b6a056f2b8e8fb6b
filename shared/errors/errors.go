package errors

import (
	stderrors "errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(message string, statusCode int) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode}
}

func NotFound(message string) error {
	return New(message, http.StatusNotFound)
}

func BadRequest(message string) error {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) error {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) error {
	return New(message, http.StatusForbidden)
}

// StatusCode returns the carried status code, or 500 for plain errors.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return err != nil && StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return err != nil && StatusCode(err) == http.StatusConflict
}
