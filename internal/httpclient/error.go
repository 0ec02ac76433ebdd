package httpclient

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/printstudio/docengine/internal/errors"
)

// maxSnippet bounds how much of an error body ends up in logs and error details
const maxSnippet = 256

// Error is returned by Send for any response outside 2xx
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d %s", e.InternalError.Error(), e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether the same request may succeed later
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Snippet returns the start of the response body, cut on a rune boundary
func (e *Error) Snippet() string {
	body := e.Response
	if len(body) > maxSnippet {
		body = body[:maxSnippet]
		for len(body) > 0 && !utf8.Valid(body) {
			body = body[:len(body)-1]
		}
	}
	return string(body)
}

func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, "unexpected response status"),
		StatusCode:    statusCode,
		Response:      response,
	}
}

// IsHTTPError unwraps err down to a response error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
