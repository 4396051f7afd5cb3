package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnsupportedResponseType is returned when a response is neither JSON nor HTML.
var ErrUnsupportedResponseType = errors.New("unsupported response type")

// ErrResponseTooLarge is returned when a successful response body exceeds the
// client's size limit. The body is never shown truncated.
var ErrResponseTooLarge = errors.New("response too large")

// StatusError is returned for any response outside the 2xx range. Its message is
// the status line, e.g. "404 Not Found".
type StatusError struct {
	Code int
	Text string
	// Body holds the start of the response body for logging. It is not part of
	// the message.
	Body []byte
}

func (e *StatusError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%d", e.Code)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Text)
}
