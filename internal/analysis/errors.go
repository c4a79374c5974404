package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// User-facing messages for failures that carry no message of their own.
const (
	GenericErrorMessage      = "An unknown error occurred."
	MalformedResponseMessage = "The analysis service returned a report in an unexpected format."
)

// HTTPError is returned for non-2xx responses. The body is kept as received;
// callers decide how to interpret it.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("analysis service returned %s", e.Status)
}

// ServiceMessage returns the "error" string from a JSON body, if any.
func (e *HTTPError) ServiceMessage() string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// ErrorMessage converts a failed Analyze call into the message shown to the
// user: the service's own error string when the response body has one, a
// fixed message for unusable success payloads, otherwise a generic fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.ServiceMessage(); msg != "" {
			return msg
		}
		return GenericErrorMessage
	}
	if errors.Is(err, ErrMalformedResponse) {
		return MalformedResponseMessage
	}
	return GenericErrorMessage
}
