package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the normalized failure shape for every client operation.
// Status is zero when no response was received at all.
type APIError struct {
	Message    string `json:"message"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.StatusText)
}

// serverErrorBody mirrors the server's error envelope.
type serverErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// newServerError builds an APIError from a non-2xx response.
func newServerError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Message:    fmt.Sprintf("server returned %d", resp.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}
	var parsed serverErrorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
	}
	return apiErr
}

// newTransportError wraps a failure where no response arrived.
func newTransportError(err error) *APIError {
	return &APIError{Message: "network error: " + err.Error()}
}

// newDispatchError wraps a failure before or after the wire, such as
// local validation or body encoding.
func newDispatchError(err error) *APIError {
	return &APIError{Message: err.Error()}
}
