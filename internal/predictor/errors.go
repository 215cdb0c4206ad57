package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means the request never got a response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the service answered with a non-2xx status.
type ServerError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
}

// MalformedResponseError means a 2xx body did not have the expected shape.
type MalformedResponseError struct {
	Endpoint string
	Content  json.RawMessage
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Describe turns a client error into the line shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	var srvErr *ServerError
	var badErr *MalformedResponseError

	switch {
	case errors.As(err, &netErr):
		return "I could not reach the diagnosis service. Please check your connection and start again."
	case errors.As(err, &srvErr):
		switch srvErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "The diagnosis service rejected the request. Please log in again."
		case http.StatusNotFound:
			return "No data found for this diagnosis."
		default:
			return fmt.Sprintf("The diagnosis service returned an error (status %d). Please start again.", srvErr.StatusCode)
		}
	case errors.As(err, &badErr):
		return "The diagnosis service sent a response I could not understand. Please start again."
	default:
		return err.Error()
	}
}
