package client

import (
	"encoding/json"
)

// genericFailure is reported when the backend gives no usable message.
const genericFailure = "Request failed"

// networkFailure is reported when no response was received at all.
const networkFailure = "Cannot reach server"

// RequestError is a non-2xx backend response. Message carries the
// backend-supplied explanation when one could be extracted.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string { return e.Message }

// NetworkError is a request that produced no response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return networkFailure }

func (e *NetworkError) Unwrap() error { return e.Err }

// ExtractMessage pulls a human-readable failure message out of an error
// response body. Preference order: a structured "error" field, then
// "message", then a generic fallback.
func ExtractMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return genericFailure
}

// newRequestError builds a RequestError from a response status and body.
func newRequestError(status int, body []byte) *RequestError {
	return &RequestError{StatusCode: status, Message: ExtractMessage(body)}
}
