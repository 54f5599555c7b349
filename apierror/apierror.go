// Package apierror converts heterogeneous API failure responses into a
// single normalized, field-addressable error shape.
package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind classifies a normalized error.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindConflict             Kind = "conflict"
	KindPayloadTooLarge      Kind = "payload_too_large"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindUnauthorized         Kind = "unauthorized"
	KindServerError          Kind = "server_error"
	KindNetworkError         Kind = "network_error"
	KindInvalidToken         Kind = "invalid_token"
	KindExpiredToken         Kind = "expired_token"
)

// Normalized is the single error representation surfaced for every failed
// API interaction. FieldErrors is always flat: dotted paths to ordered
// message lists, however deeply nested the server's payload was.
type Normalized struct {
	StatusCode  int                 `json:"statusCode"`
	Kind        Kind                `json:"kind"`
	Message     string              `json:"message"`
	Code        string              `json:"code,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func (n *Normalized) Error() string {
	return fmt.Sprintf("%s (%d): %s", n.Kind, n.StatusCode, n.Message)
}

// errorBody covers both response shapes the platform API produces:
// a bare {message}, or the structured {error:{code,message,params}} form.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Params  *struct {
			ConstraintType string         `json:"constraint_type"`
			Constraint     string         `json:"constraint"`
			FieldErrors    map[string]any `json:"field_errors"`
		} `json:"params"`
	} `json:"error"`
}

// Normalize classifies a failed response by status code and probes the raw
// body for both known error shapes. An unparseable or unrecognized body
// degrades to a generic message built from the status code alone.
func Normalize(statusCode int, rawBody []byte) *Normalized {
	n := &Normalized{
		StatusCode:  statusCode,
		Kind:        kindForStatus(statusCode),
		FieldErrors: map[string][]string{},
	}

	var body errorBody
	if len(rawBody) == 0 || json.Unmarshal(rawBody, &body) != nil {
		n.Message = genericMessage(statusCode)
		return n
	}

	n.Message = body.Message
	if body.Error != nil {
		n.Code = body.Error.Code
		if body.Error.Message != "" {
			n.Message = body.Error.Message
		}
		if body.Error.Params != nil {
			if body.Error.Params.FieldErrors != nil {
				n.FieldErrors = Flatten(body.Error.Params.FieldErrors)
			}
			if n.Kind == KindConflict && body.Error.Params.Constraint != "" {
				n.Message = conflictMessage(body.Error.Params.Constraint)
			}
		}
	}
	if n.Message == "" {
		n.Message = genericMessage(statusCode)
	}
	return n
}

// FromTransport normalizes a failure where no response arrived at all.
func FromTransport(err error) *Normalized {
	message := "network error"
	if err != nil {
		message = err.Error()
	}
	return &Normalized{
		Kind:        KindNetworkError,
		Message:     message,
		FieldErrors: map[string][]string{},
	}
}

func kindForStatus(statusCode int) Kind {
	switch statusCode {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusConflict:
		return KindConflict
	case http.StatusRequestEntityTooLarge:
		return KindPayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return KindUnsupportedMediaType
	default:
		return KindServerError
	}
}

func genericMessage(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		text = "request failed"
	}
	return fmt.Sprintf("%s (status %d)", text, statusCode)
}

func conflictMessage(constraint string) string {
	return fmt.Sprintf("a record with this %s already exists", constraint)
}
