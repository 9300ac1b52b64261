package apis

import (
	"fmt"
	"net/http"
)

const (
	KindValueInvalid = "value:invalid"
	KindNotFound     = "value:notfound"
	KindForbidden    = "permission:forbidden"
)

// APIError is a domain error reported to API clients as
// {"error": kind, "data": data, "message": message}.
type APIError struct {
	Kind    string `json:"error"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

func NewAPIError(kind, data, message string) *APIError {
	return &APIError{Kind: kind, Data: data, Message: message}
}

// ValueError reports invalid or missing input; data names the field.
func ValueError(field, message string) *APIError {
	return NewAPIError(KindValueInvalid, field, message)
}

// ResourceNotFound reports a missing resource; data names the resource.
func ResourceNotFound(resource, message string) *APIError {
	return NewAPIError(KindNotFound, resource, message)
}

func PermissionError(message string) *APIError {
	return NewAPIError(KindForbidden, "permission", message)
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Data)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Data, e.Message)
}

// Status maps the error kind to an HTTP status.
func (e *APIError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
